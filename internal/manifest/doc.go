// Package manifest loads the startup manifest: the file that tells the
// application in which order to submit its modules, which modules to skip,
// how to treat duplicate names and unresolved dependencies, and any
// per-module settings.
//
// The manifest can be written in HCL or YAML. Both are translated into the
// same format-agnostic Model, chosen by file extension.
//
// An HCL manifest looks like:
//
//	order = ["reporting", "motion"]
//
//	policy {
//	  duplicate_names = "first_wins"
//	  unresolved      = "exclude"
//	  parallelism     = 1
//	}
//
//	module "greeting" {
//	  settings = {
//	    name = "Manifest Name"
//	  }
//	}
//
// HCL settings may reference environment variables through env, for
// example env.USER.
package manifest
