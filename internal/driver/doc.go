// Package driver owns the registration phase of startup.
//
// Modules never register themselves as a side effect of being imported.
// Instead the application hands the driver an explicit, ordered list of
// modules; the driver submits each one to a fresh registry and then seals it
// with a single SealAndResolve call. Because resolution is deferred until
// every module has been submitted, the order of the list affects identities
// but never whether a dependency can be found.
package driver
