// Package registry holds the component and system tables that modules fill in
// during startup.
//
// A Registry starts Open. Modules add components (named factories) and
// systems (behaviour plus the names of the components it consumes). Names are
// stored exactly as written; nothing is resolved while registration is still
// in progress, because the component a system refers to may be registered by
// a module that has not run yet.
//
// Resolve is called once, after every registration has been submitted. It
// turns each system's dependency names into component identities, records a
// diagnostic for every name that does not exist, computes the execution plan
// and seals the registry. A sealed Registry never changes again and can be
// read from any number of goroutines.
//
// Identities are dense and assigned in acceptance order: the first component
// gets 0, the next 1, and so on. Systems have their own identity space.
//
// When two components share a name, lookups by name return the one that was
// registered first. Registries created with RejectDuplicates refuse the
// second registration with ErrAlreadyRegistered instead.
package registry
