// Package facade provides scoped, late-bound dispatch of named capabilities.
//
// A facade is a pair: a tree of stable, callable handles that consumers
// address capabilities through, and a Provider that binds a concrete
// implementation object into a subtree of execution. Handles are created
// lazily on first access and never validated eagerly, so a consumer can hold
// or pass around a handle for any capability name; existence is checked only
// when the handle is called. The implementation behind a facade is supplied
// by mounting a Provider on a context.Context, and may be partially replaced
// by nested override bindings that track per-capability provenance.
//
// Dispatch is resolved at call time: a handle call reads the nearest binding
// from its context, walks the capability path through the bound
// implementation, and invokes the resolved function through reflection. The
// containing implementation object is available to map-based capability
// functions via an optional Self parameter, so a capability can delegate to
// its siblings through the same resolved object that the dispatcher used.
package facade
