// Package registry is the catalog of named capability implementations.
//
// Modules compiled into the binary register implementation constructors
// under the names scenario documents refer to (e.g. "printer"). During
// application startup the registry is populated and then validated: every
// constructor's output is checked against the facade shape rules, so a
// scenario can never mount an implementation that would fail bind-time
// validation at run time.
package registry
