package facade

import "fmt"

// NoBindingError reports a capability call made with no provider mounted in
// the surrounding scope, or after the surrounding scope was torn down.
type NoBindingError struct {
	Facade string
	Path   string
}

func (e *NoBindingError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: no provider is mounted in the current scope", e.Facade)
	}
	return fmt.Sprintf("%s: capability %q called with no provider mounted in the current scope", e.Facade, e.Path)
}

// MissingCapabilityError reports a capability path segment that is absent
// from the bound implementation. Path is the dotted prefix walked so far,
// including the failing segment.
type MissingCapabilityError struct {
	Facade string
	Path   string
}

func (e *MissingCapabilityError) Error() string {
	return fmt.Sprintf("%s: capability %q is not provided by the current implementation", e.Facade, e.Path)
}

// NotCallableError reports a capability path that resolved to a value which
// is not a function.
type NotCallableError struct {
	Facade string
	Path   string
	Kind   string
}

func (e *NotCallableError) Error() string {
	return fmt.Sprintf("%s: capability %q was found but is not callable (got %s)", e.Facade, e.Path, e.Kind)
}

// NotAFunctionError reports an implementation value that is neither a
// function nor a nested implementation, detected when the implementation is
// mounted. Key is the dotted name of the offending value.
type NotAFunctionError struct {
	Facade string
	Key    string
	Kind   string
}

func (e *NotAFunctionError) Error() string {
	return fmt.Sprintf("%s: implementation value %q must be a function or nested implementation, got %s", e.Facade, e.Key, e.Kind)
}

// AlreadyBoundError reports a root mount attempted inside a scope that
// already carries a binding for the same facade.
type AlreadyBoundError struct {
	Facade string
}

func (e *AlreadyBoundError) Error() string {
	return fmt.Sprintf("%s: provider is already mounted in an enclosing scope; nested root providers are not allowed", e.Facade)
}

// NoRootBindingError reports an override mounted with no enclosing root
// binding to layer over.
type NoRootBindingError struct {
	Facade string
	Tag    string
}

func (e *NoRootBindingError) Error() string {
	return fmt.Sprintf("%s: override %q has no enclosing provider to layer over", e.Facade, e.Tag)
}

// UnknownOverrideKeyError reports an override that names a capability the
// enclosing binding does not provide. Overrides may only replace existing
// capabilities, never introduce new ones.
type UnknownOverrideKeyError struct {
	Facade string
	Tag    string
	Key    string
}

func (e *UnknownOverrideKeyError) Error() string {
	return fmt.Sprintf("%s: override %q replaces capability %q which is not provided by the enclosing binding", e.Facade, e.Tag, e.Key)
}

// StrictModeViolationError reports a root binding update that supplied an
// implementation with a different identity while strict mode is enabled.
type StrictModeViolationError struct {
	Facade string
}

func (e *StrictModeViolationError) Error() string {
	return fmt.Sprintf("%s: implementation identity changed across passes; disable strict mode to allow swapping implementations", e.Facade)
}
