package facade

import (
	"reflect"
	"sync"
)

// binding is the live association between a scope and a resolved
// implementation. The resolved map is replaced wholesale on update and never
// mutated in place, so readers always observe a consistent snapshot.
type binding struct {
	c     *core
	root  bool
	scope *Scope

	mu         sync.RWMutex
	resolved   map[string]any
	provenance map[string][]string
	ident      identity
	closed     bool
}

func (b *binding) snapshot() map[string]any {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.resolved
}

func (b *binding) isClosed() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.closed
}

func (b *binding) close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
}

// layered returns copies of the resolved map and provenance, for an override
// to layer its own keys over.
func (b *binding) layered() (map[string]any, map[string][]string) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	resolved := make(map[string]any, len(b.resolved))
	for k, v := range b.resolved {
		resolved[k] = v
	}
	provenance := make(map[string][]string, len(b.provenance))
	for k, tags := range b.provenance {
		provenance[k] = append([]string(nil), tags...)
	}
	return resolved, provenance
}

func (b *binding) provenanceCopy() map[string][]string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[string][]string, len(b.provenance))
	for k, tags := range b.provenance {
		out[k] = append([]string(nil), tags...)
	}
	return out
}

// identity captures what "the same implementation" means for the strict-mode
// check: pointer identity for reference kinds, interface equality for
// comparable value kinds, never-equal otherwise.
type identity struct {
	ref        uintptr
	hasRef     bool
	val        any
	comparable bool
}

func identityOf(impl any) identity {
	rv := reflect.ValueOf(impl)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Func, reflect.Chan, reflect.Slice, reflect.UnsafePointer:
		return identity{ref: rv.Pointer(), hasRef: true}
	}
	return identity{val: impl, comparable: rv.IsValid() && rv.Type().Comparable()}
}

func (i identity) equal(other identity) bool {
	if i.hasRef || other.hasRef {
		return i.hasRef && other.hasRef && i.ref == other.ref
	}
	if !i.comparable || !other.comparable {
		return false
	}
	return i.val == other.val
}
