package config

import "github.com/hashicorp/hcl/v2"

// Model is the unified, format-agnostic representation of a scenario: the
// facades it declares and the mounts it executes, in source order.
type Model struct {
	Facades map[string]*FacadeDefinition
	Mounts  []*Mount
}

// FacadeDefinition declares one facade a scenario dispatches through.
type FacadeDefinition struct {
	Name        string
	DisplayName string
	Strict      bool
}

// Mount binds a named registered implementation for the duration of its
// steps.
type Mount struct {
	Facade         string
	Implementation string
	Steps          []Step
}

// Step is one scenario action inside a mount or override subtree.
type Step interface {
	step()
}

// CallStep dispatches one capability. Args and Expect stay as unevaluated
// expressions; the executor decodes them through the Decoder at dispatch
// time.
type CallStep struct {
	Capability string
	Args       hcl.Expression
	Expect     hcl.Expression
}

// OverrideStep layers a partial implementation over the enclosing binding
// for the duration of its nested steps.
type OverrideStep struct {
	Tag            string
	Implementation string
	Steps          []Step
}

// ProvenanceStep emits the facade's provenance report at this point in the
// scenario.
type ProvenanceStep struct{}

func (*CallStep) step()       {}
func (*OverrideStep) step()   {}
func (*ProvenanceStep) step() {}
