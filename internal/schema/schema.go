// Package schema declares the HCL block shapes a scenario document is built
// from. The structures here are HCL-facing only; the loader translates them
// into the format-agnostic model in the config package.
package schema

import "github.com/hashicorp/hcl/v2"

// DocumentSchema matches the top level of a scenario file.
var DocumentSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "facade", LabelNames: []string{"name"}},
		{Type: "mount", LabelNames: []string{"facade"}},
	},
}

// FacadeSchema matches the body of a `facade` block.
var FacadeSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "display_name"},
		{Name: "strict"},
	},
}

// MountSchema matches the body of a `mount` block. The step blocks (call,
// override, provenance) are order-sensitive: they execute in source order.
var MountSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "implementation", Required: true},
	},
	Blocks: stepBlockHeaders,
}

// OverrideSchema matches the body of an `override` block. Overrides nest the
// same step kinds recursively.
var OverrideSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "tag", Required: true},
		{Name: "implementation", Required: true},
	},
	Blocks: stepBlockHeaders,
}

// CallSchema matches the body of a `call` block. The block label is the
// dotted capability path.
var CallSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "args"},
		{Name: "expect"},
	},
}

// ProvenanceSchema matches the body of a `provenance` block, which carries
// no attributes.
var ProvenanceSchema = &hcl.BodySchema{}

var stepBlockHeaders = []hcl.BlockHeaderSchema{
	{Type: "call", LabelNames: []string{"capability"}},
	{Type: "override"},
	{Type: "provenance"},
}
