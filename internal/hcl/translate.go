package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/capscope/internal/config"
	"github.com/vk/capscope/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

// translateDocument folds one scenario file's blocks into the model.
func (l *Loader) translateDocument(body hcl.Body, model *config.Model) error {
	content, diags := body.Content(schema.DocumentSchema)
	if diags.HasErrors() {
		return diags
	}

	for _, block := range content.Blocks {
		switch block.Type {
		case "facade":
			def, err := l.translateFacade(block)
			if err != nil {
				return err
			}
			if _, exists := model.Facades[def.Name]; exists {
				return fmt.Errorf("facade %q declared more than once", def.Name)
			}
			model.Facades[def.Name] = def
		case "mount":
			mount, err := l.translateMount(block)
			if err != nil {
				return err
			}
			model.Mounts = append(model.Mounts, mount)
		}
	}
	return nil
}

func (l *Loader) translateFacade(block *hcl.Block) (*config.FacadeDefinition, error) {
	content, diags := block.Body.Content(schema.FacadeSchema)
	if diags.HasErrors() {
		return nil, diags
	}

	def := &config.FacadeDefinition{
		Name:        block.Labels[0],
		DisplayName: block.Labels[0],
		Strict:      true,
	}
	if attr, ok := content.Attributes["display_name"]; ok {
		name, err := staticString(attr)
		if err != nil {
			return nil, err
		}
		def.DisplayName = name
	}
	if attr, ok := content.Attributes["strict"]; ok {
		strict, err := staticBool(attr)
		if err != nil {
			return nil, err
		}
		def.Strict = strict
	}
	return def, nil
}

func (l *Loader) translateMount(block *hcl.Block) (*config.Mount, error) {
	content, diags := block.Body.Content(schema.MountSchema)
	if diags.HasErrors() {
		return nil, diags
	}

	implName, err := staticString(content.Attributes["implementation"])
	if err != nil {
		return nil, err
	}
	steps, err := l.translateSteps(content.Blocks)
	if err != nil {
		return nil, err
	}
	return &config.Mount{
		Facade:         block.Labels[0],
		Implementation: implName,
		Steps:          steps,
	}, nil
}

// translateSteps converts call/override/provenance blocks in source order.
func (l *Loader) translateSteps(blocks hcl.Blocks) ([]config.Step, error) {
	var steps []config.Step
	for _, block := range blocks {
		switch block.Type {
		case "call":
			step, err := l.translateCall(block)
			if err != nil {
				return nil, err
			}
			steps = append(steps, step)
		case "override":
			step, err := l.translateOverride(block)
			if err != nil {
				return nil, err
			}
			steps = append(steps, step)
		case "provenance":
			if _, diags := block.Body.Content(schema.ProvenanceSchema); diags.HasErrors() {
				return nil, diags
			}
			steps = append(steps, &config.ProvenanceStep{})
		}
	}
	return steps, nil
}

func (l *Loader) translateCall(block *hcl.Block) (*config.CallStep, error) {
	content, diags := block.Body.Content(schema.CallSchema)
	if diags.HasErrors() {
		return nil, diags
	}

	step := &config.CallStep{Capability: block.Labels[0]}
	if attr, ok := content.Attributes["args"]; ok {
		step.Args = attr.Expr
	}
	if attr, ok := content.Attributes["expect"]; ok {
		step.Expect = attr.Expr
	}
	return step, nil
}

func (l *Loader) translateOverride(block *hcl.Block) (*config.OverrideStep, error) {
	content, diags := block.Body.Content(schema.OverrideSchema)
	if diags.HasErrors() {
		return nil, diags
	}

	tag, err := staticString(content.Attributes["tag"])
	if err != nil {
		return nil, err
	}
	implName, err := staticString(content.Attributes["implementation"])
	if err != nil {
		return nil, err
	}
	steps, err := l.translateSteps(content.Blocks)
	if err != nil {
		return nil, err
	}
	return &config.OverrideStep{Tag: tag, Implementation: implName, Steps: steps}, nil
}

// staticString evaluates an attribute that must be a literal string.
func staticString(attr *hcl.Attribute) (string, error) {
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return "", diags
	}
	if val.Type() != cty.String {
		return "", fmt.Errorf("attribute %q must be a string, got %s", attr.Name, val.Type().FriendlyName())
	}
	return val.AsString(), nil
}

// staticBool evaluates an attribute that must be a literal bool.
func staticBool(attr *hcl.Attribute) (bool, error) {
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return false, diags
	}
	if val.Type() != cty.Bool {
		return false, fmt.Errorf("attribute %q must be a bool, got %s", attr.Name, val.Type().FriendlyName())
	}
	return val.True(), nil
}
