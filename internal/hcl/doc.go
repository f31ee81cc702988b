// Package hcl provides the concrete HCL implementation of the scenario
// loading and value decoding interfaces defined in the config package. It is
// responsible for file parsing, block translation into the agnostic model,
// and cty-to-Go value conversion.
package hcl
