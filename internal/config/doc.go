// Package config defines the format-agnostic scenario model and the loader
// and decoder interfaces that bridge it to a concrete configuration format.
// The executor consumes only this package; the HCL specifics live in the
// hcl package.
package config
