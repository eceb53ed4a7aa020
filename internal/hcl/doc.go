// Package hcl is the HCL implementation of config.Loader. It parses
// experiment definition files with hashicorp/hcl/v2, decodes them into
// schema structs via gohcl, and translates the result into the
// format-agnostic config model. All cty value handling stays inside this
// package.
package hcl
