// Package hcl provides the concrete HCL implementation of config.Loader.
// It is responsible for finding manifest files, decoding their `module` and
// `type` blocks, evaluating signature lists and translating the result into
// the format-agnostic config.Model.
package hcl
