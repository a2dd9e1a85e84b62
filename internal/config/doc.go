// Package config defines the format-agnostic model of a bindgen run: the
// Haskell modules to generate, the raw signatures each one exports and the
// extra opaque types the signatures may refer to, along with the Loader
// interface that fills it from manifest files.
//
// The concrete HCL implementation lives in the hcl package.
package config
