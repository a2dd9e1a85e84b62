package config

// Model is the unified representation of all loaded manifests.
type Model struct {
	Modules []*Module
	Types   []*TypeDefinition
}

// Module is one Haskell binding module to generate.
type Module struct {
	// Name is the dotted Haskell module name, e.g. `Math.Simple`.
	Name string
	// Output is the slash-separated path of the generated file, relative to
	// the output directory.
	Output string
	// Signatures are the raw `name :: type` lines, in declaration order.
	Signatures []string
	// Locations holds a source position for each entry of Signatures.
	Locations []string
	// Source is the position of the module declaration.
	Source string
}

// Location returns the best known source position of the i-th signature.
func (m *Module) Location(i int) string {
	if i >= 0 && i < len(m.Locations) {
		return m.Locations[i]
	}
	return m.Source
}

// TypeDefinition declares a type synonym that signatures may use in addition
// to the built-in types. Definition is the Haskell type it stands for.
type TypeDefinition struct {
	Name        string
	Definition  string
	Description string
	Source      string
}
