package hcl

import (
	"github.com/hashicorp/hcl/v2"
)

// rootSchema lists the top-level blocks a manifest file may contain.
var rootSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "type", LabelNames: []string{"name"}},
		{Type: "module", LabelNames: []string{"name"}},
	},
}

// TypeBlock is the body of a `type "Name" { ... }` block. It declares a
// synonym for a type the generated modules already have in scope.
type TypeBlock struct {
	Definition  string `hcl:"definition"`
	Description string `hcl:"description,optional"`
}

// ModuleBlock is the body of a `module "Name" { ... }` block.
type ModuleBlock struct {
	Output     string         `hcl:"output,optional"`
	Signatures hcl.Expression `hcl:"signatures"`
}
