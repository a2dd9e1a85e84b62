// This file contains the logic for translating decoded manifest blocks into
// the format-agnostic configuration model defined in the config package.

package hcl

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/hsbindgen/internal/config"
	"github.com/specialistvlad/hsbindgen/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

var (
	// moduleNameRegex matches a dotted Haskell module name such as `Data.Math`.
	moduleNameRegex = regexp.MustCompile(`^[A-Z][A-Za-z0-9_']*(\.[A-Z][A-Za-z0-9_']*)*$`)
	// typeNameRegex matches a capitalized Haskell type name.
	typeNameRegex = regexp.MustCompile(`^[A-Z][A-Za-z0-9_']*$`)
)

// modelBuilder accumulates blocks from one or more files into a model and
// remembers where every name was declared.
type modelBuilder struct {
	model   *config.Model
	evalCtx *hcl.EvalContext
	modules map[string]string
	types   map[string]string
	// outputs maps a cleaned output path to the module writing it.
	outputs map[string]*config.Module
}

func newModelBuilder(evalCtx *hcl.EvalContext) *modelBuilder {
	return &modelBuilder{
		model:   &config.Model{},
		evalCtx: evalCtx,
		modules: make(map[string]string),
		types:   make(map[string]string),
		outputs: make(map[string]*config.Module),
	}
}

// addFile translates every top-level block of file, in file order.
func (b *modelBuilder) addFile(ctx context.Context, file *hcl.File) error {
	content, diags := file.Body.Content(rootSchema)
	if diags.HasErrors() {
		return diags
	}

	for _, block := range content.Blocks {
		var err error
		switch block.Type {
		case "type":
			err = b.addType(ctx, block)
		case "module":
			err = b.addModule(ctx, block)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (b *modelBuilder) addType(ctx context.Context, block *hcl.Block) error {
	name := block.Labels[0]
	source := block.DefRange.String()

	if !typeNameRegex.MatchString(name) {
		return fmt.Errorf("%s: invalid Haskell type name %q", source, name)
	}
	if prev, ok := b.types[name]; ok {
		return fmt.Errorf("%s: type %q already declared at %s", source, name, prev)
	}

	var tb TypeBlock
	if diags := gohcl.DecodeBody(block.Body, b.evalCtx, &tb); diags.HasErrors() {
		return fmt.Errorf("failed to decode type %q: %w", name, diags)
	}

	b.types[name] = source
	b.model.Types = append(b.model.Types, &config.TypeDefinition{
		Name:        name,
		Definition:  tb.Definition,
		Description: tb.Description,
		Source:      source,
	})
	ctxlog.FromContext(ctx).Debug("Translated type block.", "type", name, "source", source)
	return nil
}

func (b *modelBuilder) addModule(ctx context.Context, block *hcl.Block) error {
	logger := ctxlog.FromContext(ctx)
	name := block.Labels[0]
	source := block.DefRange.String()

	if !moduleNameRegex.MatchString(name) {
		return fmt.Errorf("%s: invalid Haskell module name %q", source, name)
	}
	if prev, ok := b.modules[name]; ok {
		return fmt.Errorf("%s: module %q already declared at %s", source, name, prev)
	}

	var mb ModuleBlock
	if diags := gohcl.DecodeBody(block.Body, b.evalCtx, &mb); diags.HasErrors() {
		return fmt.Errorf("failed to decode module %q: %w", name, diags)
	}

	signatures, locations, err := b.evalSignatures(ctx, mb.Signatures)
	if err != nil {
		return fmt.Errorf("in module %q: %w", name, err)
	}
	if len(signatures) == 0 {
		logger.Warn("Module declares no signatures, it will export nothing.", "module", name, "source", source)
	}

	output := mb.Output
	if output == "" {
		output = strings.ReplaceAll(name, ".", "/") + ".hs"
	}
	if !filepath.IsLocal(filepath.FromSlash(output)) {
		return fmt.Errorf("%s: output %q of module %q must be a relative path inside the output directory", source, output, name)
	}

	outputKey := filepath.Clean(filepath.FromSlash(output))
	if prev, ok := b.outputs[outputKey]; ok {
		return fmt.Errorf("%s: output %q of module %q already used by module %q declared at %s",
			source, output, name, prev.Name, prev.Source)
	}

	mod := &config.Module{
		Name:       name,
		Output:     output,
		Signatures: signatures,
		Locations:  locations,
		Source:     source,
	}
	b.modules[name] = source
	b.outputs[outputKey] = mod
	b.model.Modules = append(b.model.Modules, mod)
	logger.Debug("Translated module block.", "module", name, "signatures", len(signatures), "output", output)
	return nil
}

// evalSignatures evaluates the `signatures` expression into a list of strings.
// When the expression is a literal tuple, each signature keeps the source
// range of its own element; otherwise all share the expression's range.
func (b *modelBuilder) evalSignatures(ctx context.Context, expr hcl.Expression) ([]string, []string, error) {
	logger := ctxlog.FromContext(ctx)

	val, diags := expr.Value(b.evalCtx)
	if diags.HasErrors() {
		return nil, nil, diags
	}
	if val.IsNull() {
		return nil, nil, fmt.Errorf("%s: signatures must not be null", expr.Range())
	}
	if !val.IsWhollyKnown() {
		return nil, nil, fmt.Errorf("%s: signatures must be known when the manifest is loaded", expr.Range())
	}

	wantType := cty.List(cty.String)
	converted, err := convert.Convert(val, wantType)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: signatures must be a list of strings: %w", expr.Range(), err)
	}
	if !val.Type().Equals(wantType) {
		logger.Debug("Implicitly converted signatures value.",
			"from", val.Type().FriendlyName(),
			"to", wantType.FriendlyName(),
		)
	}

	var signatures []string
	if err := gocty.FromCtyValue(converted, &signatures); err != nil {
		return nil, nil, fmt.Errorf("%s: invalid signatures: %w", expr.Range(), err)
	}

	locations := make([]string, len(signatures))
	tuple, isTuple := expr.(*hclsyntax.TupleConsExpr)
	for i := range signatures {
		if isTuple && len(tuple.Exprs) == len(signatures) {
			locations[i] = tuple.Exprs[i].Range().String()
		} else {
			locations[i] = expr.Range().String()
		}
	}
	return signatures, locations, nil
}
