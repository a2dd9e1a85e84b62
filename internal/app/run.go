package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/hsbindgen/internal/config"
	"github.com/specialistvlad/hsbindgen/internal/ctxlog"
	"github.com/specialistvlad/hsbindgen/internal/fsutil"
	"github.com/specialistvlad/hsbindgen/internal/generator"
	"github.com/specialistvlad/hsbindgen/internal/signature"
)

// Run loads the manifests, generates every declared module and writes it
// below OutDir, or prints it when DryRun is set.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	model, err := a.loader.Load(ctx, a.config.ManifestPaths...)
	if err != nil {
		return fmt.Errorf("failed to load manifests: %w", err)
	}
	a.logger.Debug("Manifests loaded.", "modules", len(model.Modules), "types", len(model.Types))

	if err := a.registerTypes(model.Types); err != nil {
		return err
	}

	if len(model.Modules) == 0 {
		a.logger.Warn("No modules declared in manifests, nothing to generate.", "paths", a.config.ManifestPaths)
		return nil
	}

	gen := generator.New(signature.NewParser(a.types), generator.Options{
		Workers: a.config.WorkerCount,
		OnError: generator.Policy(a.config.OnError),
	})
	results, err := gen.Generate(ctx, model.Modules)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	for _, res := range results {
		if err := a.emit(res); err != nil {
			return err
		}
	}

	a.logger.Info("Generation finished.", "modules", len(results))
	return nil
}

// registerTypes adds manifest-declared type synonyms to the type table, in
// declaration order, so a synonym may be defined in terms of an earlier one.
func (a *App) registerTypes(defs []*config.TypeDefinition) error {
	for _, def := range defs {
		if err := a.types.Register(def.Name, def.Definition); err != nil {
			return fmt.Errorf("%s: %w", def.Source, err)
		}
		a.logger.Debug("Registered manifest type.", "type", def.Name, "definition", def.Definition)
	}
	return nil
}

func (a *App) emit(res *generator.Result) error {
	logger := a.logger.With("module", res.Module.Name)

	if a.config.DryRun {
		if _, err := fmt.Fprintf(a.outW, "-- %s\n%s\n", res.Module.Output, res.Text); err != nil {
			return fmt.Errorf("failed to print module %s: %w", res.Module.Name, err)
		}
		logger.Debug("Module printed (dry run).")
		return nil
	}

	path, err := fsutil.WriteFile(a.config.OutDir, res.Module.Output, []byte(res.Text))
	if err != nil {
		return fmt.Errorf("failed to write module %s: %w", res.Module.Name, err)
	}
	logger.Info("Wrote binding module.", "path", path, "functions", len(res.Signatures), "skipped", len(res.Skipped))
	return nil
}
