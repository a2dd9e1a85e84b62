// Package generator turns loaded module definitions into rendered Haskell
// binding modules. Each module is parsed and rendered by one worker of a
// bounded pool; results always come back in the order the modules were given.
package generator

import (
	"context"
	"fmt"

	"github.com/specialistvlad/hsbindgen/internal/config"
	"github.com/specialistvlad/hsbindgen/internal/ctxlog"
	"github.com/specialistvlad/hsbindgen/internal/render"
	"github.com/specialistvlad/hsbindgen/internal/signature"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is used when Options.Workers is not positive.
const DefaultWorkers = 4

// Policy decides what happens to a module when one of its signatures fails
// to parse.
type Policy string

const (
	// PolicyFail aborts the whole run on the first invalid signature.
	PolicyFail Policy = "fail"
	// PolicySkip drops invalid signatures and renders the remaining ones.
	PolicySkip Policy = "skip"
)

// ParsePolicy validates a policy name. The empty string selects PolicyFail.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyFail:
		return PolicyFail, nil
	case PolicySkip:
		return PolicySkip, nil
	}
	return "", fmt.Errorf("invalid error policy %q: must be '%s' or '%s'", s, PolicyFail, PolicySkip)
}

// Options configures a Generator.
type Options struct {
	Workers int
	OnError Policy
}

// SignatureError reports a signature of a module that failed to parse.
type SignatureError struct {
	Module   string
	Location string
	Raw      string
	Err      error
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("module %s: %s: signature %q: %v", e.Module, e.Location, e.Raw, e.Err)
}

func (e *SignatureError) Unwrap() error {
	return e.Err
}

// Result is the outcome of generating one module.
type Result struct {
	Module     *config.Module
	Signatures []*signature.Signature
	Text       string
	// Skipped lists the signatures dropped under PolicySkip.
	Skipped []*SignatureError
}

// Generator parses and renders modules.
type Generator struct {
	parser  *signature.Parser
	workers int
	policy  Policy
}

// New creates a Generator that parses signatures with parser.
func New(parser *signature.Parser, opts Options) *Generator {
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	policy := opts.OnError
	if policy == "" {
		policy = PolicyFail
	}
	return &Generator{parser: parser, workers: workers, policy: policy}
}

// Generate renders every module. Under PolicyFail the first signature error
// cancels the remaining work and is returned as a *SignatureError.
func (g *Generator) Generate(ctx context.Context, modules []*config.Module) ([]*Result, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Generation started.", "modules", len(modules), "workers", g.workers, "policy", g.policy)

	results := make([]*Result, len(modules))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)

	for i, mod := range modules {
		i, mod := i, mod
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			res, err := g.generateModule(ctxlog.With(egCtx, "module", mod.Name), mod)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	// errgroup only reports errors returned by the workers, so a parent
	// cancellation that raced with the last worker is surfaced here.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.Debug("Generation finished.", "modules", len(results))
	return results, nil
}

func (g *Generator) generateModule(ctx context.Context, mod *config.Module) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Generating module.", "signatures", len(mod.Signatures))

	res := &Result{Module: mod}
	for i, raw := range mod.Signatures {
		sig, err := g.parser.Parse(raw)
		if err != nil {
			sigErr := &SignatureError{Module: mod.Name, Location: mod.Location(i), Raw: raw, Err: err}
			if g.policy != PolicySkip {
				return nil, sigErr
			}
			logger.Warn("Skipping invalid signature.", "location", sigErr.Location, "signature", raw, "error", err)
			res.Skipped = append(res.Skipped, sigErr)
			continue
		}
		res.Signatures = append(res.Signatures, sig)
	}

	res.Text = render.Module(mod.Name, res.Signatures)
	logger.Debug("Module rendered.", "exported", len(res.Signatures), "skipped", len(res.Skipped))
	return res, nil
}
