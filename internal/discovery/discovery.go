// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"context"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/pylocate/pylocate/internal/osenv"
	"github.com/pylocate/pylocate/pkg/pathnorm"
	"github.com/pylocate/pylocate/pkg/pyenv"
	"github.com/pylocate/pylocate/pkg/types"
)

type (
	// Discovery runs a fixed, ordered set of strategies. A Discovery holds
	// no state between runs; concurrent Discover calls are independent.
	Discovery struct {
		locators      []pyenv.Locator
		env           osenv.Environment
		norm          pathnorm.Normalizer
		searchRoots   []types.FilesystemPath
		candidates    []pyenv.Candidate
		workspaceOnly bool
		kinds         map[pyenv.Kind]struct{}
		concurrency   int
	}

	// Option configures a Discovery.
	Option func(*Discovery)

	// Result is the outcome of one discovery run.
	Result struct {
		Managers     []pyenv.EnvManager
		Environments []pyenv.PythonEnvironment
		// Unclassified counts candidates no strategy recognized.
		Unclassified int
		Diagnostics  []Diagnostic
	}
)

// WithEnvironment sets the host snapshot used to read the search path and
// apply OS path rules. Defaults to osenv.FromProcess().
func WithEnvironment(env osenv.Environment) Option {
	return func(d *Discovery) { d.env = env }
}

// WithSearchRoots adds directories, or doublestar glob patterns, whose
// environments are offered to the strategies.
func WithSearchRoots(roots ...types.FilesystemPath) Option {
	return func(d *Discovery) { d.searchRoots = append(d.searchRoots, roots...) }
}

// WithCandidates adds interpreters to classify directly.
func WithCandidates(candidates ...pyenv.Candidate) Option {
	return func(d *Discovery) { d.candidates = append(d.candidates, candidates...) }
}

// WithWorkspaceOnly restricts discovery to the search roots and explicit
// candidates: strategies do not enumerate and the search path is ignored.
func WithWorkspaceOnly(only bool) Option {
	return func(d *Discovery) { d.workspaceOnly = only }
}

// WithKinds keeps only environments of the given kinds. No kinds keeps all.
func WithKinds(kinds ...pyenv.Kind) Option {
	return func(d *Discovery) {
		for _, k := range kinds {
			if d.kinds == nil {
				d.kinds = make(map[pyenv.Kind]struct{})
			}
			d.kinds[k] = struct{}{}
		}
	}
}

// WithConcurrency bounds how many strategy calls run at once. Values below
// one select the number of CPUs.
func WithConcurrency(n int) Option {
	return func(d *Discovery) { d.concurrency = n }
}

// New creates a Discovery over locators, whose order sets precedence.
func New(locators []pyenv.Locator, opts ...Option) *Discovery {
	d := &Discovery{locators: locators}
	for _, opt := range opts {
		opt(d)
	}
	if d.env == nil {
		d.env = osenv.FromProcess()
	}
	if d.concurrency < 1 {
		d.concurrency = runtime.NumCPU()
	}
	d.norm = pathnorm.ForOS(d.env.GOOS())
	return d
}

// Discover runs every strategy and returns the merged result. Absent or
// unreadable evidence never fails the run; the only error is the context's.
func (d *Discovery) Discover(ctx context.Context) (*Result, error) {
	candidates, diags, err := d.collectCandidates(ctx)
	if err != nil {
		return nil, err
	}

	acc := newAccumulator(d.norm)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)

	if !d.workspaceOnly {
		for rank, loc := range d.locators {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				res := loc.Enumerate()
				slog.Debug("strategy enumerated", "strategy", loc.Name(), "found", countEnvironments(res))
				acc.addResult(rank, res)
				return nil
			})
		}
	}

	classified := make([]bool, len(candidates))
	for idx, cand := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for rank, loc := range d.locators {
				if env := loc.Classify(cand); env != nil {
					acc.addClassified(rank, idx, *env)
					classified[idx] = true
					return nil
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	unclassified := 0
	for idx, ok := range classified {
		if !ok {
			unclassified++
			slog.Debug("candidate matched no strategy", "executable", candidates[idx].Executable)
		}
	}

	managers, envs := acc.result(d.accepts)
	return &Result{
		Managers:     managers,
		Environments: envs,
		Unclassified: unclassified,
		Diagnostics:  diags,
	}, nil
}

// LocatorResult returns the managers and environments of r.
func (r *Result) LocatorResult() pyenv.LocatorResult {
	return pyenv.LocatorResult{Managers: r.Managers, Environments: r.Environments}
}

func (d *Discovery) accepts(k pyenv.Kind) bool {
	if len(d.kinds) == 0 {
		return true
	}
	_, ok := d.kinds[k]
	return ok
}

func countEnvironments(res *pyenv.LocatorResult) int {
	if res == nil {
		return 0
	}
	return len(res.Environments)
}
