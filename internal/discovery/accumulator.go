// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"cmp"
	"slices"
	"sync"

	"github.com/pylocate/pylocate/pkg/pathnorm"
	"github.com/pylocate/pylocate/pkg/pyenv"
	"github.com/pylocate/pylocate/pkg/types"
)

const (
	phaseEnumerate phase = iota
	phaseClassify
)

type (
	phase int

	// origin orders reports: lower rank first, then enumeration before
	// classification, then the report's position within its producer.
	origin struct {
		rank  int
		phase phase
		seq   int
	}

	envEntry struct {
		origin
		env pyenv.PythonEnvironment
	}

	managerEntry struct {
		origin
		mgr pyenv.EnvManager
	}

	// accumulator merges reports from concurrently running strategies.
	accumulator struct {
		mu       sync.Mutex
		norm     pathnorm.Normalizer
		envs     map[types.FilesystemPath]envEntry
		keyless  []envEntry
		managers map[types.FilesystemPath]managerEntry
	}
)

func (o origin) compare(other origin) int {
	if c := cmp.Compare(o.rank, other.rank); c != 0 {
		return c
	}
	if c := cmp.Compare(o.phase, other.phase); c != 0 {
		return c
	}
	return cmp.Compare(o.seq, other.seq)
}

func newAccumulator(norm pathnorm.Normalizer) *accumulator {
	return &accumulator{
		norm:     norm,
		envs:     make(map[types.FilesystemPath]envEntry),
		managers: make(map[types.FilesystemPath]managerEntry),
	}
}

// addResult records an enumeration result from the strategy at rank.
func (a *accumulator) addResult(rank int, res *pyenv.LocatorResult) {
	if res.IsEmpty() {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, m := range res.Managers {
		a.putManager(origin{rank: rank, phase: phaseEnumerate, seq: i}, m)
	}
	for i, env := range res.Environments {
		a.putEnv(origin{rank: rank, phase: phaseEnumerate, seq: i}, env)
	}
}

// addClassified records the environment the strategy at rank built for the
// candidate at index seq.
func (a *accumulator) addClassified(rank, seq int, env pyenv.PythonEnvironment) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.putEnv(origin{rank: rank, phase: phaseClassify, seq: seq}, env)
}

func (a *accumulator) putEnv(o origin, env pyenv.PythonEnvironment) {
	key := env.KeyWith(a.norm)
	if key == "" {
		// Nothing to deduplicate on; every report is kept.
		a.keyless = append(a.keyless, envEntry{origin: o, env: env})
		return
	}
	if cur, ok := a.envs[key]; ok && cur.compare(o) <= 0 {
		return
	}
	a.envs[key] = envEntry{origin: o, env: env}
}

func (a *accumulator) putManager(o origin, m pyenv.EnvManager) {
	key := a.norm.NormCase(m.Executable)
	if key == "" {
		return
	}
	if cur, ok := a.managers[key]; ok && cur.compare(o) <= 0 {
		return
	}
	a.managers[key] = managerEntry{origin: o, mgr: m}
}

// result returns the merged environments and managers in precedence order.
// Environments whose kind is not accepted are dropped; managers are
// reported only when conda environments are accepted.
func (a *accumulator) result(accept func(pyenv.Kind) bool) ([]pyenv.EnvManager, []pyenv.PythonEnvironment) {
	a.mu.Lock()
	defer a.mu.Unlock()

	envEntries := make([]envEntry, 0, len(a.envs)+len(a.keyless))
	for _, e := range a.envs {
		if accept(e.env.Kind) {
			envEntries = append(envEntries, e)
		}
	}
	for _, e := range a.keyless {
		if accept(e.env.Kind) {
			envEntries = append(envEntries, e)
		}
	}
	slices.SortFunc(envEntries, func(x, y envEntry) int { return x.compare(y.origin) })

	// Managers referenced by kept environments are reported even when no
	// strategy enumerated them.
	for _, e := range envEntries {
		if e.env.Manager != nil {
			a.putManager(e.origin, *e.env.Manager)
		}
	}

	var mgrEntries []managerEntry
	if accept(pyenv.KindConda) {
		mgrEntries = make([]managerEntry, 0, len(a.managers))
		for _, m := range a.managers {
			mgrEntries = append(mgrEntries, m)
		}
		slices.SortFunc(mgrEntries, func(x, y managerEntry) int {
			if c := x.compare(y.origin); c != 0 {
				return c
			}
			return cmp.Compare(x.mgr.Executable, y.mgr.Executable)
		})
	}

	envs := make([]pyenv.PythonEnvironment, 0, len(envEntries))
	for _, e := range envEntries {
		envs = append(envs, e.env)
	}
	managers := make([]pyenv.EnvManager, 0, len(mgrEntries))
	for _, m := range mgrEntries {
		managers = append(managers, m.mgr)
	}
	return managers, envs
}
