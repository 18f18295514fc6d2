// Package enginecfg loads tunable search parameters for the MCTS engine
// from a TOML file, the way Mgrdich-TermChess's config package loads its
// display/game settings: a typed struct decoded with BurntSushi/toml, with
// every field defaulted so a missing or partial file is never fatal.
package enginecfg

import (
	"os"

	"github.com/BurntSushi/toml"
)

// DefaultExplorationConstant is the UCT/PUCT exploration weight used when a
// loaded config omits one.
const DefaultExplorationConstant = 1.4

// DefaultRolloutDepth caps a Rollout evaluator's random playout when unset.
const DefaultRolloutDepth = 200

// DefaultIterations is how many MCTS iterations Run performs per move when
// a caller doesn't specify one explicitly.
const DefaultIterations = 800

// SearchConfig holds the tunables an MCTS search loop reads at startup. The
// zero value is invalid for direct use; call Default() or Load() instead,
// both of which fill in any zero field with its documented default.
type SearchConfig struct {
	ExplorationConstant float64 `toml:"exploration_constant"`
	RolloutDepth        int     `toml:"rollout_depth"`
	Iterations          int     `toml:"iterations"`
}

// Default returns a SearchConfig with every field set to its documented
// default.
func Default() SearchConfig {
	return SearchConfig{
		ExplorationConstant: DefaultExplorationConstant,
		RolloutDepth:        DefaultRolloutDepth,
		Iterations:          DefaultIterations,
	}
}

// withDefaults fills any zero-valued field of c with the corresponding
// Default() value, so a TOML file only needs to override what it cares
// about.
func (c SearchConfig) withDefaults() SearchConfig {
	d := Default()
	if c.ExplorationConstant == 0 {
		c.ExplorationConstant = d.ExplorationConstant
	}
	if c.RolloutDepth == 0 {
		c.RolloutDepth = d.RolloutDepth
	}
	if c.Iterations == 0 {
		c.Iterations = d.Iterations
	}
	return c
}

// Load reads a SearchConfig from a TOML file at path. If path doesn't
// exist, Load returns Default() with no error: a missing config file is
// not a failure, only a request to use the defaults.
func Load(path string) (SearchConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	var cfg SearchConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return SearchConfig{}, err
	}
	return cfg.withDefaults(), nil
}
