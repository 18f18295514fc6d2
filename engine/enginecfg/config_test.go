package enginecfg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadPartialFileFillsRemainingDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "search.toml")
	require.NoError(t, os.WriteFile(path, []byte(`iterations = 1600`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1600, cfg.Iterations)
	assert.Equal(t, DefaultExplorationConstant, cfg.ExplorationConstant)
	assert.Equal(t, DefaultRolloutDepth, cfg.RolloutDepth)
}

func TestLoadFullFileOverridesEveryField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "search.toml")
	contents := `
exploration_constant = 2.0
rollout_depth = 64
iterations = 400
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, SearchConfig{ExplorationConstant: 2.0, RolloutDepth: 64, Iterations: 400}, cfg)
}

func TestLoadMalformedFileReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "search.toml")
	require.NoError(t, os.WriteFile(path, []byte(`not = [valid toml`), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
