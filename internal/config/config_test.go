package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "arena.toml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadOverridesDefaults(t *testing.T) {
	p := writeConfig(t, `
[simulation]
tick_rate = "100ms"
max_frames = 600

[spatial]
cell_size = 4.5

[journal]
enabled = true
flush_interval = "2s"
`)
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, 100*time.Millisecond, cfg.Simulation.TickRate)
	assert.Equal(t, uint64(600), cfg.Simulation.MaxFrames)
	assert.Equal(t, 20*time.Millisecond, cfg.Simulation.FixedStep, "untouched keys keep defaults")
	assert.Equal(t, 4.5, cfg.Spatial.CellSize)
	assert.True(t, cfg.Journal.Enabled)
	assert.Equal(t, 2*time.Second, cfg.Journal.FlushInterval)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadEmptyPathGivesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 100, cfg.Pool.Prewarm)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	p := writeConfig(t, `
[spatial]
cell_size = 0

[simulation]
tick_rate = "0s"
`)
	_, err := Load(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spatial.cell_size")
	assert.Contains(t, err.Error(), "simulation.tick_rate")
}

func TestLoadReportsMissingFileAndBadSyntax(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "[simulation\n"))
	assert.Error(t, err)
}

func TestPathPrefersFlag(t *testing.T) {
	t.Setenv(EnvPath, "/etc/arena.toml")
	assert.Equal(t, "local.toml", Path("local.toml"))
	assert.Equal(t, "/etc/arena.toml", Path(""))
}
