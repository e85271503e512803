package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeScenario(t, `
cells: 500
steps: 250
seed: 42
densities: [0.05, 0.1]
bottleneck:
  start: 200
  end: 220
  vmax: 1
  inflow: 0.4
`)
	sc, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 500, sc.Cells)
	assert.Equal(t, 250, sc.Steps)
	assert.Equal(t, int64(42), sc.Seed)
	assert.Equal(t, []float64{0.05, 0.1}, sc.Densities)
	require.NotNil(t, sc.Bottleneck)
	assert.Equal(t, 200, sc.Bottleneck.Start)
	assert.Equal(t, 0.4, sc.Bottleneck.Inflow)

	// Untouched keys keep their defaults.
	assert.Equal(t, 5, sc.VMax)
	assert.Equal(t, 0.5, sc.P)
	assert.Equal(t, -1, sc.T0)
}

func TestLoadEmptyFileIsDefaults(t *testing.T) {
	sc, err := Load(writeScenario(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), sc)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load(writeScenario(t, "lanes: 3\n"))
	assert.Error(t, err)
}

func TestLoadRejectsBadDensity(t *testing.T) {
	_, err := Load(writeScenario(t, "density: 1.7\n"))
	assert.Error(t, err)

	_, err = Load(writeScenario(t, "densities: [0.2, -0.1]\n"))
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestResolveCars(t *testing.T) {
	sc := Default()
	sc.Cells = 200
	sc.Density = 0.25
	assert.Equal(t, 50, sc.ResolveCars())

	sc.Cars = 7
	assert.Equal(t, 7, sc.ResolveCars())
}
