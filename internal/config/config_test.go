package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icsbagging/internal/ics"
	"icsbagging/internal/models"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverlaysFile(t *testing.T) {
	path := writeYAML(t, `
ensemble:
  k: 4
  alpha: 0.5
  diversity_metric: q
  sampler: smote
model:
  algorithm: stump
data:
  source: blobs
  train_frac: 0.7
  clusters:
    - center: [0, 0]
      stddev: 0.5
      count: 50
      label: 0
    - center: [3, 3]
      stddev: 0.5
      count: 5
      label: 1
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Ensemble.K)
	assert.Equal(t, 0.5, cfg.Ensemble.Alpha)
	assert.Equal(t, "q", cfg.Ensemble.DiversityMetric)
	assert.Equal(t, ics.SamplerSmote, cfg.Ensemble.Sampler)
	// untouched keys keep their defaults
	assert.Equal(t, 100, cfg.Ensemble.NClassifiers)
	assert.Equal(t, 5, cfg.Ensemble.SmoteK)
	assert.Equal(t, "stump", cfg.Model.Algorithm)
	assert.Equal(t, 0.7, cfg.Data.TrainFrac)
	require.Len(t, cfg.Data.Clusters, 2)

	ds, err := cfg.Data.Load()
	require.NoError(t, err)
	assert.Equal(t, 55, ds.Len())
	assert.Equal(t, 5, ds.Count(1))
}

func TestLoadRejectsInvalid(t *testing.T) {
	_, err := Load(writeYAML(t, "ensemble:\n  k: 0\n"))
	assert.ErrorIs(t, err, ics.ErrInvalidConfig)

	_, err = Load(writeYAML(t, "model:\n  algorithm: svm\n"))
	assert.ErrorIs(t, err, models.ErrUnknownAlgorithm)

	_, err = Load(writeYAML(t, "ensemble: [\n"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidateData(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown source", func(c *Config) { c.Data.Source = "kafka" }},
		{"csv without path", func(c *Config) { c.Data.Source = SourceCSV }},
		{"train frac zero", func(c *Config) { c.Data.TrainFrac = 0 }},
		{"train frac one", func(c *Config) { c.Data.TrainFrac = 1 }},
		{"validation frac one", func(c *Config) { c.Data.ValidationFrac = 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDataLoadIsSeeded(t *testing.T) {
	d := Default().Data
	d.N = 200
	a, err := d.Load()
	require.NoError(t, err)
	b, err := d.Load()
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, 200, a.Len())
}

func TestDataLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "d.csv")
	require.NoError(t, os.WriteFile(path, []byte("label,a,b\n0,1,2\n1,3,4\n"), 0o644))
	d := DataConfig{Source: SourceCSV, Path: path}
	ds, err := d.Load()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, ds.Y)
	assert.Equal(t, [][]float64{{1, 2}, {3, 4}}, ds.X)
}
