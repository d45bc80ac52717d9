// Package config loads trainer and API settings from YAML.
package config

import (
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"icsbagging/internal/data"
	"icsbagging/internal/features"
	"icsbagging/internal/ics"
	"icsbagging/internal/models"
)

const (
	SourceExpenses = "expenses"
	SourceBlobs    = "blobs"
	SourceCSV      = "csv"
)

type DataConfig struct {
	Source    string         `yaml:"source"`
	Path      string         `yaml:"path"`
	LabelCol  int            `yaml:"label_col"`
	N         int            `yaml:"n"`
	FraudRate float64        `yaml:"fraud_rate"`
	Clusters  []data.Cluster `yaml:"clusters"`
	TrainFrac float64        `yaml:"train_frac"`
	// ValidationFrac carves a held-out validation set out of the training
	// split; 0 scores candidates on the training set itself.
	ValidationFrac float64 `yaml:"validation_frac"`
	Seed           int64   `yaml:"seed"`
}

type OutputConfig struct {
	RoundsCSV string `yaml:"rounds_csv"`
	CurvePNG  string `yaml:"curve_png"`
}

type Config struct {
	Ensemble ics.Config         `yaml:"ensemble"`
	Model    models.ModelConfig `yaml:"model"`
	Data     DataConfig         `yaml:"data"`
	Output   OutputConfig       `yaml:"output"`
}

func Default() Config {
	return Config{
		Ensemble: ics.DefaultConfig(),
		Model:    models.ModelConfig{Algorithm: "tree", MaxDepth: 6, MinSamplesSplit: 20, MaxThresholdsPerFe: 32},
		Data: DataConfig{
			Source:    SourceExpenses,
			N:         5000,
			FraudRate: 0.02,
			Clusters: []data.Cluster{
				{Center: []float64{0, 0}, StdDev: 1, Count: 900, Label: 0},
				{Center: []float64{2.5, 2.5}, StdDev: 1, Count: 100, Label: 1},
			},
			TrainFrac: 0.8,
			Seed:      42,
		},
		Output: OutputConfig{
			RoundsCSV: "data/rounds.csv",
			CurvePNG:  "data/rounds.png",
		},
	}
}

// Load overlays the YAML file at path onto Default. An empty path returns the
// defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if err := c.Ensemble.Validate(); err != nil {
		return err
	}
	if _, err := models.NewFactory(c.Model); err != nil {
		return err
	}
	switch c.Data.Source {
	case SourceExpenses, SourceBlobs:
	case SourceCSV:
		if c.Data.Path == "" {
			return fmt.Errorf("data.path is required for the csv source")
		}
	default:
		return fmt.Errorf("unknown data source %q", c.Data.Source)
	}
	if c.Data.TrainFrac <= 0 || c.Data.TrainFrac >= 1 {
		return fmt.Errorf("data.train_frac must be in (0,1), got %g", c.Data.TrainFrac)
	}
	if c.Data.ValidationFrac < 0 || c.Data.ValidationFrac >= 1 {
		return fmt.Errorf("data.validation_frac must be in [0,1), got %g", c.Data.ValidationFrac)
	}
	return nil
}

// Load materializes the configured data source. Synthetic sources are drawn
// from a generator seeded with d.Seed.
func (d DataConfig) Load() (data.Dataset, error) {
	rng := rand.New(rand.NewSource(d.Seed))
	switch d.Source {
	case SourceBlobs:
		return data.GenerateBlobs(d.Clusters, rng), nil
	case SourceCSV:
		return data.ReadCSV(d.Path, d.LabelCol)
	default:
		return features.Dataset(data.GenerateExpenses(d.N, d.FraudRate, rng)), nil
	}
}
