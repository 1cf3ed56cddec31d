package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, []string{"Germany", "United Kingdom", "Brazil"}, cfg.Markets)
	assert.Equal(t, 2017, cfg.MinYear)
	assert.Equal(t, 2021, cfg.MaxYear)
	assert.Equal(t, 65.0, cfg.Scoring.SuccessCutoff)
	assert.Equal(t, 200.0, cfg.KPI.GrowthCapPercent)
	assert.Equal(t, 1000.0, cfg.KPI.StreamFloor)

	require.NoError(t, cfg.Validate())
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")

	content := `
markets:
  - Germany
  - Brazil
min_year: 2018
max_year: 2020
paths:
  output_folder: out
scoring:
  success_cutoff: 70
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, []string{"Germany", "Brazil"}, cfg.Markets)
	assert.Equal(t, 2018, cfg.MinYear)
	assert.Equal(t, 2020, cfg.MaxYear)
	assert.Equal(t, "out", cfg.Paths.OutputDir)
	assert.Equal(t, 70.0, cfg.Scoring.SuccessCutoff)
	// Untouched fields keep their defaults
	assert.Equal(t, 0.25, cfg.Scoring.RankWeight)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("min_year: 2018\nmax_year: 2020\n"), 0644))

	t.Setenv("CHARTS_MINYEAR", "2019")

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, 2019, cfg.MinYear)
	assert.Equal(t, 2020, cfg.MaxYear)
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := Load("does/not/exist.yaml")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(c *Config) {},
		},
		{
			name:    "no markets",
			mutate:  func(c *Config) { c.Markets = nil },
			wantErr: "Markets",
		},
		{
			name:    "max year before min year",
			mutate:  func(c *Config) { c.MaxYear = c.MinYear - 1 },
			wantErr: "MaxYear",
		},
		{
			name:    "weights not summing to one",
			mutate:  func(c *Config) { c.Scoring.RankWeight = 0.50 },
			wantErr: "sum to 1.0",
		},
		{
			name:    "negative stream floor",
			mutate:  func(c *Config) { c.KPI.StreamFloor = -1 },
			wantErr: "StreamFloor",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	cfg := Default()
	cfg.Paths.OutputDir = "data/processed"

	assert.Equal(t, filepath.Join("data", "processed", "kpi.csv"), cfg.OutputPath("kpi.csv"))
}
