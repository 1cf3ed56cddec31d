package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete pipeline configuration
type Config struct {
	Markets []string      `yaml:"markets" envconfig:"MARKETS" validate:"required,min=1,dive,required"`
	MinYear int           `yaml:"min_year" envconfig:"MINYEAR" default:"2017" validate:"required,min=1900"`
	MaxYear int           `yaml:"max_year" envconfig:"MAXYEAR" default:"2021" validate:"required,gtefield=MinYear"`
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Scoring ScoringConfig `yaml:"scoring" envconfig:"SCORING"`
	KPI     KPIConfig     `yaml:"kpi" envconfig:"KPI"`
}

// PathsConfig contains input and output file locations
type PathsConfig struct {
	RawCharts    string `yaml:"raw_charts" envconfig:"RAWCHARTS" default:"data/raw/charts.csv" validate:"required"`
	RawDatabase  string `yaml:"raw_database" envconfig:"RAWDATABASE" default:"data/raw/final_database.csv" validate:"required"`
	RawAudio     string `yaml:"raw_audio" envconfig:"RAWAUDIO" default:"data/raw/dataset.csv"`
	GenreMapping string `yaml:"genre_mapping" envconfig:"GENREMAPPING" default:"data/raw/genre_mapping.json"`
	OutputDir    string `yaml:"output_folder" envconfig:"OUTPUTDIR" default:"data/processed" validate:"required"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILEPATH" default:"logs/pipeline.log"`
}

// ScoringConfig contains the success-score weights and the cutoff used for
// success-rate aggregation. Weights are not renormalized when a sub-metric
// is absent from the input schema; a record missing sub-terms receives a
// deflated score. That behavior is part of the published score semantics.
type ScoringConfig struct {
	RankWeight         float64 `yaml:"rank_weight" envconfig:"RANKWEIGHT" default:"0.25" validate:"min=0,max=1"`
	StreamsWeight      float64 `yaml:"streams_weight" envconfig:"STREAMSWEIGHT" default:"0.15" validate:"min=0,max=1"`
	DanceabilityWeight float64 `yaml:"danceability_weight" envconfig:"DANCEABILITYWEIGHT" default:"0.15" validate:"min=0,max=1"`
	EnergyWeight       float64 `yaml:"energy_weight" envconfig:"ENERGYWEIGHT" default:"0.15" validate:"min=0,max=1"`
	FollowersWeight    float64 `yaml:"followers_weight" envconfig:"FOLLOWERSWEIGHT" default:"0.20" validate:"min=0,max=1"`
	Top10Weight        float64 `yaml:"top10_weight" envconfig:"TOP10WEIGHT" default:"0.10" validate:"min=0,max=1"`
	SuccessCutoff      float64 `yaml:"success_cutoff" envconfig:"SUCCESSCUTOFF" default:"65" validate:"min=0,max=100"`
}

// KPIConfig contains aggregation parameters
type KPIConfig struct {
	GrowthCapPercent float64 `yaml:"growth_cap_percent" envconfig:"GROWTHCAP" default:"200" validate:"gt=0"`
	StreamFloor      float64 `yaml:"stream_floor" envconfig:"STREAMFLOOR" default:"1000" validate:"min=0"`
	RecentYears      int     `yaml:"recent_years" envconfig:"RECENTYEARS" default:"2" validate:"min=1"`
}

// Default returns the configuration the original analysis shipped with.
func Default() *Config {
	cfg := &Config{
		Markets: []string{"Germany", "United Kingdom", "Brazil"},
		MinYear: 2017,
		MaxYear: 2021,
		Paths: PathsConfig{
			RawCharts:    "data/raw/charts.csv",
			RawDatabase:  "data/raw/final_database.csv",
			RawAudio:     "data/raw/dataset.csv",
			GenreMapping: "data/raw/genre_mapping.json",
			OutputDir:    "data/processed",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/pipeline.log",
		},
		Scoring: ScoringConfig{
			RankWeight:         0.25,
			StreamsWeight:      0.15,
			DanceabilityWeight: 0.15,
			EnergyWeight:       0.15,
			FollowersWeight:    0.20,
			Top10Weight:        0.10,
			SuccessCutoff:      65,
		},
		KPI: KPIConfig{
			GrowthCapPercent: 200,
			StreamFloor:      1000,
			RecentYears:      2,
		},
	}
	return cfg
}

// Load loads configuration from the given YAML file (optional) and
// environment variables, then validates the result. Environment variables
// take precedence over file values, which take precedence over defaults.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Environment variables override file values
	if err := envconfig.Process("CHARTS", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile merges configuration from a YAML file into cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(filePath), err)
	}

	return nil
}

// Validate checks structural constraints on the configuration
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}

	sum := c.Scoring.RankWeight + c.Scoring.StreamsWeight + c.Scoring.DanceabilityWeight +
		c.Scoring.EnergyWeight + c.Scoring.FollowersWeight + c.Scoring.Top10Weight
	if sum < 0.99 || sum > 1.01 {
		return fmt.Errorf("scoring weights must sum to 1.0, got %.3f", sum)
	}

	return nil
}

// EnsureOutputDir creates the output directory if it does not exist
func (c *Config) EnsureOutputDir() error {
	if err := os.MkdirAll(c.Paths.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// OutputPath resolves a file name inside the configured output directory
func (c *Config) OutputPath(name string) string {
	return filepath.Join(c.Paths.OutputDir, name)
}
