// Package config provides centralized configuration management for the
// chart pipeline. It handles loading configuration from multiple sources,
// validation, and provides a type-safe API for accessing configuration
// values throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration file (YAML)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern CHARTS_* for namespacing:
//
//	CHARTS_MINYEAR=2017
//	CHARTS_MAXYEAR=2021
//	CHARTS_PATHS_OUTPUTDIR=data/processed
//	CHARTS_LOGGING_LEVEL=info
//
// Every analysis constant of the pipeline (markets, year window, scoring
// weights, success cutoff, growth cap, stream floor) lives here and is
// threaded explicitly into the components that use it; no package reads
// configuration from globals.
package config
