// Package config provides centralized configuration management for the
// motorlab system. It handles loading configuration from multiple sources,
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
// All environment variables follow the pattern MOTORLAB_* for namespacing,
// with one segment per configuration section:
//
//	MOTORLAB_PATHS_CARICHI_DIR=/mnt/archive/carichi
//	MOTORLAB_LOGGING_LEVEL=debug
//	MOTORLAB_SEARCH_DERIVE_ALIAS_FALLBACK=true
//	MOTORLAB_TELEMETRY_METRIC_EXPORTER=prometheus
//
// MOTORLAB_CONFIG names an explicit config file and beats the default
// search locations (config.yaml, configs/config.yaml).
//
// # Sections
//
// Paths locates the workbook archive and the scratch space for legacy
// conversions. Search tunes identifier-to-filename matching. Extract bounds
// the sheet scans of the summary extractors. Logging and Telemetry configure
// the ambient stack.
//
// # Validation
//
// All configuration is validated at load time: enumerated fields must hold
// one of their allowed values and scan bounds must stay positive. The
// archive root is deliberately not checked for existence here, since network
// shares come and go; availability is probed where the archive is used.
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
