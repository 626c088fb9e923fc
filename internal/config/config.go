package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
	Search    SearchConfig    `yaml:"search" envconfig:"SEARCH"`
	Extract   ExtractConfig   `yaml:"extract" envconfig:"EXTRACT"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	// CarichiDir is the root of the historical workbook archive, holding the
	// per-year subfolders. Empty means the archive is not configured; lookups
	// then report every identifier as missing instead of failing.
	CarichiDir string `yaml:"carichi_dir" envconfig:"CARICHI_DIR"`
	// TempDir hosts the short-lived .xlsx files produced when legacy .xls
	// workbooks are converted before reading. Defaults to the OS temp dir.
	TempDir string `yaml:"temp_dir" envconfig:"TEMP_DIR"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// TelemetryConfig contains tracing and metrics configuration
type TelemetryConfig struct {
	ServiceName    string  `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	Environment    string  `yaml:"environment" envconfig:"ENVIRONMENT" validate:"oneof=development staging production"`
	TraceExporter  string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=stdout none"`
	MetricExporter string  `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER" validate:"oneof=prometheus none"`
	SampleRatio    float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"min=0,max=1"`
}

// SearchConfig tunes how test identifiers are matched against workbook
// file names in the archive.
type SearchConfig struct {
	// AliasMismatchPenalty is added to a prefix candidate's rank when its
	// trailing-A form disagrees with the requested identifier. Keep it large
	// so alias affinity dominates length closeness.
	AliasMismatchPenalty int `yaml:"alias_mismatch_penalty" envconfig:"ALIAS_MISMATCH_PENALTY" validate:"min=1"`
	// LengthPenaltyPerChar is added per character of stem length difference.
	LengthPenaltyPerChar int `yaml:"length_penalty_per_char" envconfig:"LENGTH_PENALTY_PER_CHAR" validate:"min=0"`
	// DeriveAliasFallback widens a miss into a second pass over the derived
	// base/alias counterpart of the identifier. The archive's naming is
	// strict, so this stays off unless a site opts in.
	DeriveAliasFallback bool `yaml:"derive_alias_fallback" envconfig:"DERIVE_ALIAS_FALLBACK"`
}

// ExtractConfig bounds the sheet scans performed by the summary extractors.
type ExtractConfig struct {
	HeaderScanRows       int `yaml:"header_scan_rows" envconfig:"HEADER_SCAN_ROWS" validate:"min=1"`
	HeaderScanCols       int `yaml:"header_scan_cols" envconfig:"HEADER_SCAN_COLS" validate:"min=1"`
	LabelScanCols        int `yaml:"label_scan_cols" envconfig:"LABEL_SCAN_COLS" validate:"min=1"`
	GapFillWindow        int `yaml:"gap_fill_window" envconfig:"GAP_FILL_WINDOW" validate:"min=0"`
	NotesRows            int `yaml:"notes_rows" envconfig:"NOTES_ROWS" validate:"min=0"`
	CollaudoScanRows     int `yaml:"collaudo_scan_rows" envconfig:"COLLAUDO_SCAN_ROWS" validate:"min=1"`
	CollaudoLookbackRows int `yaml:"collaudo_lookback_rows" envconfig:"COLLAUDO_LOOKBACK_ROWS" validate:"min=0"`
}

// Load builds the configuration from defaults, an optional YAML file and
// MOTORLAB_* environment variables, in that order of precedence.
func Load() (*Config, error) {
	cfg := Default()

	// Overlay the config file if one exists
	if configFile := getConfigFilePath(); configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Environment variables win over file values
	if err := envconfig.Process("MOTORLAB", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Resolve relative paths
	if err := cfg.resolvePaths(); err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays configuration from a YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// resolvePaths normalizes the configured paths so the rest of the system
// never has to care about the working directory.
func (c *Config) resolvePaths() error {
	if c.Paths.TempDir == "" {
		c.Paths.TempDir = os.TempDir()
	}
	if c.Paths.CarichiDir != "" {
		abs, err := filepath.Abs(c.Paths.CarichiDir)
		if err != nil {
			return fmt.Errorf("failed to resolve carichi dir: %w", err)
		}
		c.Paths.CarichiDir = abs
	}
	return nil
}

// validate validates the configuration
func (c *Config) validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			first := verrs[0]
			return fmt.Errorf("%s failed %q validation", first.Namespace(), first.Tag())
		}
		return err
	}

	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		return fmt.Errorf("logging file path is required when output is %q", c.Logging.Output)
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	// An explicit path beats the search locations
	if path := os.Getenv("MOTORLAB_CONFIG"); path != "" {
		return path
	}

	// Check for config file in common locations
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			TempDir: os.TempDir(),
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/motorlab.log",
		},
		Telemetry: TelemetryConfig{
			ServiceName:    "motorlab",
			Environment:    "development",
			TraceExporter:  "none",
			MetricExporter: "none",
			SampleRatio:    1.0,
		},
		Search: SearchConfig{
			AliasMismatchPenalty: 1000,
			LengthPenaltyPerChar: 1,
			DeriveAliasFallback:  false,
		},
		Extract: ExtractConfig{
			HeaderScanRows:       200,
			HeaderScanCols:       50,
			LabelScanCols:        80,
			GapFillWindow:        5,
			NotesRows:            10,
			CollaudoScanRows:     200,
			CollaudoLookbackRows: 10,
		},
	}
}
