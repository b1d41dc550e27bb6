package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"icucli/pkg/contracts/domain"
)

// Config represents the complete application configuration.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Tracing  TracingConfig  `yaml:"tracing" envconfig:"TRACING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
	Lab      LabConfig      `yaml:"lab" envconfig:"LAB"`
	Export   ExportConfig   `yaml:"export" envconfig:"EXPORT"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// TracingConfig toggles OpenTelemetry stdout tracing.
type TracingConfig struct {
	Enabled bool `yaml:"enabled" envconfig:"ENABLED"`
}

// PathsConfig contains file system paths configuration.
type PathsConfig struct {
	InputDir  string `yaml:"input_dir" envconfig:"INPUT_DIR"`
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR"`
}

// PipelineConfig controls the long-to-wide transform.
type PipelineConfig struct {
	// DuplicatePolicy decides how a second value for a scalar
	// parameter at one timestamp is handled. Strict is the default:
	// clinically it is safer to stop than to guess.
	DuplicatePolicy string   `yaml:"duplicate_policy" envconfig:"DUPLICATE_POLICY" validate:"oneof=strict lenient"`
	ListSeparator   string   `yaml:"list_separator" envconfig:"LIST_SEPARATOR"`
	TimeColumn      string   `yaml:"time_column" envconfig:"TIME_COLUMN"`
	ParameterColumn string   `yaml:"parameter_column" envconfig:"PARAMETER_COLUMN"`
	ValueColumn     string   `yaml:"value_column" envconfig:"VALUE_COLUMN"`
	TimeLayouts     []string `yaml:"time_layouts" envconfig:"TIME_LAYOUTS"`
	Workers         int      `yaml:"workers" envconfig:"WORKERS" validate:"min=1,max=64"`
}

// LabConfig describes the optional laboratory blood-gas source.
type LabConfig struct {
	FilePattern string   `yaml:"file_pattern" envconfig:"FILE_PATTERN"`
	TimeColumn  string   `yaml:"time_column" envconfig:"TIME_COLUMN"`
	Identifying []string `yaml:"identifying" envconfig:"IDENTIFYING"`
}

// ExportConfig controls workbook assembly.
type ExportConfig struct {
	// CSVMirror additionally writes each sheet as a CSV next to the workbook.
	CSVMirror bool `yaml:"csv_mirror" envconfig:"CSV_MIRROR"`
	// UnitScale multiplies numeric cells of the named column on the way
	// out. This is the whole extent of unit harmonization: an explicit
	// operator-supplied mapping, nothing inferred.
	UnitScale map[string]float64 `yaml:"unit_scale" envconfig:"UNIT_SCALE"`
}

// defaultConfig is the baseline every load starts from. Defaults live
// here rather than in envconfig tags: a tag default is re-applied on
// every Process call whenever the env var is unset, which would clobber
// values already read from the YAML file.
func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "stdout",
			FilePath: "logs/icucli.log",
		},
		Paths: PathsConfig{
			InputDir:  "data/exports",
			OutputDir: "data/workbooks",
		},
		Pipeline: PipelineConfig{
			DuplicatePolicy: "strict",
			ListSeparator:   ",",
			TimeColumn:      "Time",
			ParameterColumn: "Parameter Name",
			ValueColumn:     "Value",
			Workers:         4,
		},
		Lab: LabConfig{
			FilePattern: "*lab*",
			TimeColumn:  "Sample Time",
			Identifying: []string{"Patient ID", "Patient Name"},
		},
	}
}

// Load loads configuration in precedence order: built-in defaults,
// then an optional YAML file over them, then environment variables
// (prefix ICU) over everything.
func Load(configFile string) (*Config, error) {
	cfg := defaultConfig()

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			data, err := os.ReadFile(configFile)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	if err := envconfig.Process("ICU", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration with struct tag rules.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// Schema returns the long-format schema configured for monitor exports.
func (c *Config) Schema() domain.Schema {
	return domain.Schema{
		Time:      c.Pipeline.TimeColumn,
		Parameter: c.Pipeline.ParameterColumn,
		Value:     c.Pipeline.ValueColumn,
	}
}

// Policy returns the configured duplicate-scalar policy.
func (c *Config) Policy() domain.DuplicatePolicy {
	return domain.DuplicatePolicy(c.Pipeline.DuplicatePolicy)
}

// RunTimestamp is the format stamped into workbook info sheets.
const RunTimestamp = time.RFC3339
