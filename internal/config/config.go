// Package config loads the pipeline configuration from environment
// variables (prefix B3) merged with an optional YAML file. Environment
// values take precedence over file values, struct tag defaults fill the
// rest.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
	Regions RegionsConfig `yaml:"regions" envconfig:"REGIONS"`
	Upload  UploadConfig  `yaml:"upload" envconfig:"UPLOAD"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/b3data.log"`
}

// PathsConfig contains the file system layout of a pipeline run
type PathsConfig struct {
	DataDir     string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	ResultsDir  string `yaml:"results_dir" envconfig:"RESULTS_DIR" default:"data/results"`
	MetadataDir string `yaml:"metadata_dir" envconfig:"METADATA_DIR" default:"data/metadata"`
	LogsDir     string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// RegionsConfig selects the region extraction strategy: the two codes
// matched as substrings of a series name when the region column is
// absent.
type RegionsConfig struct {
	CodeA string `yaml:"code_a" envconfig:"CODE_A" default:"BE"`
	CodeB string `yaml:"code_b" envconfig:"CODE_B" default:"BB"`
}

// UploadConfig configures the OpenEnergyPlatform upload boundary
type UploadConfig struct {
	BaseURL     string        `yaml:"base_url" envconfig:"BASE_URL" default:"https://openenergyplatform.org"`
	Schema      string        `yaml:"schema" envconfig:"SCHEMA" default:"model_draft"`
	Token       string        `yaml:"token" envconfig:"TOKEN"`
	RPS         float64       `yaml:"rps" envconfig:"RPS" default:"5"`
	Burst       int           `yaml:"burst" envconfig:"BURST" default:"5"`
	Timeout     time.Duration `yaml:"timeout" envconfig:"TIMEOUT" default:"30s"`
	Concurrency int           `yaml:"concurrency" envconfig:"CONCURRENCY" default:"2"`
	BatchSize   int           `yaml:"batch_size" envconfig:"BATCH_SIZE" default:"500"`
}

// Load loads configuration from environment variables and, if path is
// non-empty and the file exists, from a YAML config file.
func Load(path string) (*Config, error) {
	var cfg Config

	// Environment variables and defaults first
	if err := envconfig.Process("B3", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			fileConfig, err := loadFromFile(path)
			if err != nil {
				return nil, fmt.Errorf("failed to load config from file: %w", err)
			}
			cfg = mergeConfigs(*fileConfig, cfg)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// mergeConfigs merges file config into env config; file values only
// fill fields the environment left at their default or empty.
func mergeConfigs(fileConfig, envConfig Config) Config {
	merged := envConfig

	if fileConfig.Logging.Level != "" && os.Getenv("B3_LOGGING_LEVEL") == "" {
		merged.Logging.Level = fileConfig.Logging.Level
	}
	if fileConfig.Logging.Format != "" && os.Getenv("B3_LOGGING_FORMAT") == "" {
		merged.Logging.Format = fileConfig.Logging.Format
	}
	if fileConfig.Logging.Output != "" && os.Getenv("B3_LOGGING_OUTPUT") == "" {
		merged.Logging.Output = fileConfig.Logging.Output
	}
	if fileConfig.Logging.FilePath != "" && os.Getenv("B3_LOGGING_FILE_PATH") == "" {
		merged.Logging.FilePath = fileConfig.Logging.FilePath
	}
	if fileConfig.Paths.DataDir != "" && os.Getenv("B3_PATHS_DATA_DIR") == "" {
		merged.Paths.DataDir = fileConfig.Paths.DataDir
	}
	if fileConfig.Paths.ResultsDir != "" && os.Getenv("B3_PATHS_RESULTS_DIR") == "" {
		merged.Paths.ResultsDir = fileConfig.Paths.ResultsDir
	}
	if fileConfig.Paths.MetadataDir != "" && os.Getenv("B3_PATHS_METADATA_DIR") == "" {
		merged.Paths.MetadataDir = fileConfig.Paths.MetadataDir
	}
	if fileConfig.Paths.LogsDir != "" && os.Getenv("B3_PATHS_LOGS_DIR") == "" {
		merged.Paths.LogsDir = fileConfig.Paths.LogsDir
	}
	if fileConfig.Regions.CodeA != "" && os.Getenv("B3_REGIONS_CODE_A") == "" {
		merged.Regions.CodeA = fileConfig.Regions.CodeA
	}
	if fileConfig.Regions.CodeB != "" && os.Getenv("B3_REGIONS_CODE_B") == "" {
		merged.Regions.CodeB = fileConfig.Regions.CodeB
	}
	if fileConfig.Upload.BaseURL != "" && os.Getenv("B3_UPLOAD_BASE_URL") == "" {
		merged.Upload.BaseURL = fileConfig.Upload.BaseURL
	}
	if fileConfig.Upload.Schema != "" && os.Getenv("B3_UPLOAD_SCHEMA") == "" {
		merged.Upload.Schema = fileConfig.Upload.Schema
	}
	if fileConfig.Upload.Token != "" && os.Getenv("B3_UPLOAD_TOKEN") == "" {
		merged.Upload.Token = fileConfig.Upload.Token
	}
	if fileConfig.Upload.RPS != 0 && os.Getenv("B3_UPLOAD_RPS") == "" {
		merged.Upload.RPS = fileConfig.Upload.RPS
	}
	if fileConfig.Upload.Burst != 0 && os.Getenv("B3_UPLOAD_BURST") == "" {
		merged.Upload.Burst = fileConfig.Upload.Burst
	}
	if fileConfig.Upload.Timeout != 0 && os.Getenv("B3_UPLOAD_TIMEOUT") == "" {
		merged.Upload.Timeout = fileConfig.Upload.Timeout
	}
	if fileConfig.Upload.Concurrency != 0 && os.Getenv("B3_UPLOAD_CONCURRENCY") == "" {
		merged.Upload.Concurrency = fileConfig.Upload.Concurrency
	}
	if fileConfig.Upload.BatchSize != 0 && os.Getenv("B3_UPLOAD_BATCH_SIZE") == "" {
		merged.Upload.BatchSize = fileConfig.Upload.BatchSize
	}

	return merged
}

// validate validates the configuration
func (c *Config) validate() error {
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid logging format: %s", c.Logging.Format)
	}

	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		return fmt.Errorf("invalid logging output: %s", c.Logging.Output)
	}

	if c.Upload.RPS <= 0 {
		return fmt.Errorf("upload rate limit must be positive")
	}
	if c.Upload.Burst <= 0 {
		return fmt.Errorf("upload burst must be positive")
	}
	if c.Upload.Timeout <= 0 {
		return fmt.Errorf("upload timeout must be positive")
	}
	if c.Upload.Concurrency <= 0 {
		return fmt.Errorf("upload concurrency must be positive")
	}
	if c.Upload.BatchSize <= 0 {
		return fmt.Errorf("upload batch size must be positive")
	}
	if c.Regions.CodeA == "" || c.Regions.CodeB == "" {
		return fmt.Errorf("both region codes must be set")
	}
	return nil
}
