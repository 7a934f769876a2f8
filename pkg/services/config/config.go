package config

import (
	"fmt"

	"github.com/de-tools/pillar-atlas/pkg/services/analysis"
	"github.com/spf13/viper"
)

type StoreConfig struct {
	// Path of the DuckDB file; empty keeps analyses in memory
	Path string `mapstructure:"path"`
	// DataDir holds the local datasets the web API may read; empty allows only uploads and s3:// sources
	DataDir string `mapstructure:"data_dir"`
}

type S3Config struct {
	Region string `mapstructure:"region"`
	// Endpoint overrides the S3 endpoint, e.g. for MinIO
	Endpoint string `mapstructure:"endpoint"`
}

type Config struct {
	Analysis analysis.Settings `mapstructure:"analysis"`
	Store    StoreConfig       `mapstructure:"store"`
	S3       S3Config          `mapstructure:"s3"`
}

func DefaultConfig() *Config {
	return &Config{
		Analysis: analysis.DefaultSettings(),
		Store:    StoreConfig{Path: "pillar.duckdb", DataDir: "data"},
		S3:       S3Config{Region: "us-east-1"},
	}
}

// LoadConfig reads a policy file on top of the defaults. Keys missing from the file keep their
// default value; an empty path returns the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
