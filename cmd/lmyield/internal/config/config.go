// Package config provides the configuration of the lmyield CLI.
//
// Configuration is stored under os.UserConfigDir()/lmyield/, or under
// $LMYIELD_CONFIG_DIR when set:
//
//	lmyield/
//	├── config.yaml              # optional defaults
//	└── models/                  # model configs loaded by modelloader
//	    ├── openai.yaml
//	    └── gemini.yaml
//
// config.yaml:
//
//	model: openai/gpt-4o-mini
//	max_attempts: 8
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

const (
	// appDir is the directory name under os.UserConfigDir().
	appDir = "lmyield"

	// EnvConfigDir overrides the configuration directory.
	EnvConfigDir = "LMYIELD_CONFIG_DIR"

	configFile = "config.yaml"
	modelsDir  = "models"
)

// Config holds the root configuration state.
type Config struct {
	// Dir is the root configuration directory.
	Dir string `yaml:"-"`

	// Model is the default model name for run.
	Model string `yaml:"model,omitempty"`

	// MaxAttempts is the default attempt bound for run.
	MaxAttempts int `yaml:"max_attempts,omitempty"`

	// ModelsDir overrides <Dir>/models.
	ModelsDir string `yaml:"models_dir,omitempty"`
}

// Load loads the configuration from the default location.
func Load() (*Config, error) {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return LoadFrom(dir)
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("cannot determine config directory: %w", err)
	}
	return LoadFrom(filepath.Join(base, appDir))
}

// LoadFrom loads the configuration from a specific root directory. A missing
// config.yaml is not an error.
func LoadFrom(dir string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(filepath.Join(dir, configFile))
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", configFile, err)
		}
	}
	cfg.Dir = dir
	return cfg, nil
}

// ModelsPath returns the model config directory.
func (c *Config) ModelsPath() string {
	if c.ModelsDir != "" {
		return c.ModelsDir
	}
	return filepath.Join(c.Dir, modelsDir)
}
