package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Core    CoreConfig   `toml:"core"`
	Prompts PromptConfig `toml:"prompts"`
}

type CoreConfig struct {
	Separator string `toml:"separator"`
	Null      bool   `toml:"null"`
	Fit       bool   `toml:"fit"`
	LogLevel  string `toml:"log_level"`
}

type PromptConfig struct {
	// Templates are expanded when no templates are given on the command
	// line, so the whole invocation can live in the config file.
	Templates []string `toml:"templates"`
}

func NewDefaultConfig() *Config {
	return &Config{
		Core: CoreConfig{
			Separator: "\n",
			Null:      false,
			Fit:       false,
			LogLevel:  "info",
		},
		Prompts: PromptConfig{
			Templates: []string{},
		},
	}
}

func LoadConfigFromFile(path string) (*Config, error) {
	config := NewDefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil // no config file, return defaults
	}

	if _, err := toml.DecodeFile(path, config); err != nil {
		return nil, fmt.Errorf("failed to decode TOML config: %w", err)
	}

	return config, nil
}
