// Package config loads interpreter settings from a YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config models the mal.yaml contents.
type Config struct {
	Prompt             string   `yaml:"prompt"`
	ContinuationPrompt string   `yaml:"continuation_prompt"`
	HistoryFile        string   `yaml:"history_file"`
	Prelude            []string `yaml:"prelude"`
	Color              bool     `yaml:"color"`
	Verbose            bool     `yaml:"verbose"`
}

const (
	DefaultPrompt             = "user> "
	DefaultContinuationPrompt = "... "
	DefaultHistoryFile        = ".mal_history"
)

func Default() *Config {
	return &Config{
		Prompt:             DefaultPrompt,
		ContinuationPrompt: DefaultContinuationPrompt,
		HistoryFile:        DefaultHistoryFile,
		Color:              true,
	}
}

// Load reads the config at path over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", abs, err)
	}

	cfg.normalize(filepath.Dir(abs))
	return cfg, nil
}

// normalize fills blank fields and resolves prelude paths relative to the
// directory holding the config file.
func (c *Config) normalize(dir string) {
	if strings.TrimSpace(c.Prompt) == "" {
		c.Prompt = DefaultPrompt
	}
	if strings.TrimSpace(c.ContinuationPrompt) == "" {
		c.ContinuationPrompt = DefaultContinuationPrompt
	}
	if strings.TrimSpace(c.HistoryFile) == "" {
		c.HistoryFile = DefaultHistoryFile
	}
	for i, p := range c.Prelude {
		if !filepath.IsAbs(p) {
			c.Prelude[i] = filepath.Join(dir, p)
		}
	}
}

// HistoryPath places a relative history file under the user's home
// directory.
func (c *Config) HistoryPath() string {
	if filepath.IsAbs(c.HistoryFile) {
		return c.HistoryFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return c.HistoryFile
	}
	return filepath.Join(home, c.HistoryFile)
}
