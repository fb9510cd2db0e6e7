package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// Profile holds the subset of settings the command line client can read from
// a file. Zero values leave the environment configuration untouched, except
// Retries, where an explicit 0 turns retries off.
type Profile struct {
	APIBaseURL        string `json:"api_base_url" yaml:"api_base_url" toml:"api_base_url"`
	Timeout           string `json:"timeout" yaml:"timeout" toml:"timeout"`
	Retries           *int   `json:"retries" yaml:"retries" toml:"retries"`
	EnrichConcurrency int    `json:"enrich_concurrency" yaml:"enrich_concurrency" toml:"enrich_concurrency"`
	LogLevel          string `json:"log_level" yaml:"log_level" toml:"log_level"`
}

// LoadProfile reads a TOML, YAML or JSON profile, chosen by file extension.
func LoadProfile(filePath string) (*Profile, error) {
	fileExtension := strings.ToLower(filepath.Ext(filePath))

	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error accessing profile file: %w", err)
	}
	if fileInfo.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", filePath)
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading profile file: %w", err)
	}

	var profile Profile

	switch fileExtension {
	case ".toml":
		if err := toml.Unmarshal(fileData, &profile); err != nil {
			return nil, fmt.Errorf("error parsing TOML file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(fileData, &profile); err != nil {
			return nil, fmt.Errorf("error parsing YAML file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(fileData, &profile); err != nil {
			return nil, fmt.Errorf("error parsing JSON file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported profile file format: %s", fileExtension)
	}

	return &profile, nil
}

// ApplyProfile overlays the non-zero profile values onto c.
func (c *Config) ApplyProfile(p *Profile) error {
	if p == nil {
		return nil
	}
	if p.APIBaseURL != "" {
		c.APIBaseURL = p.APIBaseURL
	}
	if p.Timeout != "" {
		d, err := time.ParseDuration(p.Timeout)
		if err != nil {
			return fmt.Errorf("invalid profile timeout '%s': %w", p.Timeout, err)
		}
		c.APITimeout = d
	}
	if p.Retries != nil {
		c.APIRetries = *p.Retries
	}
	if p.EnrichConcurrency > 0 {
		c.EnrichConcurrency = p.EnrichConcurrency
	}
	if p.LogLevel != "" {
		c.LogLevel = p.LogLevel
	}
	return nil
}
