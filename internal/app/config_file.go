package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema. Nested sections
// map naturally to the flag namespace.
type FileConfig struct {
	Base      string `yaml:"base" json:"base"`
	UserAgent string `yaml:"userAgent" json:"userAgent"`

	Candidates struct {
		File string `yaml:"file" json:"file"`
	} `yaml:"candidates" json:"candidates"`

	// Durations are strings in time.ParseDuration form ("5s", "500ms").
	Network struct {
		Timeout     string `yaml:"timeout" json:"timeout"`
		Delay       string `yaml:"delay" json:"delay"`
		MaxAttempts int    `yaml:"maxAttempts" json:"maxAttempts"`
	} `yaml:"network" json:"network"`

	Match struct {
		MaxResults int     `yaml:"maxResults" json:"maxResults"`
		Floor      float64 `yaml:"floor" json:"floor"`
		Margin     float64 `yaml:"margin" json:"margin"`
	} `yaml:"match" json:"match"`

	Format    string `yaml:"format" json:"format"`
	Output    string `yaml:"output" json:"output"`
	OutputPDF string `yaml:"outputPDF" json:"outputPDF"`

	NonInteractive bool `yaml:"nonInteractive" json:"nonInteractive"`
	Verbose        bool `yaml:"verbose" json:"verbose"`

	Batch struct {
		File   string `yaml:"file" json:"file"`
		Sheet  string `yaml:"sheet" json:"sheet"`
		Column string `yaml:"column" json:"column"`
	} `yaml:"batch" json:"batch"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for any fields
// still at their defaults. Flags should already have been parsed; this lets
// file config supply defaults while preserving explicit flags.
func ApplyFileConfig(cfg *Config, fc FileConfig) error {
	if cfg == nil {
		return nil
	}
	if cfg.BaseURL == "" && fc.Base != "" {
		cfg.BaseURL = fc.Base
	}
	if cfg.UserAgent == "" && fc.UserAgent != "" {
		cfg.UserAgent = fc.UserAgent
	}
	if cfg.CandidateFile == "" && fc.Candidates.File != "" {
		cfg.CandidateFile = fc.Candidates.File
	}

	if (cfg.Timeout == 0 || cfg.Timeout == DefaultTimeout) && fc.Network.Timeout != "" {
		d, err := time.ParseDuration(fc.Network.Timeout)
		if err != nil {
			return fmt.Errorf("config: invalid network.timeout %q: %w", fc.Network.Timeout, err)
		}
		cfg.Timeout = d
	}
	if (cfg.Delay == 0 || cfg.Delay == DefaultDelay) && fc.Network.Delay != "" {
		d, err := time.ParseDuration(fc.Network.Delay)
		if err != nil {
			return fmt.Errorf("config: invalid network.delay %q: %w", fc.Network.Delay, err)
		}
		cfg.Delay = d
	}
	if (cfg.MaxAttempts == 0 || cfg.MaxAttempts == DefaultMaxAttempts) && fc.Network.MaxAttempts > 0 {
		cfg.MaxAttempts = fc.Network.MaxAttempts
	}

	if (cfg.MaxResults == 0 || cfg.MaxResults == DefaultMaxResults) && fc.Match.MaxResults > 0 {
		cfg.MaxResults = fc.Match.MaxResults
	}
	if (cfg.MinConfidence == 0 || cfg.MinConfidence == DefaultMinConfidence) && fc.Match.Floor > 0 {
		cfg.MinConfidence = fc.Match.Floor
	}
	if (cfg.AmbiguityMargin == 0 || cfg.AmbiguityMargin == DefaultAmbiguityMargin) && fc.Match.Margin > 0 {
		cfg.AmbiguityMargin = fc.Match.Margin
	}

	if (cfg.Format == "" || cfg.Format == DefaultFormat) && fc.Format != "" {
		cfg.Format = fc.Format
	}
	if cfg.OutputPath == "" && fc.Output != "" {
		cfg.OutputPath = fc.Output
	}
	if cfg.OutputPDFPath == "" && fc.OutputPDF != "" {
		cfg.OutputPDFPath = fc.OutputPDF
	}

	if !cfg.NonInteractive && fc.NonInteractive {
		cfg.NonInteractive = true
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}

	if cfg.BatchPath == "" && fc.Batch.File != "" {
		cfg.BatchPath = fc.Batch.File
	}
	if cfg.BatchSheet == "" && fc.Batch.Sheet != "" {
		cfg.BatchSheet = fc.Batch.Sheet
	}
	if cfg.BatchColumn == "" && fc.Batch.Column != "" {
		cfg.BatchColumn = fc.Batch.Column
	}
	return nil
}

// ValidateConfig performs minimal schema validation for required settings.
func ValidateConfig(cfg Config) error {
	if cfg.MinConfidence < 0 || cfg.MinConfidence > 1 {
		return errors.New("config: match floor must be within [0,1]")
	}
	if cfg.AmbiguityMargin < 0 || cfg.AmbiguityMargin > 1 {
		return errors.New("config: match margin must be within [0,1]")
	}
	if cfg.Timeout < 0 || cfg.Delay < 0 {
		return errors.New("config: negative durations are not allowed")
	}
	if cfg.MaxResults < 0 || cfg.MaxAttempts < 0 {
		return errors.New("config: negative limits are not allowed")
	}
	return nil
}
