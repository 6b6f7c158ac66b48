package app

import (
	"os"
	"strconv"
	"time"
)

// ApplyEnvToConfig populates unset fields of cfg from environment variables.
// Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = os.Getenv("DIFFORDS_BASE_URL")
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = os.Getenv("DIFFORDS_USER_AGENT")
	}
	if cfg.CandidateFile == "" {
		cfg.CandidateFile = os.Getenv("DIFFORDS_CANDIDATES_FILE")
	}
	if cfg.Format == "" || cfg.Format == DefaultFormat {
		if v := os.Getenv("DIFFORDS_FORMAT"); v != "" {
			cfg.Format = v
		}
	}
	if cfg.Timeout == 0 || cfg.Timeout == DefaultTimeout {
		if v := os.Getenv("DIFFORDS_TIMEOUT"); v != "" {
			if d, err := time.ParseDuration(v); err == nil && d > 0 {
				cfg.Timeout = d
			} else if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
				cfg.Timeout = time.Duration(secs) * time.Second
			}
		}
	}
	if cfg.Delay == 0 || cfg.Delay == DefaultDelay {
		if v := os.Getenv("DIFFORDS_DELAY"); v != "" {
			if d, err := time.ParseDuration(v); err == nil && d > 0 {
				cfg.Delay = d
			}
		}
	}
	if cfg.MinConfidence == 0 || cfg.MinConfidence == DefaultMinConfidence {
		if v := os.Getenv("DIFFORDS_MATCH_FLOOR"); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
				cfg.MinConfidence = f
			}
		}
	}
	if !cfg.Verbose {
		if v := os.Getenv("DIFFORDS_VERBOSE"); v == "1" || v == "true" {
			cfg.Verbose = true
		}
	}
	if !cfg.NonInteractive {
		if v := os.Getenv("DIFFORDS_NON_INTERACTIVE"); v == "1" || v == "true" {
			cfg.NonInteractive = true
		}
	}
}
