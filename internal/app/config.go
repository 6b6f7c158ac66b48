package app

import "time"

// Defaults for tunable policy values. The ambiguity margin and confidence
// floor are policy constants, not hard requirements, and every one of these
// can be overridden by flag, config file or environment.
const (
	DefaultTimeout         = 10 * time.Second
	DefaultDelay           = 1 * time.Second
	DefaultMaxAttempts     = 3
	DefaultMaxResults      = 10
	DefaultMinConfidence   = 0.8
	DefaultAmbiguityMargin = 0.02
	DefaultFormat          = "structured"
)

// Config holds runtime configuration for the application. It is passed
// explicitly into New so the core stays independently testable; nothing in
// internal/ reads ambient process state.
type Config struct {
	// Source
	BaseURL       string // Difford's Guide site root
	CandidateFile string // optional offline candidate listing (JSON)
	UserAgent     string

	// Network
	Timeout     time.Duration
	Delay       time.Duration // polite spacing between requests
	MaxAttempts int

	// Matching
	MaxResults      int
	MinConfidence   float64 // confidence floor below which the top hit is no match
	AmbiguityMargin float64 // near-tie window that triggers disambiguation

	// Output
	Format        string
	OutputPath    string // write rendered text here instead of stdout
	OutputPDFPath string // optional PDF recipe card

	// Behavior
	NonInteractive bool
	Verbose        bool

	// Batch input
	BatchPath   string
	BatchSheet  string
	BatchColumn string
}
