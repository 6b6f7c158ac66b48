package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/shakerlab/diffords/internal/app"
	"github.com/shakerlab/diffords/internal/format"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		configPath     string
		baseURL        string
		userAgent      string
		candidatesFile string
		outputPath     string
		outputPDFPath  string
		formatName     string
		timeoutSecs    int
		delay          time.Duration
		maxAttempts    int
		maxResults     int
		matchFloor     float64
		matchMargin    float64
		nonInteractive bool
		verbose        bool
		batchPath      string
		batchSheet     string
		batchColumn    string
		showVersion    bool
	)

	flag.StringVar(&configPath, "config", "", "Path to YAML/JSON config file")
	flag.StringVar(&baseURL, "base", "", "Difford's Guide base URL (default "+`"`+"https://www.diffordsguide.com"+`"`+")")
	flag.StringVar(&userAgent, "ua", "", "Custom User-Agent for outgoing requests")
	flag.StringVar(&candidatesFile, "candidates.file", "", "Path to JSON file with a static candidate listing (offline mode)")
	flag.StringVar(&outputPath, "o", "", "Write rendered output to this file instead of stdout")
	flag.StringVar(&outputPDFPath, "output.pdf", "", "Also write a PDF recipe card to this path")
	flag.StringVar(&formatName, "format", app.DefaultFormat, "Output format: "+strings.Join(format.Modes(), ", "))
	flag.IntVar(&timeoutSecs, "timeout", 10, "Request timeout in seconds")
	flag.DurationVar(&delay, "delay", app.DefaultDelay, "Polite delay between requests (e.g. 500ms, 2s)")
	flag.IntVar(&maxAttempts, "max.attempts", app.DefaultMaxAttempts, "Fetch attempts per page, including the first")
	flag.IntVar(&maxResults, "max.results", app.DefaultMaxResults, "Maximum search results to consider")
	flag.Float64Var(&matchFloor, "match.floor", app.DefaultMinConfidence, "Minimum similarity score to accept a match")
	flag.Float64Var(&matchMargin, "match.margin", app.DefaultAmbiguityMargin, "Score window treated as a near-tie needing disambiguation")
	flag.BoolVar(&nonInteractive, "n", false, "Do not prompt if the best search hit is ambiguous")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.StringVar(&batchPath, "batch", "", "Excel workbook of cocktail names to look up non-interactively")
	flag.StringVar(&batchSheet, "batch.sheet", "", "Workbook sheet name (default Cocktails)")
	flag.StringVar(&batchColumn, "batch.column", "", "Header of the name column (default Name)")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Usage = usage
	flag.Parse()

	if showVersion {
		fmt.Println(app.VersionString())
		return
	}

	cfg := app.Config{
		BaseURL:         baseURL,
		UserAgent:       userAgent,
		CandidateFile:   candidatesFile,
		Timeout:         time.Duration(timeoutSecs) * time.Second,
		Delay:           delay,
		MaxAttempts:     maxAttempts,
		MaxResults:      maxResults,
		MinConfidence:   matchFloor,
		AmbiguityMargin: matchMargin,
		Format:          formatName,
		OutputPath:      outputPath,
		OutputPDFPath:   outputPDFPath,
		NonInteractive:  nonInteractive,
		Verbose:         verbose,
		BatchPath:       batchPath,
		BatchSheet:      batchSheet,
		BatchColumn:     batchColumn,
	}

	// Config precedence: flags, then config file, then environment.
	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Error().Err(err).Str("path", configPath).Msg("config file")
			os.Exit(2)
		}
		if err := app.ApplyFileConfig(&cfg, fc); err != nil {
			log.Error().Err(err).Str("path", configPath).Msg("config file")
			os.Exit(2)
		}
	}
	_ = app.LoadEnvFiles(".env")
	app.ApplyEnvToConfig(&cfg)

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	query := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if cfg.BatchPath == "" && query == "" {
		fmt.Fprintln(os.Stderr, "error: missing cocktail name")
		usage()
		os.Exit(2)
	}

	if err := run(cfg, query); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(exitCode(err))
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: diffords [flags] <cocktail name>\n\nFetch cocktail ingredients from Difford's Guide.\n\nFlags:\n")
	flag.PrintDefaults()
}

func run(cfg app.Config, query string) error {
	ctx := context.Background()

	var prompter app.Prompter
	if !cfg.NonInteractive {
		prompter = &terminalPrompter{in: os.Stdin, out: os.Stderr}
	}
	a, err := app.New(cfg, prompter, os.Stdout)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	if cfg.BatchPath != "" {
		return a.RunBatch(ctx)
	}
	return a.Run(ctx, query)
}

// exitCode maps the error taxonomy onto process exit codes: 1 when no match
// was accepted (or the selection was cancelled), 2 for fetch/extraction and
// configuration failures.
func exitCode(err error) int {
	if errors.Is(err, app.ErrNoMatch) || errors.Is(err, app.ErrCancelled) {
		return 1
	}
	return 2
}
