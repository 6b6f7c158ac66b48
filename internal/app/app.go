package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/shakerlab/diffords/internal/batch"
	"github.com/shakerlab/diffords/internal/extract"
	"github.com/shakerlab/diffords/internal/fetch"
	"github.com/shakerlab/diffords/internal/format"
	"github.com/shakerlab/diffords/internal/match"
	"github.com/shakerlab/diffords/internal/recipe"
	"github.com/shakerlab/diffords/internal/search"
)

// ErrNoMatch is returned when no candidate clears the confidence floor (or
// the candidate source comes back empty). No recipe fetch is attempted.
var ErrNoMatch = errors.New("no matching recipe")

// ErrCancelled is returned when an interactive selection is abandoned.
var ErrCancelled = errors.New("selection cancelled")

// Prompter resolves an ambiguous match set. The orchestrator suspends by
// yielding the near-tied results to the caller and resumes with the chosen
// index; a negative index cancels. Implementations own all interactive I/O so
// the core pipeline stays pure and synchronous.
type Prompter interface {
	Select(query string, results []match.Result) (int, error)
}

// state names for the per-query pipeline. One query runs fully to completion
// before the next begins; there is no concurrent execution within a run.
type state string

const (
	stateIdle             state = "idle"
	stateSearching        state = "searching"
	stateMatchFound       state = "match_found"
	stateNoMatch          state = "no_match"
	stateAmbiguous        state = "ambiguous_matches"
	stateExtracting       state = "extracting"
	stateExtracted        state = "extracted"
	stateExtractionFailed state = "extraction_failed"
	stateFormatted        state = "formatted"
)

// App wires the candidate source, fetcher, matcher, extractor and formatter
// into the search → match → fetch → extract → format pipeline.
type App struct {
	cfg      Config
	provider search.Provider
	client   *fetch.Client
	prompter Prompter
	out      io.Writer
	mode     format.Mode
	state    state
}

// New builds the pipeline from explicit configuration. A nil out defaults to
// stdout; prompter may be nil when cfg.NonInteractive is set.
func New(cfg Config, prompter Prompter, out io.Writer) (*App, error) {
	applyDefaults(&cfg)
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	mode, err := format.ParseMode(cfg.Format)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = os.Stdout
	}
	client := &fetch.Client{
		UserAgent:         cfg.UserAgent,
		MaxAttempts:       cfg.MaxAttempts,
		PerRequestTimeout: cfg.Timeout,
		Delay:             cfg.Delay,
	}
	var provider search.Provider
	if cfg.CandidateFile != "" {
		provider = &search.FileProvider{Path: cfg.CandidateFile}
	} else {
		provider = &search.Diffords{BaseURL: cfg.BaseURL, Client: client}
	}
	return &App{
		cfg:      cfg,
		provider: provider,
		client:   client,
		prompter: prompter,
		out:      out,
		mode:     mode,
		state:    stateIdle,
	}, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Delay == 0 {
		cfg.Delay = DefaultDelay
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.MaxResults == 0 {
		cfg.MaxResults = DefaultMaxResults
	}
	if cfg.MinConfidence == 0 {
		cfg.MinConfidence = DefaultMinConfidence
	}
	if cfg.AmbiguityMargin == 0 {
		cfg.AmbiguityMargin = DefaultAmbiguityMargin
	}
	if cfg.Format == "" {
		cfg.Format = DefaultFormat
	}
}

func (a *App) setState(s state) {
	log.Debug().Str("from", string(a.state)).Str("to", string(s)).Msg("pipeline state")
	a.state = s
}

// Run processes a single query end to end and emits the rendered recipe.
func (a *App) Run(ctx context.Context, query string) error {
	rec, err := a.Lookup(ctx, query)
	if err != nil {
		return err
	}
	rendered, err := format.Render(rec, a.mode)
	if err != nil {
		return err
	}
	a.setState(stateFormatted)
	return a.emit(rec, rendered)
}

// RunBatch looks up every name from the configured workbook through the
// non-interactive pipeline, one at a time. Per-name failures are logged and
// skipped; the run fails only when no name succeeds.
func (a *App) RunBatch(ctx context.Context) error {
	names, err := batch.ReadNames(a.cfg.BatchPath, a.cfg.BatchSheet, a.cfg.BatchColumn, 0)
	if err != nil {
		return fmt.Errorf("batch input: %w", err)
	}
	if len(names) == 0 {
		return fmt.Errorf("batch input: no names in %s", a.cfg.BatchPath)
	}
	log.Info().Int("names", len(names)).Str("file", a.cfg.BatchPath).Msg("batch run")

	var ok int
	var blocks []string
	for _, name := range names {
		rec, err := a.lookup(ctx, name, true)
		if err != nil {
			log.Warn().Err(err).Str("query", name).Msg("batch entry failed")
			continue
		}
		rendered, err := format.Render(rec, a.mode)
		if err != nil {
			log.Warn().Err(err).Str("query", name).Msg("batch entry failed")
			continue
		}
		blocks = append(blocks, rendered)
		ok++
	}
	if ok == 0 {
		return fmt.Errorf("batch: every lookup failed: %w", ErrNoMatch)
	}
	log.Info().Int("succeeded", ok).Int("failed", len(names)-ok).Msg("batch done")
	return a.writeOutput(strings.Join(blocks, "\n\n"))
}

// Lookup resolves a query to a single extracted recipe.
func (a *App) Lookup(ctx context.Context, query string) (recipe.Recipe, error) {
	return a.lookup(ctx, query, a.cfg.NonInteractive)
}

func (a *App) lookup(ctx context.Context, query string, nonInteractive bool) (recipe.Recipe, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return recipe.Recipe{}, errors.New("empty query")
	}

	a.setState(stateSearching)
	candidates, err := a.provider.Search(ctx, query, a.cfg.MaxResults)
	if err != nil {
		return recipe.Recipe{}, fmt.Errorf("search %q: %w", query, err)
	}
	log.Debug().Int("candidates", len(candidates)).Str("query", query).Str("provider", a.provider.Name()).Msg("search done")

	results := match.Rank(query, candidates)
	if len(results) == 0 || results[0].Score < a.cfg.MinConfidence {
		a.setState(stateNoMatch)
		return recipe.Recipe{}, fmt.Errorf("%w for %q (floor %.2f)", ErrNoMatch, query, a.cfg.MinConfidence)
	}

	picked := results[0]
	if near := a.nearTies(results); len(near) > 1 {
		a.setState(stateAmbiguous)
		if !nonInteractive && a.prompter != nil {
			idx, err := a.prompter.Select(query, near)
			if err != nil {
				return recipe.Recipe{}, fmt.Errorf("select for %q: %w", query, err)
			}
			if idx < 0 || idx >= len(near) {
				return recipe.Recipe{}, fmt.Errorf("%w for %q", ErrCancelled, query)
			}
			picked = near[idx]
		}
		// Non-interactive: keep the highest-scoring result; the matcher's
		// stable ordering already breaks exact ties toward the earlier
		// candidate.
	} else {
		a.setState(stateMatchFound)
	}
	log.Info().Str("name", picked.Candidate.Name).Float64("score", picked.Score).Str("query", query).Msg("matched")

	a.setState(stateExtracting)
	body, _, err := a.client.Get(ctx, picked.Candidate.URL)
	if err != nil {
		a.setState(stateExtractionFailed)
		return recipe.Recipe{}, fmt.Errorf("recipe page for %q: %w", query, err)
	}
	rec, err := extract.FromHTML(body, picked.Candidate.URL, query, picked.Score)
	if err != nil {
		// Surfaced verbatim and never retried: the site is static, so a
		// malformed page is not a transient condition.
		a.setState(stateExtractionFailed)
		return recipe.Recipe{}, err
	}
	a.setState(stateExtracted)
	log.Info().Str("name", rec.Name).Int("ingredients", len(rec.Ingredients)).Msg("extracted")
	return rec, nil
}

// nearTies returns the results above the confidence floor whose score is
// within the ambiguity margin of the top score, in rank order.
func (a *App) nearTies(results []match.Result) []match.Result {
	if len(results) == 0 {
		return nil
	}
	top := results[0].Score
	var out []match.Result
	for _, r := range results {
		if r.Score < a.cfg.MinConfidence || top-r.Score > a.cfg.AmbiguityMargin {
			break
		}
		out = append(out, r)
	}
	return out
}

func (a *App) emit(rec recipe.Recipe, rendered string) error {
	if a.cfg.OutputPDFPath != "" {
		if err := writeRecipePDF(rec, a.cfg.OutputPDFPath); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		log.Info().Str("out", a.cfg.OutputPDFPath).Msg("wrote PDF")
	}
	return a.writeOutput(rendered)
}

func (a *App) writeOutput(rendered string) error {
	if a.cfg.OutputPath == "" {
		_, err := io.WriteString(a.out, rendered+"\n")
		return err
	}
	if dir := filepath.Dir(a.cfg.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(a.cfg.OutputPath, []byte(rendered+"\n"), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	log.Info().Str("out", a.cfg.OutputPath).Msg("wrote output")
	return nil
}
