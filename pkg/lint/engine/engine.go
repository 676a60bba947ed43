// Package engine is the checker dispatcher: it classifies the scan roots,
// resolves the effective rule set, runs every candidate rule against every
// artifact and aggregates the outcome into a lint.Report.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/modlint/pkg/lint"
	"github.com/leapstack-labs/modlint/pkg/lint/discover"
)

// Engine runs lint passes. It holds no state between runs and may be used
// for several runs, sequentially or concurrently.
type Engine struct {
	registry    *lint.Registry
	classifier  *discover.Classifier
	externals   map[string]lint.ExternalChecker
	workers     int
	ruleOptions map[string]lint.Options
	severities  map[string]lint.Severity
	sink        func(lint.Violation)

	// Structured logger
	logger *slog.Logger
}

// Config holds engine configuration.
type Config struct {
	// Registry holds the rules to dispatch (default: lint.Default())
	Registry *lint.Registry
	// Classifier tags files with formats (default: discover defaults)
	Classifier *discover.Classifier
	// Externals evaluate the registry's External rules. An External rule
	// without a checker is skipped like one whose tool is not installed.
	Externals []lint.ExternalChecker
	// Workers is the number of artifacts checked in parallel; values below
	// 2 give the sequential baseline.
	Workers int
	// RuleOptions holds per-rule options keyed by rule id. Every rule also
	// accepts lint.SeverityOption.
	RuleOptions map[string]lint.Options
	// Sink receives every counted violation. Calls are serialized.
	Sink func(lint.Violation)
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// New creates an engine. Every external checker must evaluate a registered
// External rule, and the options of every registered rule must pass
// RuleDef.ValidateOptions. Options for unknown rules are ignored.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	registry := cfg.Registry
	if registry == nil {
		registry = lint.Default()
	}
	classifier := cfg.Classifier
	if classifier == nil {
		classifier = &discover.Classifier{}
	}

	externals := make(map[string]lint.ExternalChecker, len(cfg.Externals))
	for _, checker := range cfg.Externals {
		id := checker.RuleID()
		def, ok := registry.Get(id)
		if !ok || !def.External {
			return nil, fmt.Errorf("%w: external checker for %q has no registered external rule", lint.ErrInvalidRule, id)
		}
		if _, dup := externals[id]; dup {
			return nil, fmt.Errorf("%w: two external checkers for %q", lint.ErrDuplicateRule, id)
		}
		externals[id] = checker
	}

	severities := make(map[string]lint.Severity)
	for _, id := range slices.Sorted(maps.Keys(cfg.RuleOptions)) {
		opts := cfg.RuleOptions[id]
		def, ok := registry.Get(id)
		if !ok {
			logger.Warn("ignoring options for unknown rule", "rule", id)
			continue
		}
		if err := def.ValidateOptions(opts); err != nil {
			return nil, err
		}
		severities[id] = def.SeverityFor(opts)
	}

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	logger.Debug("initializing engine", "rules", registry.Count(), "externals", len(externals), "workers", workers)

	return &Engine{
		registry:    registry,
		classifier:  classifier,
		externals:   externals,
		workers:     workers,
		ruleOptions: cfg.RuleOptions,
		severities:  severities,
		sink:        cfg.Sink,
		logger:      logger,
	}, nil
}

// Run lints every module under root.
func (e *Engine) Run(ctx context.Context, root string, sel lint.Selection) (*lint.Report, error) {
	return e.RunRoots(ctx, []string{root}, sel)
}

// RunRoots lints every module under each root.
//
// Configuration errors (lint.ErrInvalidSelection) and path errors
// (lint.ErrPathNotFound) abort the run before any file is read, and no
// report is returned. Parse and external tool failures are recorded as
// synthetic violations; a missing external tool only moves its rule to
// Report.Skipped.
func (e *Engine) RunRoots(ctx context.Context, roots []string, sel lint.Selection) (*lint.Report, error) {
	logger := e.logger.With("run_id", uuid.NewString())
	start := time.Now()

	effective, err := e.registry.Resolve(sel)
	if err != nil {
		return nil, err
	}
	if unknown := effective.Unknown(); len(unknown) > 0 {
		logger.Warn("ignoring unknown rule selections", "entries", unknown)
	}

	modules, err := e.classifier.ClassifyRoots(roots)
	if err != nil {
		return nil, err
	}

	skipped := e.unavailable(effective, logger)
	effective = effective.Without(skipped...)

	r := &run{
		engine:    e,
		effective: effective,
		stats:     lint.NewStats(e.sink),
		logger:    logger,
	}

	items := workItems(modules)
	logger.Debug("dispatching",
		"roots", roots,
		"modules", len(modules),
		"artifacts", len(items)-len(modules),
		"rules", effective.Len(),
		"skipped", skipped)

	if err := e.dispatch(ctx, r, items); err != nil {
		return nil, err
	}

	report := lint.NewReport(r.stats.Snapshot(), effective, skipped, len(modules), len(items)-len(modules))
	logger.Info("lint run complete",
		"total", report.Total,
		"fired", len(report.Fired()),
		"duration", time.Since(start))
	return report, nil
}

// unavailable returns the selected External rules that cannot be evaluated
// this run.
func (e *Engine) unavailable(effective lint.SelectionSet, logger *slog.Logger) []string {
	var skipped []string
	for _, id := range effective.IDs() {
		def, _ := e.registry.Get(id)
		if !def.External {
			continue
		}
		checker, ok := e.externals[id]
		if !ok {
			logger.Info("skipping external rule without checker", "rule", id)
			skipped = append(skipped, id)
			continue
		}
		if err := checker.Available(); err != nil {
			if errors.Is(err, lint.ErrToolNotFound) {
				logger.Info("skipping external rule", "rule", id, "reason", err)
			} else {
				logger.Warn("skipping external rule", "rule", id, "error", err)
			}
			skipped = append(skipped, id)
		}
	}
	return skipped
}

func (e *Engine) dispatch(ctx context.Context, r *run, items []workItem) error {
	if e.workers == 1 {
		for _, item := range items {
			if err := ctx.Err(); err != nil {
				return err
			}
			r.check(ctx, item)
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for _, item := range items {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r.check(gctx, item)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
