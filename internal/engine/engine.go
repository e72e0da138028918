// Package engine runs one verification pass: it materializes the log
// records and the registry snapshot, evaluates every criterion, and
// aggregates the results into the verification report.
//
// Inputs are read-only, so log reads and the registry load fan out in
// parallel. Criterion evaluation is a pure function of the materialized
// inputs and also runs in parallel; results are collected by declaration
// index so the report always preserves configuration order.
package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/petra-ci/pipecheck/internal/config"
	"github.com/petra-ci/pipecheck/internal/criteria"
	"github.com/petra-ci/pipecheck/internal/logsource"
	"github.com/petra-ci/pipecheck/internal/registry"
	"github.com/petra-ci/pipecheck/internal/report"
	"github.com/petra-ci/pipecheck/internal/state"
	"github.com/petra-ci/pipecheck/internal/verification"
)

// SourceStats pairs a log source name with its read statistics.
type SourceStats struct {
	Source string
	Stats  logsource.ReadStats
}

// RunStats carries partial diagnostic information saved even when checks
// fail: per-source line counts and the number of skipped lines.
type RunStats struct {
	Sources []SourceStats
	// StateViolations are field-validation violations found while replaying
	// the state history. Informational; transition criteria produce checks.
	StateViolations []state.Violation
}

// TotalSkipped sums the skipped line counts across sources.
func (s RunStats) TotalSkipped() int {
	total := 0
	for _, src := range s.Sources {
		total += src.Stats.Skipped
	}
	return total
}

// Engine runs verification passes for one configuration.
type Engine struct {
	cfg   *config.Config
	level verification.Level

	mu       sync.Mutex
	warnings []string
}

// New creates an engine. The level overrides the configured one when the
// caller resolved it from a CLI flag.
func New(cfg *config.Config, level verification.Level) *Engine {
	return &Engine{cfg: cfg, level: level}
}

// Warnings returns the parse warnings collected during the last run.
func (e *Engine) Warnings() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.warnings))
	copy(out, e.warnings)
	return out
}

func (e *Engine) warn(source string, line int, reason string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.warnings = append(e.warnings, fmt.Sprintf("%s:%d: %s", source, line, reason))
}

// Run executes one verification pass. Configuration and source errors abort
// before any check results exist; check failures are part of the result.
func (e *Engine) Run(ctx context.Context) (report.Result, RunStats, error) {
	if err := config.Validate(e.cfg); err != nil {
		return report.Result{}, RunStats{}, err
	}

	inputs, stats, err := e.materialize(ctx)
	if err != nil {
		return report.Result{}, stats, err
	}

	checks, err := e.evaluate(ctx, inputs)
	if err != nil {
		return report.Result{}, stats, err
	}

	result := report.Aggregate(checks)
	if skipped := stats.TotalSkipped(); skipped > 0 {
		result.Summary = fmt.Sprintf("%s (%d unparsable lines skipped)", result.Summary, skipped)
	}
	return result, stats, nil
}

// materialize reads every input in parallel: the inputs are independent
// and read-only, so no coordination is needed beyond the errgroup.
func (e *Engine) materialize(ctx context.Context) (criteria.Inputs, RunStats, error) {
	reader := logsource.NewReader(e.warn)
	sources := e.cfg.LogParsing.LogSources

	records := make(map[string][]logsource.Record, len(sources))
	perSource := make([]SourceStats, len(sources))
	var (
		recordsMu sync.Mutex
		snap      registry.Snapshot
		tracker   *state.Tracker
	)

	g, ctx := errgroup.WithContext(ctx)

	for i, spec := range sources {
		g.Go(func() error {
			recs, readStats, err := reader.Read(spec.Source())
			if err != nil {
				return err
			}
			recordsMu.Lock()
			records[spec.Name] = recs
			recordsMu.Unlock()
			perSource[i] = SourceStats{Source: spec.Name, Stats: readStats}
			return nil
		})
	}

	if e.cfg.Registry.Configured() {
		g.Go(func() error {
			loader, err := registry.NewLoader(e.cfg.Registry.LoaderConfig())
			if err != nil {
				return err
			}
			snap, err = loader.Load(ctx)
			return err
		})
	}

	if e.cfg.StateTracking.HistoryFile != "" {
		g.Go(func() error {
			// Transition criteria need the full node sequence, so the replay
			// tracker retains history even below the detailed level.
			replayLevel := e.level
			if !verification.KnobsFor(replayLevel).RetainFullHistory {
				replayLevel = verification.LevelDetailed
			}
			var err error
			tracker, err = state.LoadHistory(e.cfg.StateTracking.HistoryFile, replayLevel,
				e.cfg.StateTracking.RequiredFields)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return criteria.Inputs{}, RunStats{Sources: perSource}, err
	}

	stats := RunStats{Sources: perSource}
	if tracker != nil {
		stats.StateViolations = tracker.Violations()
	}

	return criteria.Inputs{
		Records:  records,
		Registry: snap,
		Tracker:  tracker,
	}, stats, nil
}

// evaluate runs every criterion and returns the results in declaration
// order regardless of completion order.
func (e *Engine) evaluate(ctx context.Context, inputs criteria.Inputs) ([]criteria.CheckResult, error) {
	specs := e.cfg.Criteria
	results := make([]criteria.CheckResult, len(specs))

	g, _ := errgroup.WithContext(ctx)
	for i, spec := range specs {
		g.Go(func() error {
			c := spec.Criterion()
			if c.Type == "state_transition" && len(c.ExpectedSequence) == 0 {
				c.ExpectedSequence = e.cfg.StateTracking.ExpectedTransitions
			}
			result, err := criteria.Evaluate(c, inputs)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// DescribeStats renders the per-source and state diagnostics for terminal
// output.
func DescribeStats(stats RunStats) string {
	sorted := make([]SourceStats, len(stats.Sources))
	copy(sorted, stats.Sources)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Source < sorted[j].Source })

	var sb strings.Builder
	for _, src := range sorted {
		fmt.Fprintf(&sb, "%s: %d lines, %d parsed, %d skipped\n",
			src.Source, src.Stats.Lines, src.Stats.Parsed, src.Stats.Skipped)
	}
	for _, v := range stats.StateViolations {
		fmt.Fprintf(&sb, "state step %d (%s): %s\n", v.StepIndex, v.NodeName, v.Message)
	}
	return sb.String()
}
