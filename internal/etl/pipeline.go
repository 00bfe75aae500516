package etl

import (
	"context"
	"fmt"
)

// transformMode indicates which transformation strategy to use.
type transformMode int

const (
	transformModeTransformer transformMode = iota // 1:1 via Transformer interface
	transformModeExpander                         // 1:N via Expander interface
)

// Pipeline orchestrates the ETL process. Execution is strictly sequential:
// records flow extract -> filter -> transform one at a time in source order,
// and the full transformed set is handed to Load in a single call. There are
// no worker goroutines and no shared mutable state between stages beyond the
// record values themselves.
type Pipeline[S, T any] struct {
	job Job[S, T]

	// Configuration overrides (nil means use interface value or default)
	reportInterval *int

	// Transformation strategy (detected at construction)
	txMode      transformMode
	transformer Transformer[S, T]
	expander    Expander[S, T]

	// Optional capabilities (detected from job interfaces)
	filter              Filter[S]
	errHandler          ErrorHandler
	progress            ProgressReporter
	starter             Starter
	stopper             Stopper
	reportIntervalIface ReportInterval
}

// New creates a new Pipeline for the given job.
// The job must implement Job[S, T]. Optional interfaces are auto-detected.
//
// For transformation, the job must implement one of:
//   - Transformer[S, T]: 1:1 transform (one input record -> one output record)
//   - Expander[S, T]: 1:N transform (one input record -> multiple output records)
//
// If both Transformer and Expander are implemented, Transformer takes precedence.
// Panics if neither is implemented.
func New[S, T any](job Job[S, T]) *Pipeline[S, T] {
	p := &Pipeline[S, T]{
		job: job,
	}

	// Detect transformation mode (precedence: Transformer > Expander)
	if t, ok := any(job).(Transformer[S, T]); ok {
		p.txMode = transformModeTransformer
		p.transformer = t
	} else if e, ok := any(job).(Expander[S, T]); ok {
		p.txMode = transformModeExpander
		p.expander = e
	} else {
		panic("etl: job must implement Transformer[S, T] or Expander[S, T]")
	}

	// Auto-detect optional interfaces
	if f, ok := any(job).(Filter[S]); ok {
		p.filter = f
	}
	if h, ok := any(job).(ErrorHandler); ok {
		p.errHandler = h
	}
	if t, ok := any(job).(ProgressReporter); ok {
		p.progress = t
	}
	if s, ok := any(job).(Starter); ok {
		p.starter = s
	}
	if s, ok := any(job).(Stopper); ok {
		p.stopper = s
	}
	if r, ok := any(job).(ReportInterval); ok {
		p.reportIntervalIface = r
	}

	return p
}

// WithReportInterval overrides how often to report progress (in records).
// Priority: this method > ReportInterval interface > DefaultReportInterval.
// Values less than 1 are ignored.
func (p *Pipeline[S, T]) WithReportInterval(n int) *Pipeline[S, T] {
	if n >= 1 {
		p.reportInterval = &n
	}
	return p
}

// transform applies the appropriate transformation based on the detected mode.
// Returns a slice of transformed records (may be empty, single, or multiple items).
func (p *Pipeline[S, T]) transform(ctx context.Context, src S) ([]T, error) {
	switch p.txMode {
	case transformModeTransformer:
		result, err := p.transformer.Transform(ctx, src)
		if err != nil {
			return nil, err
		}
		return []T{result}, nil

	case transformModeExpander:
		return p.expander.Expand(ctx, src)

	default:
		panic("etl: unknown transform mode")
	}
}

// Run executes the pipeline. It returns the first unrecoverable error: one the
// job's ErrorHandler answered with ActionFail, any error raised without an
// ErrorHandler, or the context's error if cancelled mid-run.
func (p *Pipeline[S, T]) Run(ctx context.Context) error {
	stats := &Stats{}

	if p.starter != nil {
		ctx = p.starter.Start(ctx)
	}

	pipelineErr := p.execute(ctx, stats)

	if p.stopper != nil {
		p.stopper.Stop(ctx, stats, pipelineErr)
	}

	return pipelineErr
}

// execute runs extract/filter/transform over each record in order, then hands
// the collected result to the load stage.
func (p *Pipeline[S, T]) execute(ctx context.Context, stats *Stats) error {
	records, err := p.runExtract(ctx, stats)
	if err != nil {
		return err
	}

	return p.runLoad(ctx, records, stats)
}

// runExtract consumes the job's extract sequence, applying filter and
// transform per record. Extraction stops when the context is cancelled.
func (p *Pipeline[S, T]) runExtract(ctx context.Context, stats *Stats) ([]T, error) {
	reportEvery := int64(p.resolveReportInterval())

	var collected []T

	for record, err := range p.job.Extract(ctx) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		// Handle extraction errors
		if err != nil {
			stats.incErrors(1)
			if p.errHandler != nil {
				action := p.errHandler.OnError(ctx, StageExtract, err)
				if action == ActionSkip {
					continue
				}
			}
			return nil, fmt.Errorf("extract: %w", err)
		}

		extracted := stats.incExtracted(1)

		// Apply filter if configured
		if p.filter != nil && !p.filter.Include(record) {
			stats.incFiltered(1)
			continue
		}

		results, err := p.transform(ctx, record)
		if err != nil {
			stats.incErrors(1)
			if p.errHandler != nil {
				action := p.errHandler.OnError(ctx, StageTransform, err)
				if action == ActionSkip {
					continue
				}
			}
			return nil, fmt.Errorf("transform: %w", err)
		}

		stats.incTransformed(1)
		collected = append(collected, results...)

		// Report progress when crossing a reportEvery threshold
		if p.progress != nil && extracted%reportEvery == 0 {
			p.progress.OnProgress(ctx, stats)
		}
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	return collected, nil
}

// runLoad hands the full transformed set to the job, including the empty set:
// destinations are expected to produce a valid empty output (e.g. a CSV with
// only its header) rather than treat zero records as an error.
func (p *Pipeline[S, T]) runLoad(ctx context.Context, records []T, stats *Stats) error {
	if err := p.job.Load(ctx, records); err != nil {
		stats.incErrors(1)
		if p.errHandler != nil {
			action := p.errHandler.OnError(ctx, StageLoad, err)
			if action == ActionSkip {
				return nil
			}
		}
		return fmt.Errorf("load: %w", err)
	}

	stats.incLoaded(int64(len(records)))
	return nil
}
