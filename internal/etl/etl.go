package etl

import (
	"context"
	"iter"
)

// Stage identifies where in the pipeline an event occurred.
type Stage string

const (
	StageExtract   Stage = "extract"
	StageTransform Stage = "transform"
	StageLoad      Stage = "load"
)

// Action tells the pipeline what to do after an error.
type Action string

const (
	ActionFail Action = "fail" // Stop pipeline and return error
	ActionSkip Action = "skip" // Skip this record and continue
)

// Job defines the core ETL operations. This is the only required interface to
// implement.
//
// The type parameters are:
//   - S: source record type (extracted from the data source)
//   - T: target record type (loaded to the destination)
//
// For transformation, implement one of:
//   - [Transformer]: 1:1 transform (one input record -> one output record)
//   - [Expander]: 1:N transform (one input record -> multiple output records)
//
// If both are implemented, Transformer takes precedence.
type Job[S, T any] interface {
	// Extract yields records from the source in source order. Yielding an
	// error routes it through the job's ErrorHandler (if any); without one
	// the pipeline stops on the first error.
	Extract(ctx context.Context) iter.Seq2[S, error]

	// Load writes the full ordered set of transformed records to the
	// destination. Load is called exactly once per run, after extraction
	// finishes, even when zero records survived the transform stage.
	Load(ctx context.Context, records []T) error
}

// Transformer converts one input record to one output record. Use this for
// simple 1:1 mappings where each source record produces exactly one target
// record.
//
// Example:
//
//	func (j *MyJob) Transform(ctx context.Context, src Source) (Target, error) {
//	    return Target{
//	        ID:   src.ID,
//	        Name: strings.ToUpper(src.Name),
//	    }, nil
//	}
type Transformer[S, T any] interface {
	Transform(ctx context.Context, src S) (T, error)
}

// Expander converts one input record to multiple output records. Returning an
// empty or nil slice filters the record out — no target records are produced
// and nothing reaches the load stage.
//
// When to use:
//   - Denormalization: a source record with nested items produces one target per item
//   - Splitting: a source record contains multiple logical entities
//   - Conditional expansion: some records produce targets, others don't
type Expander[S, T any] interface {
	Expand(ctx context.Context, src S) ([]T, error)
}
