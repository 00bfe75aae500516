package etl

import "context"

// Filter excludes records before transformation. Implement this interface when
// you need to skip records based on their content without incurring the cost of
// transformation.
//
// Filter runs in the extract stage, in source order, so stateful filters
// (dedup by key, first-N sampling) see records exactly once and in order.
// Filtered records never reach the transform or load stages.
//
// Use Filter when you have:
//   - Records failing a cheap validity check
//   - Duplicates of an already-seen key
//   - Records outside a target range
//
// If you need access to context or want to produce errors, filter inside
// Transformer or Expander instead. Returning an empty slice from Expander has
// the same effect, but the record still passes through the transform stage.
type Filter[S any] interface {
	// Include returns true if the record should be processed.
	// Returning false skips the record before it reaches the transform stage.
	Include(src S) bool
}

// ErrorHandler customizes error handling per pipeline stage. Without an
// ErrorHandler, the pipeline stops on the first error in any stage.
//
// Implement this interface when you want to:
//   - Skip malformed records and continue processing (return ActionSkip)
//   - Apply different strategies per stage (e.g., skip extract errors, fail on load errors)
//   - Track error counts for alerting or metrics
//
// Common pattern:
//
//	func (j *MyJob) OnError(ctx context.Context, stage etl.Stage, err error) etl.Action {
//	    switch stage {
//	    case etl.StageExtract:
//	        slog.Warn("skipping malformed record", "error", err)
//	        return etl.ActionSkip
//	    case etl.StageLoad:
//	        return etl.ActionFail
//	    }
//	    return etl.ActionFail
//	}
//
// Skipped errors still increment Stats.Errors. The err parameter passed to
// Stopper.Stop only contains the fatal error that caused the pipeline to fail
// (i.e., when OnError returned ActionFail or when no ErrorHandler is present).
type ErrorHandler interface {
	// OnError is called when an error occurs during any stage.
	// Return ActionSkip to continue processing, ActionFail to stop the pipeline.
	OnError(ctx context.Context, stage Stage, err error) Action
}

// Starter is called before pipeline execution begins. Implement this interface
// when you need to perform setup work or enrich the context before extraction
// starts.
//
// Use Starter for:
//   - Adding values to the context (run IDs, logger fields)
//   - Recording the pipeline start time for elapsed-time metrics
//   - Logging the start of a pipeline run
//
// The context returned by Start is propagated to all pipeline stages and to
// Stopper.Stop. Start is called exactly once, before the first call to Extract.
type Starter interface {
	// Start is called before extraction begins.
	// The returned context is used for the entire pipeline.
	Start(ctx context.Context) context.Context
}

// Stopper is called after pipeline execution completes, regardless of whether
// the pipeline succeeded or failed. Implement this interface for cleanup or
// final logging.
//
// The err parameter is the same error value returned by Run: the unrecoverable
// error that caused Run to fail (no ErrorHandler, or ErrorHandler returned
// ActionFail). Errors handled with ActionSkip do not appear in err, even though
// they increment stats.Errors while the pipeline continues processing.
//
// Example:
//
//	func (j *MyJob) Stop(ctx context.Context, stats *etl.Stats, err error) {
//	    if err != nil {
//	        slog.ErrorContext(ctx, "pipeline failed", "error", err, "stats", stats)
//	    } else {
//	        slog.InfoContext(ctx, "pipeline complete", "stats", stats)
//	    }
//	}
//
// Stop is called exactly once, after the pipeline Run method returns.
type Stopper interface {
	// Stop is called exactly once, after the pipeline Run method returns.
	Stop(ctx context.Context, stats *Stats, err error)
}
