package etl

import "context"

// ReportInterval controls how often progress is reported, measured in records
// extracted. This interface can be implemented independently of
// ProgressReporter when you want to set the interval via the job struct rather
// than the builder.
//
// The value can be overridden at runtime via WithReportInterval, which takes
// precedence over this interface. If neither is set, DefaultReportInterval
// (1,000 records) is used.
//
// This interface is embedded in ProgressReporter, so implementing
// ProgressReporter automatically satisfies ReportInterval.
type ReportInterval interface {
	// ReportInterval returns how often to call OnProgress (in records extracted).
	ReportInterval() int
}

// ProgressReporter receives periodic progress updates during pipeline
// execution. Implement this interface when you want to log throughput or emit
// a heartbeat while the pipeline is running.
//
// OnProgress is called each time the cumulative extracted count crosses a
// ReportInterval boundary.
//
// Example:
//
//	func (j *MyJob) ReportInterval() int { return 500 }
//
//	func (j *MyJob) OnProgress(ctx context.Context, stats *etl.Stats) {
//	    slog.InfoContext(ctx, "progress",
//	        "extracted", stats.Extracted(),
//	        "errors", stats.Errors(),
//	    )
//	}
type ProgressReporter interface {
	ReportInterval

	// OnProgress is called periodically during execution.
	OnProgress(ctx context.Context, stats *Stats)
}
