// Package etl provides a small, strictly sequential Extract-Transform-Load
// pipeline framework.
//
// The package uses an interface-based API where your job type implements only
// the interfaces it needs. The pipeline auto-detects implemented interfaces
// and configures itself accordingly.
//
// # Quick Start
//
// Implement the required Job interface plus a Transformer:
//
//	type MyJob struct {
//	    client *http.Client
//	}
//
//	func (j *MyJob) Extract(ctx context.Context) iter.Seq2[Source, error] {
//	    return func(yield func(Source, error) bool) {
//	        rows, err := j.fetch(ctx)
//	        if err != nil {
//	            yield(Source{}, err)
//	            return
//	        }
//	        for _, r := range rows {
//	            if !yield(r, nil) {
//	                return
//	            }
//	        }
//	    }
//	}
//
//	func (j *MyJob) Transform(ctx context.Context, src Source) (Target, error) {
//	    return Target{ID: src.ID, Name: strings.ToUpper(src.Name)}, nil
//	}
//
//	func (j *MyJob) Load(ctx context.Context, records []Target) error {
//	    return j.writeAll(records)
//	}
//
//	// Run the pipeline
//	err := etl.New[Source, Target](&MyJob{client: client}).Run(ctx)
//
// # Interface-Based Design
//
// The pipeline auto-detects optional interfaces. Just implement what you need:
//
//	// Add filtering by implementing Filter[S]
//	func (j *MyJob) Include(src Source) bool {
//	    return src.Active
//	}
//
//	// Add error handling by implementing ErrorHandler
//	func (j *MyJob) OnError(ctx context.Context, stage etl.Stage, err error) etl.Action {
//	    slog.Error("error in pipeline", "stage", stage, "error", err)
//	    return etl.ActionSkip // or etl.ActionFail to stop
//	}
//
// # Execution Model
//
// Run processes records one at a time in source order: extract, filter,
// transform, collect. When the source is exhausted, Load is called exactly
// once with the full ordered result, including the empty result. There is no
// worker concurrency and no batching; output order is the source order of the
// records that survived filtering.
package etl
