// Package users implements the user cleanup pipeline: fetch raw users from a
// JSON endpoint, drop invalid emails and duplicate ids, normalize names and
// addresses, and write the result as CSV.
package users

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ZERO20/latai-labs-etl-test/internal/domain"
	"github.com/ZERO20/latai-labs-etl-test/internal/etl"
)

// Job wires the extractor, transform rules, and CSV loader into the pipeline.
// A Job is single-use: construct one per run.
type Job struct {
	source *Extractor
	sink   *CSVLoader
	log    *slog.Logger

	runID   string
	started time.Time

	seen          map[int]struct{}
	invalidEmails int64
	duplicates    int64
	malformed     int64
}

var (
	_ etl.Job[domain.RawUser, domain.CleanUser]         = (*Job)(nil)
	_ etl.Transformer[domain.RawUser, domain.CleanUser] = (*Job)(nil)
	_ etl.Filter[domain.RawUser]                        = (*Job)(nil)
	_ etl.ErrorHandler                                  = (*Job)(nil)
	_ etl.Starter                                       = (*Job)(nil)
	_ etl.Stopper                                       = (*Job)(nil)
)

func NewJob(source *Extractor, sink *CSVLoader, log *slog.Logger) *Job {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Job{
		source: source,
		sink:   sink,
		log:    log,
		seen:   make(map[int]struct{}),
	}
}

// InvalidEmails returns how many records were dropped for a bad email.
func (j *Job) InvalidEmails() int64 { return j.invalidEmails }

// Duplicates returns how many records were dropped as duplicate ids.
func (j *Job) Duplicates() int64 { return j.duplicates }

// Malformed returns how many array elements were skipped as malformed.
func (j *Job) Malformed() int64 { return j.malformed }

// RunID returns the identifier assigned to the current run.
func (j *Job) RunID() string { return j.runID }

// Start assigns a run id, stamps the start time, and logs the run banner.
func (j *Job) Start(ctx context.Context) context.Context {
	j.runID = uuid.NewString()
	j.started = time.Now()
	j.log = j.log.With("run_id", j.runID)

	j.log.Info("pipeline.start",
		"endpoint", j.source.Endpoint(),
		"output", j.sink.Path(),
	)
	return ctx
}

func (j *Job) Extract(ctx context.Context) iter.Seq2[domain.RawUser, error] {
	return j.source.Records(ctx)
}

// Include drops records with invalid emails, then duplicate ids, keeping the
// first occurrence in source order. Both drops are counted, never fatal.
func (j *Job) Include(u domain.RawUser) bool {
	if !ValidateEmail(u.Email) {
		j.invalidEmails++
		j.log.Info("transform.drop_invalid_email", "id", u.ID, "email", u.Email)
		return false
	}

	if _, dup := j.seen[u.ID]; dup {
		j.duplicates++
		j.log.Warn("transform.drop_duplicate", "id", u.ID)
		return false
	}
	j.seen[u.ID] = struct{}{}

	return true
}

func (j *Job) Transform(_ context.Context, u domain.RawUser) (domain.CleanUser, error) {
	return Clean(u), nil
}

// Load writes the CSV and re-reads it to confirm header and row count.
func (j *Job) Load(_ context.Context, records []domain.CleanUser) error {
	rows, err := j.sink.Write(records)
	if err != nil {
		return err
	}

	verified, err := j.sink.Verify()
	if err != nil {
		return err
	}
	if verified != rows {
		return &domain.OpError{
			Op:   "users.load.verify",
			Kind: domain.KindWrite,
			Path: j.sink.Path(),
			Err:  fmt.Errorf("row count mismatch: wrote %d, read back %d", rows, verified),
		}
	}

	return nil
}

// OnError skips malformed records during extraction; everything else is
// fatal, matching the no-retry contract for transport and write failures.
func (j *Job) OnError(_ context.Context, stage etl.Stage, err error) etl.Action {
	if stage == etl.StageExtract && domain.IsKind(err, domain.KindMalformedRecord) {
		j.malformed++
		j.log.Warn("extract.skip_malformed", "error", err)
		return etl.ActionSkip
	}

	j.log.Error("pipeline.stage_error",
		"stage", string(stage),
		"kind", string(domain.Kind(err)),
		"error", err,
	)
	return etl.ActionFail
}

// Stop logs the final summary or the terminal failure.
func (j *Job) Stop(_ context.Context, stats *etl.Stats, err error) {
	elapsed := time.Since(j.started).Round(time.Millisecond)

	if err != nil {
		j.log.Error("pipeline.failed",
			"kind", string(domain.Kind(err)),
			"error", err,
			"stats", stats,
			"elapsed", elapsed,
		)
		return
	}

	if stats.Loaded() == 0 {
		j.log.Warn("pipeline.no_records", "elapsed", elapsed)
	}

	j.log.Info("pipeline.complete",
		"stats", stats,
		"invalid_emails", j.invalidEmails,
		"duplicates", j.duplicates,
		"malformed", j.malformed,
		"rows_written", stats.Loaded(),
		"elapsed", elapsed,
	)
}
