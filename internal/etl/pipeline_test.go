package etl_test

import (
	"context"
	"errors"
	"iter"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ZERO20/latai-labs-etl-test/internal/etl"
)

// =============================================================================
// Test Helpers
// =============================================================================

// testRecord is a simple source record for testing.
type testRecord struct {
	ID    int
	Value string
}

// testOutput is a simple target record for testing.
type testOutput struct {
	ID      int
	Doubled string
}

func yieldAll(records []testRecord) iter.Seq2[testRecord, error] {
	return func(yield func(testRecord, error) bool) {
		for _, r := range records {
			if !yield(r, nil) {
				return
			}
		}
	}
}

// =============================================================================
// Minimal Job Implementation
// =============================================================================

// minimalJob implements only the required Job interface with Transformer.
type minimalJob struct {
	records []testRecord
	loaded  [][]testOutput
}

var (
	_ etl.Job[testRecord, testOutput]         = (*minimalJob)(nil)
	_ etl.Transformer[testRecord, testOutput] = (*minimalJob)(nil)
)

func (j *minimalJob) Extract(_ context.Context) iter.Seq2[testRecord, error] {
	return yieldAll(j.records)
}

func (j *minimalJob) Transform(_ context.Context, src testRecord) (testOutput, error) {
	return testOutput{ID: src.ID, Doubled: src.Value + src.Value}, nil
}

func (j *minimalJob) Load(_ context.Context, records []testOutput) error {
	j.loaded = append(j.loaded, records)
	return nil
}

// =============================================================================
// Full-Featured Job Implementation
// =============================================================================

// fullJob implements most optional interfaces.
type fullJob struct {
	records         []testRecord
	extractErrs     []error
	loaded          [][]testOutput
	loadErr         error
	transformErr    error
	started         bool
	stopped         bool
	stopErr         error
	finalStats      *etl.Stats
	errorsCaught    int
	errorStages     []etl.Stage
	action          etl.Action
	filterPredicate func(testRecord) bool
	progressCalls   int
}

var (
	_ etl.Job[testRecord, testOutput]         = (*fullJob)(nil)
	_ etl.Transformer[testRecord, testOutput] = (*fullJob)(nil)
	_ etl.Filter[testRecord]                  = (*fullJob)(nil)
	_ etl.ErrorHandler                        = (*fullJob)(nil)
	_ etl.Starter                             = (*fullJob)(nil)
	_ etl.Stopper                             = (*fullJob)(nil)
	_ etl.ProgressReporter                    = (*fullJob)(nil)
)

func (j *fullJob) Extract(_ context.Context) iter.Seq2[testRecord, error] {
	return func(yield func(testRecord, error) bool) {
		for _, err := range j.extractErrs {
			if !yield(testRecord{}, err) {
				return
			}
		}
		for _, r := range j.records {
			if !yield(r, nil) {
				return
			}
		}
	}
}

func (j *fullJob) Transform(_ context.Context, src testRecord) (testOutput, error) {
	if j.transformErr != nil {
		return testOutput{}, j.transformErr
	}
	return testOutput{ID: src.ID, Doubled: src.Value + src.Value}, nil
}

func (j *fullJob) Load(_ context.Context, records []testOutput) error {
	if j.loadErr != nil {
		return j.loadErr
	}
	j.loaded = append(j.loaded, records)
	return nil
}

func (j *fullJob) Include(src testRecord) bool {
	if j.filterPredicate != nil {
		return j.filterPredicate(src)
	}
	return true
}

func (j *fullJob) OnError(_ context.Context, stage etl.Stage, _ error) etl.Action {
	j.errorsCaught++
	j.errorStages = append(j.errorStages, stage)
	if j.action == "" {
		return etl.ActionSkip
	}
	return j.action
}

func (j *fullJob) Start(ctx context.Context) context.Context {
	j.started = true
	return ctx
}

func (j *fullJob) Stop(_ context.Context, stats *etl.Stats, err error) {
	j.stopped = true
	j.stopErr = err
	j.finalStats = stats
}

func (j *fullJob) ReportInterval() int { return 2 }

func (j *fullJob) OnProgress(_ context.Context, _ *etl.Stats) {
	j.progressCalls++
}

// =============================================================================
// Pipeline Tests
// =============================================================================

func TestPipeline_MinimalJob(t *testing.T) {
	job := &minimalJob{
		records: []testRecord{
			{ID: 1, Value: "a"},
			{ID: 2, Value: "b"},
			{ID: 3, Value: "c"},
		},
	}

	err := etl.New[testRecord, testOutput](job).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, job.loaded, 1)
	require.Equal(t, []testOutput{
		{ID: 1, Doubled: "aa"},
		{ID: 2, Doubled: "bb"},
		{ID: 3, Doubled: "cc"},
	}, job.loaded[0])
}

func TestPipeline_EmptyInputStillLoads(t *testing.T) {
	job := &minimalJob{records: []testRecord{}}

	err := etl.New[testRecord, testOutput](job).Run(context.Background())
	require.NoError(t, err)

	// Load is called exactly once, with zero records.
	require.Len(t, job.loaded, 1)
	require.Empty(t, job.loaded[0])
}

func TestPipeline_PreservesSourceOrder(t *testing.T) {
	records := make([]testRecord, 100)
	for i := range records {
		records[i] = testRecord{ID: i, Value: "v"}
	}
	job := &minimalJob{records: records}

	err := etl.New[testRecord, testOutput](job).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, job.loaded, 1)
	for i, out := range job.loaded[0] {
		require.Equal(t, i, out.ID)
	}
}

func TestPipeline_WithFilter(t *testing.T) {
	job := &fullJob{
		records: []testRecord{
			{ID: 1, Value: "a"},
			{ID: 2, Value: "b"},
			{ID: 3, Value: "c"},
		},
		filterPredicate: func(r testRecord) bool {
			return r.ID%2 == 1 // Only odd IDs
		},
	}

	err := etl.New[testRecord, testOutput](job).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, job.loaded, 1)
	require.Equal(t, []testOutput{
		{ID: 1, Doubled: "aa"},
		{ID: 3, Doubled: "cc"},
	}, job.loaded[0])
	require.Equal(t, int64(1), job.finalStats.Filtered())
}

func TestPipeline_StartAndStopHooks(t *testing.T) {
	job := &fullJob{records: []testRecord{{ID: 1, Value: "a"}}}

	err := etl.New[testRecord, testOutput](job).Run(context.Background())
	require.NoError(t, err)

	require.True(t, job.started)
	require.True(t, job.stopped)
	require.NoError(t, job.stopErr)
	require.Equal(t, int64(1), job.finalStats.Extracted())
	require.Equal(t, int64(1), job.finalStats.Loaded())
}

func TestPipeline_ExtractErrorSkipped(t *testing.T) {
	job := &fullJob{
		extractErrs: []error{errors.New("bad row")},
		records:     []testRecord{{ID: 1, Value: "a"}},
	}

	err := etl.New[testRecord, testOutput](job).Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, job.errorsCaught)
	require.Equal(t, []etl.Stage{etl.StageExtract}, job.errorStages)
	require.Len(t, job.loaded, 1)
	require.Len(t, job.loaded[0], 1)
	require.Equal(t, int64(1), job.finalStats.Errors())
}

func TestPipeline_ExtractErrorFails(t *testing.T) {
	job := &fullJob{
		extractErrs: []error{errors.New("boom")},
		records:     []testRecord{{ID: 1, Value: "a"}},
		action:      etl.ActionFail,
	}

	err := etl.New[testRecord, testOutput](job).Run(context.Background())
	require.Error(t, err)
	require.ErrorContains(t, err, "extract")

	// Nothing reached the load stage.
	require.Empty(t, job.loaded)
	require.True(t, job.stopped)
	require.Error(t, job.stopErr)
}

func TestPipeline_ExtractErrorNoHandlerFails(t *testing.T) {
	job := &minimalJobWithErr{err: errors.New("boom")}

	err := etl.New[testRecord, testOutput](job).Run(context.Background())
	require.Error(t, err)
	require.ErrorContains(t, err, "extract: boom")
}

// minimalJobWithErr yields one error and no records, with no ErrorHandler.
type minimalJobWithErr struct {
	minimalJob
	err error
}

func (j *minimalJobWithErr) Extract(_ context.Context) iter.Seq2[testRecord, error] {
	return func(yield func(testRecord, error) bool) {
		yield(testRecord{}, j.err)
	}
}

func TestPipeline_TransformErrorSkipped(t *testing.T) {
	job := &fullJob{
		records:      []testRecord{{ID: 1, Value: "a"}},
		transformErr: errors.New("cannot map"),
	}

	err := etl.New[testRecord, testOutput](job).Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, []etl.Stage{etl.StageTransform}, job.errorStages)
	require.Len(t, job.loaded, 1)
	require.Empty(t, job.loaded[0])
}

func TestPipeline_LoadErrorFails(t *testing.T) {
	job := &fullJob{
		records: []testRecord{{ID: 1, Value: "a"}},
		loadErr: errors.New("disk full"),
		action:  etl.ActionFail,
	}

	err := etl.New[testRecord, testOutput](job).Run(context.Background())
	require.Error(t, err)
	require.ErrorContains(t, err, "load: disk full")
	require.Equal(t, []etl.Stage{etl.StageLoad}, job.errorStages)
	require.Equal(t, int64(0), job.finalStats.Loaded())
}

func TestPipeline_LoadErrorSkipped(t *testing.T) {
	job := &fullJob{
		records: []testRecord{{ID: 1, Value: "a"}},
		loadErr: errors.New("disk full"),
	}

	err := etl.New[testRecord, testOutput](job).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(0), job.finalStats.Loaded())
}

func TestPipeline_ProgressReporting(t *testing.T) {
	job := &fullJob{
		records: []testRecord{
			{ID: 1, Value: "a"},
			{ID: 2, Value: "b"},
			{ID: 3, Value: "c"},
			{ID: 4, Value: "d"},
		},
	}

	// ReportInterval is 2, so 4 records cross the threshold twice.
	err := etl.New[testRecord, testOutput](job).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, job.progressCalls)
}

func TestPipeline_WithReportIntervalOverride(t *testing.T) {
	job := &fullJob{
		records: []testRecord{
			{ID: 1, Value: "a"},
			{ID: 2, Value: "b"},
			{ID: 3, Value: "c"},
			{ID: 4, Value: "d"},
		},
	}

	err := etl.New[testRecord, testOutput](job).
		WithReportInterval(4).
		Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, job.progressCalls)
}

func TestPipeline_CancelledContext(t *testing.T) {
	job := &minimalJob{records: []testRecord{{ID: 1, Value: "a"}}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := etl.New[testRecord, testOutput](job).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, job.loaded)
}

func TestPipeline_PanicsWithoutTransformer(t *testing.T) {
	require.Panics(t, func() {
		etl.New[testRecord, testOutput](&loadOnlyJob{})
	})
}

// loadOnlyJob implements Job but neither Transformer nor Expander.
type loadOnlyJob struct{}

func (j *loadOnlyJob) Extract(_ context.Context) iter.Seq2[testRecord, error] {
	return yieldAll(nil)
}

func (j *loadOnlyJob) Load(_ context.Context, _ []testOutput) error { return nil }

// =============================================================================
// Expander Tests
// =============================================================================

// expanderJob splits each record into N outputs, where N is the record ID.
type expanderJob struct {
	records []testRecord
	loaded  [][]testOutput
}

var (
	_ etl.Job[testRecord, testOutput]      = (*expanderJob)(nil)
	_ etl.Expander[testRecord, testOutput] = (*expanderJob)(nil)
)

func (j *expanderJob) Extract(_ context.Context) iter.Seq2[testRecord, error] {
	return yieldAll(j.records)
}

func (j *expanderJob) Expand(_ context.Context, src testRecord) ([]testOutput, error) {
	out := make([]testOutput, 0, src.ID)
	for range src.ID {
		out = append(out, testOutput{ID: src.ID, Doubled: src.Value})
	}
	return out, nil
}

func (j *expanderJob) Load(_ context.Context, records []testOutput) error {
	j.loaded = append(j.loaded, records)
	return nil
}

func TestPipeline_Expander(t *testing.T) {
	job := &expanderJob{
		records: []testRecord{
			{ID: 0, Value: "drop"}, // expands to nothing, acts as a filter
			{ID: 2, Value: "keep"},
		},
	}

	err := etl.New[testRecord, testOutput](job).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, job.loaded, 1)
	require.Equal(t, []testOutput{
		{ID: 2, Doubled: "keep"},
		{ID: 2, Doubled: "keep"},
	}, job.loaded[0])
}
