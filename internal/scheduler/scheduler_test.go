package scheduler

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/aristath/hedgeguard/internal/events"
	testingpkg "github.com/aristath/hedgeguard/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	JobBase
	name  string
	runs  atomic.Int32
	err   error
	panic bool
}

func (j *countingJob) Name() string { return j.name }

func (j *countingJob) Run() error {
	j.runs.Add(1)
	if j.panic {
		panic("boom")
	}
	return j.err
}

func newTestScheduler() *Scheduler {
	return New(zerolog.New(nil).Level(zerolog.Disabled))
}

func TestAddJob(t *testing.T) {
	s := newTestScheduler()
	job := &countingJob{name: "retention"}

	require.NoError(t, s.AddJob("0 3 * * *", job))
	assert.Error(t, s.AddJob("0 4 * * *", job), "duplicate names are rejected")
	assert.Error(t, s.AddJob("not a schedule", &countingJob{name: "other"}))

	jobs := s.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, "retention", jobs[0].Name)
	assert.Equal(t, "0 3 * * *", jobs[0].Schedule)
}

func TestRunNow(t *testing.T) {
	s := newTestScheduler()
	job := &countingJob{name: "check_wal_checkpoints"}
	require.NoError(t, s.AddJob("@hourly", job))

	require.NoError(t, s.RunNow("check_wal_checkpoints"))
	assert.Equal(t, int32(1), job.runs.Load())

	status := job.RunStatus()
	assert.Equal(t, 1, status.Runs)
	assert.Equal(t, 0, status.Failures)
	assert.False(t, status.LastRun.IsZero())
}

func TestRunNow_UnknownJob(t *testing.T) {
	s := newTestScheduler()
	err := s.RunNow("missing")
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestRunNow_FailureEmitsEvent(t *testing.T) {
	s := newTestScheduler()
	recorder := testingpkg.NewMockEventEmitter()
	s.SetEventManager(recorder)

	job := &countingJob{name: "backup", err: errors.New("bucket unreachable")}
	require.NoError(t, s.AddJob("@daily", job))

	err := s.RunNow("backup")
	assert.EqualError(t, err, "bucket unreachable")

	require.Len(t, recorder.Emitted(), 1)
	failed, ok := recorder.Emitted()[0].(*events.JobFailedData)
	require.True(t, ok)
	assert.Equal(t, "backup", failed.Job)
	assert.Equal(t, "bucket unreachable", failed.Error)

	status := job.RunStatus()
	assert.Equal(t, 1, status.Failures)
	assert.Equal(t, "bucket unreachable", status.LastError)
}

func TestRunNow_RecoversPanics(t *testing.T) {
	s := newTestScheduler()
	job := &countingJob{name: "panicky", panic: true}
	require.NoError(t, s.AddJob("@daily", job))

	var err error
	assert.NotPanics(t, func() { err = s.RunNow("panicky") })
	assert.ErrorContains(t, err, "panicked")
}

func TestStartStop(t *testing.T) {
	s := newTestScheduler()
	require.NoError(t, s.AddJob("@every 1h", &countingJob{name: "idle"}))

	s.Start()
	jobs := s.Jobs()
	require.Len(t, jobs, 1)
	assert.False(t, jobs[0].NextRun.IsZero())
	s.Stop()
}
