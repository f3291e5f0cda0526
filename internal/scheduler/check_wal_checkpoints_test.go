package scheduler

import (
	"testing"

	"github.com/aristath/hedgeguard/internal/events"
	testingpkg "github.com/aristath/hedgeguard/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckWALCheckpointsJob_Name(t *testing.T) {
	job := NewCheckWALCheckpointsJob(nil)
	assert.Equal(t, "check_wal_checkpoints", job.Name())
}

func TestCheckWALCheckpointsJob_Run_NoDatabases(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	job := NewCheckWALCheckpointsJob(nil, nil)
	job.SetLogger(log)

	err := job.Run()
	assert.NoError(t, err) // Should handle nil databases gracefully
}

func TestCheckWALCheckpointsJob_Run(t *testing.T) {
	db := testingpkg.NewTestDB(t, "calculations")

	recorder := testingpkg.NewMockEventEmitter()
	job := NewCheckWALCheckpointsJob(recorder, db)

	require.NoError(t, job.Run())
	require.Len(t, recorder.Emitted(), 1)
	data, ok := recorder.Emitted()[0].(*events.MaintenanceCompletedData)
	require.True(t, ok)
	assert.Equal(t, "check_wal_checkpoints", data.Job)
}
