package calculations

import (
	"testing"
	"time"

	"github.com/aristath/hedgeguard/internal/events"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetentionJob_Run(t *testing.T) {
	repo := setupTestRepository(t)
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Save(&Record{ID: "old", Kind: KindRebalance, Input: []byte{0x80}, CreatedAt: now.AddDate(0, 0, -31)}))
	require.NoError(t, repo.Save(&Record{ID: "recent", Kind: KindRebalance, Input: []byte{0x80}, CreatedAt: now.AddDate(0, 0, -1)}))

	bus := events.NewBus(zerolog.Nop())
	var got *events.Event
	bus.Subscribe(events.MaintenanceCompleted, func(e *events.Event) { got = e })

	job := NewRetentionJob(repo, 30, events.NewManager(bus, zerolog.Nop()))
	job.SetLogger(zerolog.Nop())
	job.now = func() time.Time { return now }

	require.NoError(t, job.Run())

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NotNil(t, got)
	assert.Equal(t, "calculation_retention", got.Data["job"])
	assert.Equal(t, float64(1), got.Data["records_deleted"])
}

func TestRetentionJob_Disabled(t *testing.T) {
	repo := setupTestRepository(t)
	require.NoError(t, repo.Save(&Record{ID: "ancient", Kind: KindTailRisk, Input: []byte{0x80}, CreatedAt: time.Unix(0, 0)}))

	job := NewRetentionJob(repo, 0, nil)
	require.NoError(t, job.Run())

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, "calculation_retention", job.Name())
}
