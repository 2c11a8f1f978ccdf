package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func summaryFixture(metric string, value int64) EventSummary {
	return EventSummary{
		TenantID:    "tenant-1",
		PeriodType:  PeriodDay,
		PeriodStart: time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC),
		Metric:      metric,
		Value:       value,
	}
}

func TestSummaryRepositoryUpsertBatch(t *testing.T) {
	gdb := TestDB(t)
	repo := NewSummaryRepository(gdb)
	ctx := context.Background()

	t.Run("inserts new rows", func(t *testing.T) {
		rows := []EventSummary{
			summaryFixture("user.signup", 3),
			summaryFixture("user.login", 7),
		}
		require.NoError(t, repo.UpsertBatch(ctx, rows))

		total, err := repo.CountAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})

	t.Run("same key replaces the value", func(t *testing.T) {
		require.NoError(t, repo.UpsertBatch(ctx, []EventSummary{summaryFixture("user.signup", 5)}))

		value, err := repo.GetValue(ctx, "tenant-1", "user.signup", PeriodDay,
			time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, int64(5), value)

		// Replaced, not duplicated
		total, err := repo.CountAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})

	t.Run("unchanged value leaves the row untouched", func(t *testing.T) {
		before, err := repo.Get(ctx, "tenant-1", "user.login", PeriodDay,
			time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		require.NoError(t, repo.UpsertBatch(ctx, []EventSummary{summaryFixture("user.login", 7)}))

		after, err := repo.Get(ctx, "tenant-1", "user.login", PeriodDay,
			time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		assert.Equal(t, before.ID, after.ID)
		assert.Equal(t, before.Value, after.Value)
		assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		assert.NoError(t, repo.UpsertBatch(ctx, nil))
	})

	t.Run("rejects rows without a tenant", func(t *testing.T) {
		row := summaryFixture("x", 1)
		row.TenantID = ""
		assert.ErrorIs(t, repo.UpsertBatch(ctx, []EventSummary{row}), ErrEmptyTenantID)
	})

	t.Run("rejects rows with a bad period type", func(t *testing.T) {
		row := summaryFixture("x", 1)
		row.PeriodType = "hour"
		assert.ErrorIs(t, repo.UpsertBatch(ctx, []EventSummary{row}), ErrInvalidPeriodType)
	})
}

func TestSummaryRepositoryGet(t *testing.T) {
	gdb := TestDB(t)
	repo := NewSummaryRepository(gdb)
	ctx := context.Background()
	start := time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.UpsertBatch(ctx, []EventSummary{summaryFixture("user.signup", 3)}))

	t.Run("returns the stored row", func(t *testing.T) {
		row, err := repo.Get(ctx, "tenant-1", "user.signup", PeriodDay, start)
		require.NoError(t, err)
		assert.Equal(t, int64(3), row.Value)
	})

	t.Run("missing key is ErrRecordNotFound", func(t *testing.T) {
		_, err := repo.Get(ctx, "tenant-1", "user.login", PeriodDay, start)
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})

	t.Run("GetValue defaults a missing key to zero", func(t *testing.T) {
		value, err := repo.GetValue(ctx, "tenant-1", "never.counted", PeriodDay, start)
		require.NoError(t, err)
		assert.Equal(t, int64(0), value)
	})

	t.Run("key is exact on every component", func(t *testing.T) {
		// Same tenant, metric and start under a different period type
		value, err := repo.GetValue(ctx, "tenant-1", "user.signup", PeriodWeek, start)
		require.NoError(t, err)
		assert.Equal(t, int64(0), value)
	})
}

func TestSummaryRepositoryListForWindow(t *testing.T) {
	gdb := TestDB(t)
	repo := NewSummaryRepository(gdb)
	ctx := context.Background()
	start := time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC)

	rows := []EventSummary{
		{TenantID: "tenant-b", PeriodType: PeriodDay, PeriodStart: start, Metric: "user.signup", Value: 1},
		{TenantID: "tenant-a", PeriodType: PeriodDay, PeriodStart: start, Metric: "user.signup", Value: 2},
		{TenantID: "tenant-a", PeriodType: PeriodDay, PeriodStart: start, Metric: "user.login", Value: 3},
		{TenantID: "tenant-a", PeriodType: PeriodWeek, PeriodStart: start, Metric: "user.login", Value: 4},
	}
	require.NoError(t, repo.UpsertBatch(ctx, rows))

	listed, err := repo.ListForWindow(ctx, PeriodDay, start)
	require.NoError(t, err)

	require.Len(t, listed, 3)
	assert.Equal(t, "tenant-a", listed[0].TenantID)
	assert.Equal(t, "user.login", listed[0].Metric)
	assert.Equal(t, "user.signup", listed[1].Metric)
	assert.Equal(t, "tenant-b", listed[2].TenantID)
}
