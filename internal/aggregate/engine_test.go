package aggregate

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventlens/eventlens/internal/db"
	"github.com/eventlens/eventlens/internal/filter"
)

func testEngine(t *testing.T) (*Engine, *db.SeedData) {
	t.Helper()

	gdb, seed := db.TestDBWithSeed(t)
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewEngine(gdb, logrus.NewEntry(logger)), seed
}

func TestCountTotal(t *testing.T) {
	engine, seed := testEngine(t)
	ctx := context.Background()

	t.Run("no filters counts everything for the tenant", func(t *testing.T) {
		total, err := engine.CountTotal(ctx, seed.Tenant.ID, map[string]string{})
		require.NoError(t, err)
		assert.Equal(t, int64(6), total)
	})

	t.Run("tenants never see each other's events", func(t *testing.T) {
		total, err := engine.CountTotal(ctx, seed.Other.ID, map[string]string{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})

	t.Run("unknown tenant counts zero", func(t *testing.T) {
		total, err := engine.CountTotal(ctx, "nobody", map[string]string{})
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
	})

	t.Run("type filter narrows to one event type", func(t *testing.T) {
		total, err := engine.CountTotal(ctx, seed.Tenant.ID, map[string]string{
			"type": "user.signup",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})

	t.Run("date range is inclusive on both ends", func(t *testing.T) {
		// Exactly the first signup's timestamp on both bounds
		total, err := engine.CountTotal(ctx, seed.Tenant.ID, map[string]string{
			"from": "2025-01-01T09:00:00Z",
			"to":   "2025-01-01T09:00:00Z",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("date range narrows by occurred_at", func(t *testing.T) {
		total, err := engine.CountTotal(ctx, seed.Tenant.ID, map[string]string{
			"from": "2025-01-02",
			"to":   "2025-01-04T23:59:59",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
	})

	t.Run("partial date range applies no date filter", func(t *testing.T) {
		total, err := engine.CountTotal(ctx, seed.Tenant.ID, map[string]string{
			"from": "2025-01-02",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(6), total)
	})

	t.Run("attribute equality on a string value", func(t *testing.T) {
		total, err := engine.CountTotal(ctx, seed.Tenant.ID, map[string]string{
			"data.plan": "premium",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("attribute equality matches numeric values as text", func(t *testing.T) {
		total, err := engine.CountTotal(ctx, seed.Tenant.ID, map[string]string{
			"data.amount": "199.99",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("absent attribute matches nothing", func(t *testing.T) {
		total, err := engine.CountTotal(ctx, seed.Tenant.ID, map[string]string{
			"data.missing": "anything",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
	})

	t.Run("numeric comparison operators", func(t *testing.T) {
		tests := []struct {
			value string
			want  int64
		}{
			{">=100", 1},
			{">=49.5", 2},
			{"<50", 1},
			{">199.99", 0},
			{"<=199.99", 2},
		}

		for _, tc := range tests {
			total, err := engine.CountTotal(ctx, seed.Tenant.ID, map[string]string{
				"data.amount": tc.value,
			})
			require.NoError(t, err, "value %q", tc.value)
			assert.Equal(t, tc.want, total, "value %q", tc.value)
		}
	})

	t.Run("filters combine conjunctively", func(t *testing.T) {
		total, err := engine.CountTotal(ctx, seed.Tenant.ID, map[string]string{
			"type":        "purchase.completed",
			"from":        "2025-01-01",
			"to":          "2025-01-03",
			"data.amount": ">=100",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("validation failures surface before querying", func(t *testing.T) {
		_, err := engine.CountTotal(ctx, seed.Tenant.ID, map[string]string{
			"from": "bad",
			"to":   "2025-01-31",
		})
		require.Error(t, err)
		assert.True(t, filter.IsValidation(err))
	})
}

func TestCountByType(t *testing.T) {
	engine, seed := testEngine(t)
	ctx := context.Background()

	t.Run("groups all events with stable tie ordering", func(t *testing.T) {
		groups, err := engine.CountByType(ctx, seed.Tenant.ID, map[string]string{})
		require.NoError(t, err)

		// All three types tie at 2, so ordering falls back to name
		require.Len(t, groups, 3)
		assert.Equal(t, TypeCount{Type: "purchase.completed", Total: 2}, groups[0])
		assert.Equal(t, TypeCount{Type: "user.login", Total: 2}, groups[1])
		assert.Equal(t, TypeCount{Type: "user.signup", Total: 2}, groups[2])
	})

	t.Run("larger groups come first", func(t *testing.T) {
		groups, err := engine.CountByType(ctx, seed.Tenant.ID, map[string]string{
			"from": "2025-01-01",
			"to":   "2025-01-02T23:59:59",
		})
		require.NoError(t, err)

		// Jan 1-2: signup x1, login x1, purchase x1
		require.Len(t, groups, 3)
		for _, group := range groups {
			assert.Equal(t, int64(1), group.Total)
		}
	})

	t.Run("empty result is an empty slice, not an error", func(t *testing.T) {
		groups, err := engine.CountByType(ctx, seed.Tenant.ID, map[string]string{
			"type": "never.happened",
		})
		require.NoError(t, err)
		assert.Empty(t, groups)
	})
}

func TestCountTimeline(t *testing.T) {
	engine, seed := testEngine(t)
	ctx := context.Background()

	day := func(d int) time.Time {
		return time.Date(2025, time.January, d, 0, 0, 0, 0, time.UTC)
	}

	t.Run("buckets by day by default, oldest first", func(t *testing.T) {
		buckets, err := engine.CountTimeline(ctx, seed.Tenant.ID, map[string]string{})
		require.NoError(t, err)

		assert.Equal(t, []TimeBucket{
			{Bucket: day(1), Total: 1},
			{Bucket: day(2), Total: 2},
			{Bucket: day(3), Total: 1},
			{Bucket: day(4), Total: 1},
			{Bucket: day(5), Total: 1},
		}, buckets)
	})

	t.Run("empty days are omitted", func(t *testing.T) {
		buckets, err := engine.CountTimeline(ctx, seed.Tenant.ID, map[string]string{
			"type": "user.signup",
		})
		require.NoError(t, err)

		assert.Equal(t, []TimeBucket{
			{Bucket: day(1), Total: 1},
			{Bucket: day(3), Total: 1},
		}, buckets)
	})

	t.Run("week interval buckets to Monday", func(t *testing.T) {
		buckets, err := engine.CountTimeline(ctx, seed.Tenant.ID, map[string]string{
			"interval": "week",
		})
		require.NoError(t, err)

		// Jan 1-5 2025 all fall in the week starting Monday Dec 30 2024
		assert.Equal(t, []TimeBucket{
			{Bucket: time.Date(2024, time.December, 30, 0, 0, 0, 0, time.UTC), Total: 6},
		}, buckets)
	})

	t.Run("month interval buckets to the first", func(t *testing.T) {
		buckets, err := engine.CountTimeline(ctx, seed.Tenant.ID, map[string]string{
			"interval": "month",
		})
		require.NoError(t, err)

		assert.Equal(t, []TimeBucket{
			{Bucket: day(1), Total: 6},
		}, buckets)
	})

	t.Run("invalid interval is rejected", func(t *testing.T) {
		_, err := engine.CountTimeline(ctx, seed.Tenant.ID, map[string]string{
			"interval": "hour",
		})
		assert.ErrorIs(t, err, filter.ErrInvalidInterval)
	})
}

func TestCountWindowByTenantType(t *testing.T) {
	engine, seed := testEngine(t)
	ctx := context.Background()

	t.Run("groups every tenant inside the window", func(t *testing.T) {
		groups, err := engine.CountWindowByTenantType(ctx,
			time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, time.January, 31, 23, 59, 59, 0, time.UTC))
		require.NoError(t, err)

		assert.Equal(t, []WindowGroup{
			{TenantID: seed.Tenant.ID, Type: "purchase.completed", Total: 2},
			{TenantID: seed.Tenant.ID, Type: "user.login", Total: 2},
			{TenantID: seed.Tenant.ID, Type: "user.signup", Total: 2},
			{TenantID: seed.Other.ID, Type: "purchase.completed", Total: 1},
			{TenantID: seed.Other.ID, Type: "user.signup", Total: 1},
		}, groups)
	})

	t.Run("window bounds are inclusive", func(t *testing.T) {
		groups, err := engine.CountWindowByTenantType(ctx,
			time.Date(2025, time.January, 1, 9, 0, 0, 0, time.UTC),
			time.Date(2025, time.January, 1, 9, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		assert.Equal(t, []WindowGroup{
			{TenantID: seed.Tenant.ID, Type: "user.signup", Total: 1},
		}, groups)
	})

	t.Run("empty window groups nothing", func(t *testing.T) {
		groups, err := engine.CountWindowByTenantType(ctx,
			time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Empty(t, groups)
	})
}

func TestCompileRejectsUnknownOperator(t *testing.T) {
	engine, _ := testEngine(t)

	_, err := engine.compile(context.Background(), []filter.Condition{
		filter.AttributeCompare{Key: "amount", Op: filter.CompareOp("!="), Value: 1},
	})
	assert.ErrorIs(t, err, ErrUnknownOperator)
}

func TestTruncateTo(t *testing.T) {
	stamp := time.Date(2025, time.January, 15, 13, 45, 30, 0, time.UTC) // a Wednesday

	tests := []struct {
		name     string
		interval filter.Interval
		want     time.Time
	}{
		{"day", filter.IntervalDay, time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)},
		{"week truncates to Monday", filter.IntervalWeek, time.Date(2025, time.January, 13, 0, 0, 0, 0, time.UTC)},
		{"month", filter.IntervalMonth, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TruncateTo(stamp, tc.interval))
		})
	}

	t.Run("Monday truncates to itself", func(t *testing.T) {
		monday := time.Date(2025, time.January, 13, 23, 0, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2025, time.January, 13, 0, 0, 0, 0, time.UTC),
			TruncateTo(monday, filter.IntervalWeek))
	})

	t.Run("Sunday truncates back six days", func(t *testing.T) {
		sunday := time.Date(2025, time.January, 19, 1, 0, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2025, time.January, 13, 0, 0, 0, 0, time.UTC),
			TruncateTo(sunday, filter.IntervalWeek))
	})
}

// Guard against the seed drifting and silently weakening the tests above
func TestSeedShape(t *testing.T) {
	gdb, seed := db.TestDBWithSeed(t)

	var total int64
	require.NoError(t, gdb.Model(&db.Event{}).Count(&total).Error)
	assert.Equal(t, int64(8), total)
	assert.Len(t, seed.Events, 6)
}
