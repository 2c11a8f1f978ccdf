package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return ts
}

func TestPeriodTypeValid(t *testing.T) {
	assert.True(t, PeriodDay.Valid())
	assert.True(t, PeriodWeek.Valid())
	assert.True(t, PeriodMonth.Valid())
	assert.False(t, PeriodType("hour").Valid())
	assert.False(t, PeriodType("").Valid())
	assert.False(t, PeriodType("Day").Valid())
}

func TestAttributesValue(t *testing.T) {
	t.Run("marshals to JSON", func(t *testing.T) {
		attrs := Attributes{"plan": "premium", "seats": float64(5)}

		value, err := attrs.Value()
		require.NoError(t, err)

		data, ok := value.([]byte)
		require.True(t, ok)
		assert.JSONEq(t, `{"plan":"premium","seats":5}`, string(data))
	})

	t.Run("nil map stores NULL", func(t *testing.T) {
		var attrs Attributes

		value, err := attrs.Value()
		require.NoError(t, err)
		assert.Nil(t, value)
	})
}

func TestAttributesScan(t *testing.T) {
	t.Run("scans from bytes", func(t *testing.T) {
		var attrs Attributes
		require.NoError(t, attrs.Scan([]byte(`{"plan":"free"}`)))
		assert.Equal(t, Attributes{"plan": "free"}, attrs)
	})

	t.Run("scans from string", func(t *testing.T) {
		var attrs Attributes
		require.NoError(t, attrs.Scan(`{"amount":199.99}`))
		assert.Equal(t, Attributes{"amount": 199.99}, attrs)
	})

	t.Run("scans NULL to nil", func(t *testing.T) {
		attrs := Attributes{"stale": true}
		require.NoError(t, attrs.Scan(nil))
		assert.Nil(t, attrs)
	})

	t.Run("rejects unsupported types", func(t *testing.T) {
		var attrs Attributes
		err := attrs.Scan(42)
		assert.ErrorIs(t, err, ErrInvalidType)
	})
}

func TestAttributesRoundTrip(t *testing.T) {
	gdb := TestDB(t)

	event := &Event{
		TenantID:   "tenant-1",
		Type:       "user.signup",
		Data:       Attributes{"plan": "premium", "amount": 42.5, "trial": true},
		OccurredAt: mustTime(t, "2025-01-01T09:00:00Z"),
	}
	require.NoError(t, gdb.Create(event).Error)

	var loaded Event
	require.NoError(t, gdb.First(&loaded, event.ID).Error)

	assert.Equal(t, "premium", loaded.Data["plan"])
	assert.Equal(t, 42.5, loaded.Data["amount"])
	assert.Equal(t, true, loaded.Data["trial"])
}
