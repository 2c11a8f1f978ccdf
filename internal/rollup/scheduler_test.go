package rollup

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventlens/eventlens/internal/db"
)

func TestSchedulerStopsOnCancel(t *testing.T) {
	job, _, _, _ := testJob(t)
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	scheduler := NewScheduler(job, []db.PeriodType{db.PeriodDay, db.PeriodWeek, db.PeriodMonth},
		logrus.NewEntry(logger))

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- scheduler.Start(ctx) }()

	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop after cancellation")
	}
}

func TestSchedulerFiresJob(t *testing.T) {
	job, _, _, summaries := testJob(t)
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	scheduler := NewScheduler(job, []db.PeriodType{db.PeriodDay}, logrus.NewEntry(logger))

	// Freeze the clock a moment before the daily fire time so the timer
	// expires almost immediately; the rollup then covers Jan 2
	scheduler.now = func() time.Time {
		return time.Date(2025, time.January, 3, 0, 59, 59, int(950 * time.Millisecond), time.UTC)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- scheduler.Start(ctx) }()

	require.Eventually(t, func() bool {
		total, err := summaries.CountAll(context.Background())
		return err == nil && total >= 2
	}, 5*time.Second, 10*time.Millisecond, "scheduled rollup never wrote summaries")

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop after cancellation")
	}
}
