package rollup

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/eventlens/eventlens/internal/aggregate"
	"github.com/eventlens/eventlens/internal/db"
	"github.com/eventlens/eventlens/internal/logging"
	"github.com/eventlens/eventlens/internal/metrics"
)

// Job recomputes one completed period's event counts and merges them
// into the summary store. A run is all-or-nothing: if the window scan
// fails nothing is written, and the error is surfaced to the caller so
// the scheduler's next tick retries naturally. There is no internal
// retry loop.
type Job struct {
	engine    *aggregate.Engine
	summaries db.SummaryRepository
	log       *logrus.Entry
}

// NewJob creates a rollup job over the given engine and summary store
func NewJob(engine *aggregate.Engine, summaries db.SummaryRepository, log *logrus.Entry) *Job {
	return &Job{
		engine:    engine,
		summaries: summaries,
		log:       log.WithField(logging.StandardFields.Component, logging.ComponentNames.Rollup),
	}
}

// Compute scans the prior completed period for the given recurrence
// and returns the summary rows a run would store, without writing
// anything. Run uses it for the real pass; the verify command uses it
// to diff stored state against a fresh recomputation.
func (j *Job) Compute(ctx context.Context, period db.PeriodType, now time.Time) (Window, []db.EventSummary, error) {
	window, err := ComputeWindow(now, period)
	if err != nil {
		return Window{}, nil, err
	}

	groups, err := j.engine.CountWindowByTenantType(ctx, window.Start, window.End)
	if err != nil {
		return window, nil, fmt.Errorf("rollup %s window scan: %w", period, err)
	}

	rows := make([]db.EventSummary, 0, len(groups))
	for _, group := range groups {
		rows = append(rows, db.EventSummary{
			TenantID:    group.TenantID,
			PeriodType:  period,
			PeriodStart: window.Start,
			Metric:      group.Type,
			Value:       group.Total,
		})
	}
	return window, rows, nil
}

// Run recomputes the prior completed period relative to now and
// upserts one summary row per (tenant, type) group found. A window
// with no events writes no rows at all; that is not an error.
func (j *Job) Run(ctx context.Context, period db.PeriodType, now time.Time) error {
	timer := metrics.StartTimer(ctx, j.log, "rollup").
		AddField(logging.StandardFields.Period, string(period))

	window, rows, err := j.Compute(ctx, period, now)
	if err != nil {
		timer.StopWithError(err)
		return err
	}
	timer.AddField(logging.StandardFields.WindowStart, window.Start.Format(time.RFC3339)).
		AddField(logging.StandardFields.WindowEnd, window.End.Format(time.RFC3339)).
		AddField(logging.StandardFields.GroupCount, len(rows))

	if len(rows) == 0 {
		j.log.WithFields(logrus.Fields{
			logging.StandardFields.Period:      string(period),
			logging.StandardFields.WindowStart: window.Start.Format(time.RFC3339),
		}).Debug("No events in rollup window, nothing to write")
		timer.Stop()
		return nil
	}

	if err := j.summaries.UpsertBatch(ctx, rows); err != nil {
		err = fmt.Errorf("rollup %s summary upsert: %w", period, err)
		timer.StopWithError(err)
		return err
	}

	j.log.WithFields(logrus.Fields{
		logging.StandardFields.Period:      string(period),
		logging.StandardFields.WindowStart: window.Start.Format(time.RFC3339),
		logging.StandardFields.RowCount:    len(rows),
	}).Info("Rollup summaries calculated successfully")
	timer.Stop()
	return nil
}
