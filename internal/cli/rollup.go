package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/eventlens/eventlens/internal/aggregate"
	"github.com/eventlens/eventlens/internal/db"
	"github.com/eventlens/eventlens/internal/output"
	"github.com/eventlens/eventlens/internal/rollup"
)

//nolint:gochecknoglobals // Cobra commands are designed to be global variables
var (
	rollupPeriod string
	rollupAt     string

	rollupCmd = &cobra.Command{
		Use:   "rollup",
		Short: "Compute and manage pre-aggregated summaries",
	}

	rollupRunCmd = &cobra.Command{
		Use:   "run",
		Short: "Roll up the prior completed period once",
		Long: `Recompute event counts for the prior completed period relative to now
(or --at) and merge them into the summary store. Re-running over the
same window replaces values rather than adding to them, so a rollup is
safe to repeat.`,
		Example: `  # Roll up yesterday
  eventlens rollup run --period day

  # Backfill last month's rollup as if run on the 1st
  eventlens rollup run --period month --at 2025-02-01T00:00:00Z`,
		RunE: runRollupRun,
	}

	rollupVerifyCmd = &cobra.Command{
		Use:   "verify",
		Short: "Diff stored summaries against a fresh recomputation",
		Long: `Recompute the prior completed period without writing anything and
compare the result against the stored summary rows for that window.
A difference means events were ingested into the window after its
rollup ran; re-run the rollup to repair.`,
		RunE: runRollupVerify,
	}

	rollupStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Run the rollup scheduler until interrupted",
		Long: `Run the rollup scheduler in the foreground. Daily rollups fire at
01:00 UTC, weekly rollups on Friday at 01:00 UTC and monthly rollups
on the 1st at 00:00 UTC. The enabled recurrences come from the config
file's rollup section; all three run by default.`,
		RunE: runRollupStart,
	}
)

//nolint:gochecknoinits // Cobra commands require init() for flag registration
func init() {
	rollupRunCmd.Flags().StringVar(&rollupPeriod, "period", string(db.PeriodDay), "Period type: day, week or month")
	rollupRunCmd.Flags().StringVar(&rollupAt, "at", "", "Run as if the current time were this timestamp")
	rollupVerifyCmd.Flags().StringVar(&rollupPeriod, "period", string(db.PeriodDay), "Period type: day, week or month")
	rollupVerifyCmd.Flags().StringVar(&rollupAt, "at", "", "Verify as if the current time were this timestamp")

	rollupCmd.AddCommand(rollupRunCmd)
	rollupCmd.AddCommand(rollupVerifyCmd)
	rollupCmd.AddCommand(rollupStartCmd)
}

// rollupMoment resolves the reference instant for a run or verify
func rollupMoment() (time.Time, error) {
	if rollupAt == "" {
		return time.Now().UTC(), nil
	}
	return parseTimestamp(rollupAt)
}

func runRollupRun(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	log := commandLogger("rollup")

	periodType := db.PeriodType(rollupPeriod)
	if !periodType.Valid() {
		return fmt.Errorf("%w: %q", db.ErrInvalidPeriodType, rollupPeriod)
	}

	now, err := rollupMoment()
	if err != nil {
		return err
	}

	database, _, err := openDatabase()
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	engine := aggregate.NewEngine(database.DB(), log)
	job := rollup.NewJob(engine, db.NewSummaryRepository(database.DB()), log)

	if err := job.Run(ctx, periodType, now); err != nil {
		return err
	}

	window, _ := rollup.ComputeWindow(now, periodType)
	output.Successf("Rolled up %s window starting %s", periodType, window.Start.Format(time.RFC3339))
	return nil
}

func runRollupVerify(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	log := commandLogger("rollup-verify")

	periodType := db.PeriodType(rollupPeriod)
	if !periodType.Valid() {
		return fmt.Errorf("%w: %q", db.ErrInvalidPeriodType, rollupPeriod)
	}

	now, err := rollupMoment()
	if err != nil {
		return err
	}

	database, _, err := openDatabase()
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	engine := aggregate.NewEngine(database.DB(), log)
	summaries := db.NewSummaryRepository(database.DB())
	job := rollup.NewJob(engine, summaries, log)

	window, fresh, err := job.Compute(ctx, periodType, now)
	if err != nil {
		return err
	}

	stored, err := summaries.ListForWindow(ctx, periodType, window.Start)
	if err != nil {
		return err
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(renderSummaries(stored)),
		B:        difflib.SplitLines(renderSummaries(fresh)),
		FromFile: "stored",
		ToFile:   "recomputed",
		Context:  3,
	})
	if err != nil {
		return fmt.Errorf("failed to diff summaries: %w", err)
	}

	if diff == "" {
		output.Successf("Stored summaries match recomputation for %s window starting %s",
			periodType, window.Start.Format(time.RFC3339))
		return nil
	}

	output.Plain(strings.TrimRight(diff, "\n"))
	return fmt.Errorf("%w: %s window starting %s",
		ErrSummariesDiverged, periodType, window.Start.Format(time.RFC3339))
}

// renderSummaries produces one canonical line per summary row so two
// row sets diff cleanly regardless of storage order
func renderSummaries(rows []db.EventSummary) string {
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("%s %s %d", row.TenantID, row.Metric, row.Value))
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n") + "\n"
}

func runRollupStart(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	log := commandLogger("rollup-start")

	database, cfg, err := openDatabase()
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	if !cfg.Rollup.IsEnabled() {
		output.Warn("Rollup is disabled in the configuration, nothing to do")
		return nil
	}

	engine := aggregate.NewEngine(database.DB(), log)
	job := rollup.NewJob(engine, db.NewSummaryRepository(database.DB()), log)
	scheduler := rollup.NewScheduler(job, cfg.PeriodTypes(), log)

	output.Infof("Rollup scheduler running for periods: %s", strings.Join(cfg.Rollup.Periods, ", "))
	err = scheduler.Start(ctx)
	if err != nil && ctx.Err() != nil {
		// A canceled context is a clean shutdown, not a failure
		return nil
	}
	return err
}
