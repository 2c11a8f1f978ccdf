package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eventlens/eventlens/internal/db"
)

//nolint:gochecknoglobals // Cobra commands are designed to be global variables
var (
	summaryTenant string
	summaryMetric string
	summaryPeriod string
	summaryStart  string

	summaryCmd = &cobra.Command{
		Use:   "summary",
		Short: "Look up a pre-aggregated summary value",
		Long: `Look up the stored rollup count for one tenant, metric (event type),
period type and period start. A key with no stored row reports zero;
absence of a summary is a count of zero, not an error.`,
		Example: `  # Signups rolled up for the day starting 2025-01-14
  eventlens summary --tenant 6f1c... --metric user.signup \
    --period day --start 2025-01-14`,
		RunE: runSummary,
	}
)

//nolint:gochecknoinits // Cobra commands require init() for flag registration
func init() {
	summaryCmd.Flags().StringVar(&summaryTenant, "tenant", "", "Tenant ID (required)")
	summaryCmd.Flags().StringVar(&summaryMetric, "metric", "", "Metric name, the event type (required)")
	summaryCmd.Flags().StringVar(&summaryPeriod, "period", string(db.PeriodDay), "Period type: day, week or month")
	summaryCmd.Flags().StringVar(&summaryStart, "start", "", "Period start timestamp (required)")
	_ = summaryCmd.MarkFlagRequired("tenant")
	_ = summaryCmd.MarkFlagRequired("metric")
	_ = summaryCmd.MarkFlagRequired("start")
}

func runSummary(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	periodType := db.PeriodType(summaryPeriod)
	if !periodType.Valid() {
		return fmt.Errorf("%w: %q", db.ErrInvalidPeriodType, summaryPeriod)
	}

	periodStart, err := parseTimestamp(summaryStart)
	if err != nil {
		return err
	}

	database, _, err := openDatabase()
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	summaries := db.NewSummaryRepository(database.DB())
	value, err := summaries.GetValue(ctx, summaryTenant, summaryMetric, periodType, periodStart)
	if err != nil {
		return err
	}

	return printJSON(struct {
		Value int64 `json:"value"`
	}{Value: value})
}
