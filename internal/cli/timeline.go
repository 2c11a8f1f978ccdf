package cli

import (
	"github.com/spf13/cobra"

	"github.com/eventlens/eventlens/internal/aggregate"
)

//nolint:gochecknoglobals // Cobra commands are designed to be global variables
var (
	timelineTenant   string
	timelineType     string
	timelineFrom     string
	timelineTo       string
	timelineInterval string
	timelineFilters  []string

	timelineCmd = &cobra.Command{
		Use:   "timeline",
		Short: "Count events bucketed over time",
		Long: `Count events for one tenant bucketed by calendar day, week (Monday
start) or month, ordered oldest bucket first. Buckets with no events
are omitted. The same filters as count apply.`,
		Example: `  # Daily signups in January
  eventlens timeline --tenant 6f1c... --type user.signup \
    --from 2025-01-01 --to 2025-01-31T23:59:59

  # Weekly activity across all event types
  eventlens timeline --tenant 6f1c... --interval week`,
		RunE: runTimeline,
	}
)

//nolint:gochecknoinits // Cobra commands require init() for flag registration
func init() {
	timelineCmd.Flags().StringVar(&timelineTenant, "tenant", "", "Tenant ID to count events for (required)")
	timelineCmd.Flags().StringVar(&timelineType, "type", "", "Only count events of this exact type")
	timelineCmd.Flags().StringVar(&timelineFrom, "from", "", "Range start (inclusive, requires --to)")
	timelineCmd.Flags().StringVar(&timelineTo, "to", "", "Range end (inclusive, requires --from)")
	timelineCmd.Flags().StringVar(&timelineInterval, "interval", "", "Bucket size: day, week or month (default day)")
	timelineCmd.Flags().StringArrayVar(&timelineFilters, "filter", nil, "Attribute filter key=value (repeatable)")
	_ = timelineCmd.MarkFlagRequired("tenant")
}

func runTimeline(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	log := commandLogger("timeline")

	params, err := buildFilterParams(timelineType, timelineFrom, timelineTo, timelineInterval, timelineFilters)
	if err != nil {
		return err
	}

	database, _, err := openDatabase()
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	engine := aggregate.NewEngine(database.DB(), log)

	buckets, err := engine.CountTimeline(ctx, timelineTenant, params)
	if err != nil {
		return err
	}
	return printJSON(buckets)
}
