package cli

import (
	"github.com/spf13/cobra"

	"github.com/eventlens/eventlens/internal/aggregate"
)

//nolint:gochecknoglobals // Cobra commands are designed to be global variables
var (
	countTenant  string
	countType    string
	countFrom    string
	countTo      string
	countByType  bool
	countFilters []string

	countCmd = &cobra.Command{
		Use:   "count",
		Short: "Count events matching a set of filters",
		Long: `Count events for one tenant, optionally narrowed by event type, an
inclusive occurred-at range, and attribute filters on the event's data
document. With --by-type the count is grouped by event type, most
frequent first.

Attribute filter values may start with >=, <=, < or > followed by a
number to compare numerically; any other value matches exactly.`,
		Example: `  # Total events for a tenant
  eventlens count --tenant 6f1c...

  # Signups from premium-plan users in January
  eventlens count --tenant 6f1c... --type user.signup \
    --from 2025-01-01 --to 2025-01-31T23:59:59 --filter plan=premium

  # Purchases of at least 100, grouped by type
  eventlens count --tenant 6f1c... --by-type --filter "amount=>=100"`,
		RunE: runCount,
	}
)

//nolint:gochecknoinits // Cobra commands require init() for flag registration
func init() {
	countCmd.Flags().StringVar(&countTenant, "tenant", "", "Tenant ID to count events for (required)")
	countCmd.Flags().StringVar(&countType, "type", "", "Only count events of this exact type")
	countCmd.Flags().StringVar(&countFrom, "from", "", "Range start (inclusive, requires --to)")
	countCmd.Flags().StringVar(&countTo, "to", "", "Range end (inclusive, requires --from)")
	countCmd.Flags().BoolVar(&countByType, "by-type", false, "Group the count by event type")
	countCmd.Flags().StringArrayVar(&countFilters, "filter", nil, "Attribute filter key=value (repeatable)")
	_ = countCmd.MarkFlagRequired("tenant")
}

func runCount(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	log := commandLogger("count")

	params, err := buildFilterParams(countType, countFrom, countTo, "", countFilters)
	if err != nil {
		return err
	}

	database, _, err := openDatabase()
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	engine := aggregate.NewEngine(database.DB(), log)

	if countByType {
		groups, err := engine.CountByType(ctx, countTenant, params)
		if err != nil {
			return err
		}
		return printJSON(groups)
	}

	total, err := engine.CountTotal(ctx, countTenant, params)
	if err != nil {
		return err
	}
	return printJSON(struct {
		Total int64 `json:"total"`
	}{Total: total})
}
