package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/eventlens/eventlens/internal/db"
	"github.com/eventlens/eventlens/internal/logging"
	"github.com/eventlens/eventlens/internal/metrics"
	"github.com/eventlens/eventlens/internal/output"
)

// ingestBatchSize is the number of events written per rate-limited batch
const ingestBatchSize = 500

// ingestRecord is one event in an ingest file
type ingestRecord struct {
	Type       string        `json:"type"`
	OccurredAt time.Time     `json:"occurred_at"`
	Data       db.Attributes `json:"data,omitempty"`
}

//nolint:gochecknoglobals // Cobra commands are designed to be global variables
var (
	ingestTenant string
	ingestRate   float64

	ingestCmd = &cobra.Command{
		Use:   "ingest <file.json>",
		Short: "Bulk-load events from a JSON file",
		Long: `Load events for one tenant from a JSON array of records with "type",
"occurred_at" and an optional "data" document. Records missing
occurred_at are stamped with the current time. Writes happen in
batches, rate limited so a large backfill does not starve concurrent
readers of the database.`,
		Example: `  # Load a day of exported events
  eventlens ingest events.json --tenant 6f1c...

  # Slow backfill, two batches per second
  eventlens ingest big-export.json --tenant 6f1c... --rate 2`,
		Args: cobra.ExactArgs(1),
		RunE: runIngest,
	}
)

//nolint:gochecknoinits // Cobra commands require init() for flag registration
func init() {
	ingestCmd.Flags().StringVar(&ingestTenant, "tenant", "", "Tenant ID to ingest events for (required)")
	ingestCmd.Flags().Float64Var(&ingestRate, "rate", 10, "Maximum write batches per second")
	_ = ingestCmd.MarkFlagRequired("tenant")
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := commandLogger("ingest")
	timer := metrics.StartTimer(ctx, log, "ingest").
		AddField(logging.StandardFields.TenantID, ingestTenant)

	data, err := os.ReadFile(args[0]) //nolint:gosec // Path comes from the CLI argument
	if err != nil {
		timer.StopWithError(err)
		return fmt.Errorf("failed to read input file: %w", err)
	}

	var records []ingestRecord
	if err := json.Unmarshal(data, &records); err != nil {
		timer.StopWithError(err)
		return fmt.Errorf("failed to parse input file: %w", err)
	}
	if len(records) == 0 {
		timer.StopWithError(ErrNoRecords)
		return ErrNoRecords
	}

	database, _, err := openDatabase()
	if err != nil {
		timer.StopWithError(err)
		return err
	}
	defer func() { _ = database.Close() }()

	// The tenant must exist before events are attributed to it
	tenants := db.NewTenantRepository(database.DB())
	if _, err := tenants.GetByID(ctx, ingestTenant); err != nil {
		timer.StopWithError(err)
		return fmt.Errorf("tenant %s: %w", ingestTenant, err)
	}

	now := time.Now().UTC()
	events := make([]*db.Event, 0, len(records))
	for _, record := range records {
		occurredAt := record.OccurredAt
		if occurredAt.IsZero() {
			occurredAt = now
		}
		events = append(events, &db.Event{
			TenantID:   ingestTenant,
			Type:       record.Type,
			OccurredAt: occurredAt.UTC(),
			Data:       record.Data,
		})
	}

	repo := db.NewEventRepository(database.DB())
	limiter := rate.NewLimiter(rate.Limit(ingestRate), 1)

	for start := 0; start < len(events); start += ingestBatchSize {
		if err := limiter.Wait(ctx); err != nil {
			timer.StopWithError(err)
			return err
		}

		end := start + ingestBatchSize
		if end > len(events) {
			end = len(events)
		}
		if err := repo.CreateBulk(ctx, events[start:end]); err != nil {
			timer.StopWithError(err)
			return fmt.Errorf("failed to write events: %w", err)
		}
	}

	timer.AddField(logging.StandardFields.RowCount, len(events)).Stop()
	output.Successf("Ingested %d events for tenant %s", len(events), ingestTenant)
	return nil
}
