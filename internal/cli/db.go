package cli

import (
	"github.com/spf13/cobra"

	"github.com/eventlens/eventlens/internal/db"
	"github.com/eventlens/eventlens/internal/output"
)

//nolint:gochecknoglobals // Cobra commands are designed to be global variables
var (
	dbCmd = &cobra.Command{
		Use:   "db",
		Short: "Manage the event database",
	}

	dbInitCmd = &cobra.Command{
		Use:   "init",
		Short: "Create the database file and migrate the schema",
		RunE:  runDBInit,
	}

	dbStatusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show database path and row counts",
		RunE:  runDBStatus,
	}
)

//nolint:gochecknoinits // Cobra commands require init() for registration
func init() {
	dbCmd.AddCommand(dbInitCmd)
	dbCmd.AddCommand(dbStatusCmd)
}

func runDBInit(_ *cobra.Command, _ []string) error {
	database, cfg, err := openDatabase()
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	output.Successf("Database initialized at %s", cfg.Database.Path)
	return nil
}

// dbStatus is the JSON shape printed by db status
type dbStatus struct {
	Path      string `json:"path"`
	Tenants   int64  `json:"tenants"`
	Events    int64  `json:"events"`
	Summaries int64  `json:"summaries"`
}

func runDBStatus(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	database, cfg, err := openDatabase()
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	status := dbStatus{Path: cfg.Database.Path}

	if err := database.DB().WithContext(ctx).Model(&db.Tenant{}).Count(&status.Tenants).Error; err != nil {
		return err
	}

	events := db.NewEventRepository(database.DB())
	if status.Events, err = events.CountAll(ctx); err != nil {
		return err
	}

	summaries := db.NewSummaryRepository(database.DB())
	if status.Summaries, err = summaries.CountAll(ctx); err != nil {
		return err
	}

	return printJSON(status)
}
