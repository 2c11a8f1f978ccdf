package cli

import (
	"github.com/spf13/cobra"

	"github.com/eventlens/eventlens/internal/db"
)

//nolint:gochecknoglobals // Cobra commands are designed to be global variables
var (
	tenantCmd = &cobra.Command{
		Use:   "tenant",
		Short: "Manage tenants",
	}

	tenantCreateCmd = &cobra.Command{
		Use:   "create <name>",
		Short: "Register a new tenant",
		Long: `Register a tenant with a generated ID and API key. The API key is
printed once here; store it somewhere safe.`,
		Args: cobra.ExactArgs(1),
		RunE: runTenantCreate,
	}

	tenantListCmd = &cobra.Command{
		Use:   "list",
		Short: "List registered tenants",
		RunE:  runTenantList,
	}
)

//nolint:gochecknoinits // Cobra commands require init() for registration
func init() {
	tenantCmd.AddCommand(tenantCreateCmd)
	tenantCmd.AddCommand(tenantListCmd)
}

func runTenantCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	database, _, err := openDatabase()
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	tenants := db.NewTenantRepository(database.DB())
	tenant, err := tenants.Create(ctx, args[0])
	if err != nil {
		return err
	}

	return printJSON(tenant)
}

func runTenantList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	database, _, err := openDatabase()
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	tenants := db.NewTenantRepository(database.DB())
	list, err := tenants.List(ctx)
	if err != nil {
		return err
	}

	// API keys stay out of the listing; create is the only place
	// that prints one
	for i := range list {
		list[i].APIKey = ""
	}
	return printJSON(list)
}
