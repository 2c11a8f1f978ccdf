package cli

import (
	"github.com/spf13/cobra"

	"github.com/eventlens/eventlens/internal/output"
	"github.com/eventlens/eventlens/internal/version"
)

//nolint:gochecknoglobals // Cobra commands are designed to be global variables
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print detailed version information including build details.`,
	RunE:  runVersion,
}

func runVersion(_ *cobra.Command, _ []string) error {
	output.Plainf("eventlens %s", version.Get())
	output.Plainf("  commit: %s", version.Commit())
	output.Plainf("  built:  %s", version.BuildDate())
	return nil
}
