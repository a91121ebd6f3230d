package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/eks-helm-handler/cmd/eks-helm-handler/handlers"
)

// Doctor returns the command for diagnosing the runtime environment.
//
// Optional flags:
//
//	--json: Output in JSON format
func Doctor() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check required tools and show the effective configuration",
		Long: `Check that aws, kubectl and helm are installed and show the
configuration the handler would run with.

Exits non-zero when a required tool is missing or the configuration is invalid.

Examples:
  # Check the environment
  eks-helm-handler doctor

  # Machine-readable output
  eks-helm-handler doctor --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Doctor(cmd.Context(), jsonOutput, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}
