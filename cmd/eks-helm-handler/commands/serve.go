package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/eks-helm-handler/cmd/eks-helm-handler/handlers"
)

// Serve returns the command that runs the Lambda event loop.
//
// Configuration is read from the environment, see doctor for the effective
// values. This is the default when the binary starts inside Lambda without
// arguments.
func Serve() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve custom-resource events from the Lambda runtime",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Serve(cmd.Context())
		},
	}
}
