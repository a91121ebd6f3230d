package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/eks-helm-handler/cmd/eks-helm-handler/handlers"
)

// Invoke returns the command that handles a single event from a file.
//
// Required flags:
//
//	--event, -e: Path to a CloudFormation custom-resource event (JSON or YAML)
//
// Optional flags:
//
//	--print: Write the response to stdout instead of sending it
func Invoke() *cobra.Command {
	var eventPath string
	var printOnly bool

	cmd := &cobra.Command{
		Use:   "invoke",
		Short: "Handle one custom-resource event locally",
		Long: `Handle one CloudFormation custom-resource event outside Lambda.

The event runs through the same steps as in Lambda and drives the local
aws, kubectl and helm binaries. The response is sent to the event's
ResponseURL, or printed when --print is set or the event has none.

Examples:
  # Install the chart described by an event file
  eks-helm-handler invoke --event create.yaml --print

  # Replay a captured event and answer CloudFormation
  eks-helm-handler invoke -e event.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Invoke(cmd.Context(), eventPath, printOnly, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&eventPath, "event", "e", "", "Path to the event file (JSON or YAML)")
	cmd.Flags().BoolVar(&printOnly, "print", false, "Print the response instead of sending it")
	_ = cmd.MarkFlagRequired("event")

	return cmd
}
