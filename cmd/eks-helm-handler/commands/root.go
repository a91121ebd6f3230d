// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the eks-helm-handler CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "eks-helm-handler",
		Short:         "Manage a Helm release on EKS from CloudFormation custom resources",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(Serve())
	cmd.AddCommand(Invoke())
	cmd.AddCommand(Doctor())
	cmd.AddCommand(Version())

	return cmd
}
