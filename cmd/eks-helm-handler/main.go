// Package main is the entry point for eks-helm-handler.
//
// eks-helm-handler is a CloudFormation custom-resource handler that installs,
// upgrades or removes a Helm chart release on an EKS cluster. It runs as an
// AWS Lambda function and drives the aws, kubectl and helm CLIs.
//
// Commands: serve, invoke, doctor, version.
//
// Inside Lambda the binary is started without arguments and serves events.
// For detailed usage information, run:
//
//	eks-helm-handler --help
package main

import (
	"fmt"
	"os"

	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/imamik/eks-helm-handler/cmd/eks-helm-handler/commands"
	"github.com/imamik/eks-helm-handler/internal/config"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	opts := zap.Options{
		Development: config.DebugEnabled(),
	}
	log.SetLogger(zap.New(zap.UseFlagOptions(&opts)))

	commands.SetVersionInfo(version, commit, date)

	root := commands.Root()
	if len(os.Args) == 1 && os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" {
		root.SetArgs([]string{"serve"})
	}

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
