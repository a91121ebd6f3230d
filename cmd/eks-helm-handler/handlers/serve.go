// Package handlers implements the logic behind the CLI commands.
package handlers

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/lambda"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/eks-helm-handler/internal/config"
	"github.com/imamik/eks-helm-handler/internal/lifecycle"
)

// Seams replaced in tests.
var (
	loadConfig  = config.Load
	newHandler  = lifecycle.NewFromConfig
	startLambda = lambda.StartWithOptions
)

// Serve hands the lifecycle handler to the Lambda runtime. It does not return
// while the runtime is alive.
func Serve(ctx context.Context) error {
	logger := log.FromContext(ctx)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	h, err := newHandler(ctx, cfg, nil)
	if err != nil {
		return fmt.Errorf("failed to create handler: %w", err)
	}

	logger.Info("serving lifecycle events",
		"region", cfg.Region,
		"release", cfg.ReleaseName,
		"verifyCluster", cfg.VerifyCluster,
		"reportEarlyFailures", cfg.ReportEarlyFailures,
	)
	startLambda(h.HandleEvent, lambda.WithContext(ctx))
	return nil
}
