package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"github.com/imamik/eks-helm-handler/internal/util/prerequisites"
)

// regionResolver resolves the region when AWS_REGION is not set.
// Replaced in tests.
var regionResolver = resolveSharedRegion

// Load reads the configuration from environment variables and validates it.
//
// Environment Variables:
//   - AWS_REGION (default: AWS shared config resolution)
//   - HELM_HANDLER_RELEASE_NAME (default: ack-sagemaker)
//   - HELM_HANDLER_KUBECONFIG (default: ambient kubeconfig)
//   - HELM_HANDLER_AWS_BIN, HELM_HANDLER_KUBECTL_BIN, HELM_HANDLER_HELM_BIN (default: aws, kubectl, helm)
//   - HELM_HANDLER_VALUES_DIR (default: OS temp dir)
//   - HELM_HANDLER_VERIFY_CLUSTER (default: true)
//   - HELM_HANDLER_REPORT_EARLY_FAILURES (default: false)
//   - HELM_HANDLER_RESPONSE_RESERVE (default: 10s)
//   - HELM_HANDLER_CALLBACK_TIMEOUT (default: 30s)
//   - HELM_HANDLER_PUSHGATEWAY_URL (default: disabled)
//   - DEBUG (default: false)
func Load(ctx context.Context) (*Config, error) {
	bins := EnvBinaries()
	cfg := &Config{
		Region:              os.Getenv(EnvRegion),
		ReleaseName:         parseString(EnvReleaseName, DefaultReleaseName),
		KubeconfigPath:      os.Getenv(EnvKubeconfig),
		AWSBinary:           bins.AWS,
		KubectlBinary:       bins.Kubectl,
		HelmBinary:          bins.Helm,
		ValuesDir:           os.Getenv(EnvValuesDir),
		VerifyCluster:       parseBool(EnvVerifyCluster, true),
		ReportEarlyFailures: parseBool(EnvReportEarlyFailures, false),
		ResponseReserve:     parseDuration(EnvResponseReserve, DefaultResponseReserve),
		CallbackTimeout:     parseDuration(EnvCallbackTimeout, DefaultCallbackTimeout),
		PushgatewayURL:      os.Getenv(EnvPushgatewayURL),
		Debug:               DebugEnabled(),
	}

	if cfg.Region == "" {
		region, err := regionResolver(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve AWS region: %w", err)
		}
		cfg.Region = region
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// DebugEnabled reports whether DEBUG asks for development logging. It is read
// before Load so the logger exists while configuration is loaded.
func DebugEnabled() bool {
	return parseBool(EnvDebug, false)
}

// EnvBinaries returns the collaborator executables from the environment.
// Unlike Load it cannot fail, so diagnostics can use it when Load does.
func EnvBinaries() prerequisites.Binaries {
	return prerequisites.Binaries{
		AWS:     parseString(EnvAWSBinary, DefaultAWSBinary),
		Kubectl: parseString(EnvKubectlBinary, DefaultKubectlBinary),
		Helm:    parseString(EnvHelmBinary, DefaultHelmBinary),
	}
}

// resolveSharedRegion asks the AWS SDK default chain (shared config file,
// profile) for a region.
func resolveSharedRegion(ctx context.Context) (string, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load AWS config: %w", err)
	}
	return awsCfg.Region, nil
}

// parseString returns the variable's value or defaultVal when unset.
func parseString(envVar, defaultVal string) string {
	if val := os.Getenv(envVar); val != "" {
		return val
	}
	return defaultVal
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

// parseBool parses a boolean from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseBool(envVar string, defaultVal bool) bool {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}

	return b
}
