package config

import (
	"time"

	"github.com/imamik/eks-helm-handler/internal/util/prerequisites"
)

// DefaultReleaseName is the Helm release managed by the handler.
// It is not derived from the request, so at most one release of this name
// exists per namespace.
const DefaultReleaseName = "ack-sagemaker"

// Environment variables read by Load.
const (
	EnvRegion              = "AWS_REGION"
	EnvReleaseName         = "HELM_HANDLER_RELEASE_NAME"
	EnvKubeconfig          = "HELM_HANDLER_KUBECONFIG"
	EnvAWSBinary           = "HELM_HANDLER_AWS_BIN"
	EnvKubectlBinary       = "HELM_HANDLER_KUBECTL_BIN"
	EnvHelmBinary          = "HELM_HANDLER_HELM_BIN"
	EnvValuesDir           = "HELM_HANDLER_VALUES_DIR"
	EnvVerifyCluster       = "HELM_HANDLER_VERIFY_CLUSTER"
	EnvReportEarlyFailures = "HELM_HANDLER_REPORT_EARLY_FAILURES"
	EnvResponseReserve     = "HELM_HANDLER_RESPONSE_RESERVE"
	EnvCallbackTimeout     = "HELM_HANDLER_CALLBACK_TIMEOUT"
	EnvPushgatewayURL      = "HELM_HANDLER_PUSHGATEWAY_URL"
	EnvDebug               = "DEBUG"
)

// Defaults applied by Load when a variable is unset or invalid.
const (
	DefaultAWSBinary       = "aws"
	DefaultKubectlBinary   = "kubectl"
	DefaultHelmBinary      = "helm"
	DefaultResponseReserve = 10 * time.Second
	DefaultCallbackTimeout = 30 * time.Second
)

// Config holds everything a lifecycle invocation needs besides the event.
type Config struct {
	// Region is passed to cluster credential setup.
	Region string

	// ReleaseName is the fixed Helm release identity.
	ReleaseName string

	// KubeconfigPath is where cluster credentials are written. Empty means the
	// tools' ambient default (~/.kube/config).
	KubeconfigPath string

	AWSBinary     string
	KubectlBinary string
	HelmBinary    string

	// ValuesDir holds per-invocation values files. Empty means os.TempDir().
	ValuesDir string

	// VerifyCluster enables the EKS DescribeCluster preflight.
	VerifyCluster bool

	// ReportEarlyFailures sends FAILED for failures before the deploy step
	// instead of leaving CloudFormation to time out.
	ReportEarlyFailures bool

	// ResponseReserve is kept back from the invocation deadline so a response
	// can still be delivered after the work is cut off.
	ResponseReserve time.Duration

	// CallbackTimeout bounds the response PUT.
	CallbackTimeout time.Duration

	// PushgatewayURL receives invocation metrics when set.
	PushgatewayURL string

	// Debug switches logging to development mode.
	Debug bool
}

// Binaries returns the collaborator executables for prerequisite checks.
func (c *Config) Binaries() prerequisites.Binaries {
	return prerequisites.Binaries{
		AWS:     c.AWSBinary,
		Kubectl: c.KubectlBinary,
		Helm:    c.HelmBinary,
	}
}

// KubeconfigEnv returns the environment entries that point kubectl and helm at
// the configured kubeconfig, or nil for the ambient default.
func (c *Config) KubeconfigEnv() []string {
	if c.KubeconfigPath == "" {
		return nil
	}
	return []string{"KUBECONFIG=" + c.KubeconfigPath}
}
