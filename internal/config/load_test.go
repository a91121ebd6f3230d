package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allEnvVars = []string{
	EnvRegion, EnvReleaseName, EnvKubeconfig, EnvAWSBinary, EnvKubectlBinary, EnvHelmBinary,
	EnvValuesDir, EnvVerifyCluster, EnvReportEarlyFailures, EnvResponseReserve,
	EnvCallbackTimeout, EnvPushgatewayURL, EnvDebug,
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range allEnvVars {
		t.Setenv(name, "")
	}
}

func stubRegionResolver(t *testing.T, region string, err error) {
	t.Helper()
	orig := regionResolver
	regionResolver = func(context.Context) (string, error) { return region, err }
	t.Cleanup(func() { regionResolver = orig })
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvRegion, "us-west-2")

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "us-west-2", cfg.Region)
	assert.Equal(t, DefaultReleaseName, cfg.ReleaseName)
	assert.Equal(t, "ack-sagemaker", cfg.ReleaseName)
	assert.Empty(t, cfg.KubeconfigPath)
	assert.Equal(t, "aws", cfg.AWSBinary)
	assert.Equal(t, "kubectl", cfg.KubectlBinary)
	assert.Equal(t, "helm", cfg.HelmBinary)
	assert.True(t, cfg.VerifyCluster)
	assert.False(t, cfg.ReportEarlyFailures)
	assert.Equal(t, 10*time.Second, cfg.ResponseReserve)
	assert.Equal(t, 30*time.Second, cfg.CallbackTimeout)
	assert.Empty(t, cfg.PushgatewayURL)
	assert.False(t, cfg.Debug)
}

func TestLoad_EnvVars(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvRegion, "eu-central-1")
	t.Setenv(EnvReleaseName, "my-release")
	t.Setenv(EnvKubeconfig, "/tmp/kubeconfig")
	t.Setenv(EnvAWSBinary, "/opt/awscli/aws")
	t.Setenv(EnvKubectlBinary, "/opt/kubectl/kubectl")
	t.Setenv(EnvHelmBinary, "/opt/helm/helm")
	t.Setenv(EnvValuesDir, "/tmp/values")
	t.Setenv(EnvVerifyCluster, "false")
	t.Setenv(EnvReportEarlyFailures, "true")
	t.Setenv(EnvResponseReserve, "15s")
	t.Setenv(EnvCallbackTimeout, "1m")
	t.Setenv(EnvPushgatewayURL, "http://pushgateway:9091")
	t.Setenv(EnvDebug, "true")

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "eu-central-1", cfg.Region)
	assert.Equal(t, "my-release", cfg.ReleaseName)
	assert.Equal(t, "/tmp/kubeconfig", cfg.KubeconfigPath)
	assert.Equal(t, "/opt/awscli/aws", cfg.AWSBinary)
	assert.Equal(t, "/opt/kubectl/kubectl", cfg.KubectlBinary)
	assert.Equal(t, "/opt/helm/helm", cfg.HelmBinary)
	assert.Equal(t, "/tmp/values", cfg.ValuesDir)
	assert.False(t, cfg.VerifyCluster)
	assert.True(t, cfg.ReportEarlyFailures)
	assert.Equal(t, 15*time.Second, cfg.ResponseReserve)
	assert.Equal(t, time.Minute, cfg.CallbackTimeout)
	assert.Equal(t, "http://pushgateway:9091", cfg.PushgatewayURL)
	assert.True(t, cfg.Debug)
}

func TestLoad_InvalidValuesFallBackToDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvRegion, "us-east-1")
	t.Setenv(EnvVerifyCluster, "maybe")
	t.Setenv(EnvResponseReserve, "soon")

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.True(t, cfg.VerifyCluster)
	assert.Equal(t, DefaultResponseReserve, cfg.ResponseReserve)
}

func TestLoad_RegionFromResolver(t *testing.T) {
	clearEnv(t)
	stubRegionResolver(t, "ap-southeast-2", nil)

	cfg, err := Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ap-southeast-2", cfg.Region)
}

func TestLoad_ResolverError(t *testing.T) {
	clearEnv(t)
	stubRegionResolver(t, "", errors.New("no shared config"))

	_, err := Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to resolve AWS region")
}

func TestLoad_MissingRegion(t *testing.T) {
	clearEnv(t)
	stubRegionResolver(t, "", nil)

	_, err := Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "region is required")
}

func TestLoad_InvalidReleaseName(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvRegion, "us-east-1")
	t.Setenv(EnvReleaseName, "Not_A_Valid_Release")

	_, err := Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid release name")
}

func TestResolveSharedRegion(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config")
	require.NoError(t, os.WriteFile(configFile, []byte("[default]\nregion = eu-west-1\n"), 0o600))

	t.Setenv("AWS_REGION", "")
	t.Setenv("AWS_DEFAULT_REGION", "")
	t.Setenv("AWS_PROFILE", "")
	t.Setenv("AWS_CONFIG_FILE", configFile)
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(dir, "credentials"))

	region, err := resolveSharedRegion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", region)
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{name: "unset", value: "", want: 5 * time.Second},
		{name: "valid", value: "2m", want: 2 * time.Minute},
		{name: "invalid", value: "later", want: 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.value)
			assert.Equal(t, tt.want, parseDuration("TEST_DURATION", 5*time.Second))
		})
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		defaultVal bool
		want       bool
	}{
		{name: "unset uses default", value: "", defaultVal: true, want: true},
		{name: "true", value: "true", defaultVal: false, want: true},
		{name: "one", value: "1", defaultVal: false, want: true},
		{name: "false", value: "false", defaultVal: true, want: false},
		{name: "invalid uses default", value: "yes please", defaultVal: true, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_BOOL", tt.value)
			assert.Equal(t, tt.want, parseBool("TEST_BOOL", tt.defaultVal))
		})
	}
}

func TestEnvBinaries(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvHelmBinary, "/opt/helm/bin/helm")

	bins := EnvBinaries()
	assert.Equal(t, DefaultAWSBinary, bins.AWS)
	assert.Equal(t, DefaultKubectlBinary, bins.Kubectl)
	assert.Equal(t, "/opt/helm/bin/helm", bins.Helm)
}

func TestDebugEnabled(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"", false},
		{"true", true},
		{"1", true},
		{"TRUE", true},
		{"0", false},
		{"yes", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv(EnvDebug, tt.value)
			assert.Equal(t, tt.want, DebugEnabled())
		})
	}
}
