package config

import (
	"fmt"
	"net/url"

	"helm.sh/helm/v3/pkg/chartutil"
)

// Validate checks the configuration for errors that would make every
// invocation fail.
func (c *Config) Validate() error {
	if c.Region == "" {
		return fmt.Errorf("region is required: set %s or a region in the AWS shared config", EnvRegion)
	}

	if err := chartutil.ValidateReleaseName(c.ReleaseName); err != nil {
		return fmt.Errorf("invalid release name %q: %w", c.ReleaseName, err)
	}

	if c.AWSBinary == "" || c.KubectlBinary == "" || c.HelmBinary == "" {
		return fmt.Errorf("aws, kubectl and helm binaries must be set")
	}

	if c.ResponseReserve < 0 {
		return fmt.Errorf("response reserve must not be negative, got %s", c.ResponseReserve)
	}

	if c.CallbackTimeout <= 0 {
		return fmt.Errorf("callback timeout must be positive, got %s", c.CallbackTimeout)
	}

	if c.PushgatewayURL != "" {
		u, err := url.Parse(c.PushgatewayURL)
		if err != nil {
			return fmt.Errorf("invalid pushgateway URL: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("pushgateway URL must use http or https, got %q", c.PushgatewayURL)
		}
	}

	return nil
}
