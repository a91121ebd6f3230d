package helm

import (
	"context"
	"fmt"
	"strings"

	"github.com/imamik/eks-helm-handler/internal/util/cmdexec"
)

// Release describes the desired state of a release.
type Release struct {
	Name       string
	Namespace  string
	Chart      string
	RepoURL    string
	Version    string
	ValuesFile string
}

// ChartSource resolves the chart reference passed to helm.
//
// A plain http(s) repository URL cannot be installed directly, so the chart name
// becomes the reference and the URL is passed with --repo. Anything else
// (a repo/chart alias, an oci:// reference, a local path or archive) is used
// as given.
func ChartSource(chartRepo, chartName string) (chart, repoURL string) {
	if strings.HasPrefix(chartRepo, "http://") || strings.HasPrefix(chartRepo, "https://") {
		return chartName, chartRepo
	}
	return chartRepo, ""
}

// Client runs helm against the current kubeconfig context.
type Client struct {
	runner cmdexec.Runner
	binary string
	env    []string
}

// NewClient creates a Client. env is appended to the environment of every helm
// process, typically KUBECONFIG.
func NewClient(runner cmdexec.Runner, binary string, env []string) *Client {
	return &Client{runner: runner, binary: binary, env: env}
}

// UpgradeInstall installs the release or upgrades it in place.
//
// --wait blocks until workloads are ready and --atomic rolls the release back
// when the operation fails, so a failed call leaves the previous state.
func (c *Client) UpgradeInstall(ctx context.Context, rel Release) error {
	args := []string{
		"upgrade", "--install", rel.Name, rel.Chart,
		"--version", rel.Version,
		"-n", rel.Namespace,
		"--wait", "--atomic",
		"-f", rel.ValuesFile,
	}
	if rel.RepoURL != "" {
		args = append(args, "--repo", rel.RepoURL)
	}

	if _, err := c.run(ctx, args...); err != nil {
		return fmt.Errorf("helm upgrade --install %s failed: %w", rel.Name, err)
	}
	return nil
}

// Uninstall removes the release from namespace.
func (c *Client) Uninstall(ctx context.Context, name, namespace string) error {
	if _, err := c.run(ctx, "uninstall", name, "-n", namespace); err != nil {
		return fmt.Errorf("helm uninstall %s failed: %w", name, err)
	}
	return nil
}

func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	cmd := cmdexec.New(c.binary, args...).WithEnv(c.env...)
	return c.runner.Run(ctx, cmd)
}
