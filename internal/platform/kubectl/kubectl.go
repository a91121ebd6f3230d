// Package kubectl wraps the kubectl operations the handler needs: making sure
// the target namespace exists and removing Helm release storage secrets.
package kubectl

import (
	"context"
	"fmt"

	"github.com/imamik/eks-helm-handler/internal/util/cmdexec"
)

// Client runs kubectl against the current kubeconfig context.
type Client struct {
	runner cmdexec.Runner
	binary string
	env    []string
}

// NewClient creates a Client. env is appended to the environment of every
// kubectl process, typically KUBECONFIG.
func NewClient(runner cmdexec.Runner, binary string, env []string) *Client {
	return &Client{runner: runner, binary: binary, env: env}
}

// NamespaceExists probes the namespace. Any nonzero exit from kubectl is read
// as "absent"; failing to run kubectl at all is an error.
func (c *Client) NamespaceExists(ctx context.Context, namespace string) (bool, error) {
	_, err := c.run(ctx, "get", "namespace", namespace)
	if err == nil {
		return true, nil
	}
	if cmdexec.ExitCode(err) >= 0 {
		return false, nil
	}
	return false, fmt.Errorf("failed to probe namespace %s: %w", namespace, err)
}

// EnsureNamespace creates the namespace unless the probe finds it.
// It reports whether a create was issued.
func (c *Client) EnsureNamespace(ctx context.Context, namespace string) (bool, error) {
	exists, err := c.NamespaceExists(ctx, namespace)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	if _, err := c.run(ctx, "create", "namespace", namespace); err != nil {
		return false, fmt.Errorf("failed to create namespace %s: %w", namespace, err)
	}
	return true, nil
}

// DeleteSecrets deletes secrets matching name in namespace. Missing secrets are
// not an error.
func (c *Client) DeleteSecrets(ctx context.Context, namespace, name string) error {
	if _, err := c.run(ctx, "delete", "secret", name, "-n", namespace, "--ignore-not-found"); err != nil {
		return fmt.Errorf("failed to delete secret %s in namespace %s: %w", name, namespace, err)
	}
	return nil
}

func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	cmd := cmdexec.New(c.binary, args...).WithEnv(c.env...)
	return c.runner.Run(ctx, cmd)
}
