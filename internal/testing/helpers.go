package testing

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestContext returns a context with a reasonable timeout for tests.
func TestContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// KubeconfigYAML is a minimal kubeconfig with one EKS-style context.
const KubeconfigYAML = `apiVersion: v1
kind: Config
clusters:
- cluster:
    server: https://ABCDEF.gr7.us-east-1.eks.amazonaws.com
  name: arn:aws:eks:us-east-1:123456789012:cluster/c1
contexts:
- context:
    cluster: arn:aws:eks:us-east-1:123456789012:cluster/c1
    user: arn:aws:eks:us-east-1:123456789012:cluster/c1
  name: arn:aws:eks:us-east-1:123456789012:cluster/c1
current-context: arn:aws:eks:us-east-1:123456789012:cluster/c1
users:
- name: arn:aws:eks:us-east-1:123456789012:cluster/c1
  user:
    token: test
`

// WriteFile writes content to name inside a per-test temp dir and returns the path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
