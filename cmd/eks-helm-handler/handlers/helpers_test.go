package handlers

import (
	"context"
	"testing"

	"github.com/imamik/eks-helm-handler/internal/config"
	"github.com/imamik/eks-helm-handler/internal/customresource"
	"github.com/imamik/eks-helm-handler/internal/lifecycle"
	"github.com/imamik/eks-helm-handler/internal/platform/eks"
	"github.com/imamik/eks-helm-handler/internal/platform/helm"
	"github.com/imamik/eks-helm-handler/internal/platform/kubectl"
	testutil "github.com/imamik/eks-helm-handler/internal/testing"
)

// stubConfig makes loadConfig return cfg, or err when cfg is nil.
func stubConfig(t *testing.T, cfg *config.Config, err error) {
	t.Helper()
	orig := loadConfig
	loadConfig = func(context.Context) (*config.Config, error) { return cfg, err }
	t.Cleanup(func() { loadConfig = orig })
}

// stubHandler makes newHandler build a handler on runner. The responder chosen
// by the caller is kept; when it is nil, fallback is used.
func stubHandler(t *testing.T, runner *testutil.FakeRunner, fallback customresource.Responder) {
	t.Helper()
	orig := newHandler
	newHandler = func(_ context.Context, cfg *config.Config, responder customresource.Responder) (*lifecycle.Handler, error) {
		if responder == nil {
			responder = fallback
		}
		return lifecycle.New(cfg, lifecycle.Deps{
			Access:    eks.NewAccess(runner, cfg.AWSBinary, cfg.Region),
			Namespace: kubectl.NewClient(runner, cfg.KubectlBinary, cfg.KubeconfigEnv()),
			Releases:  helm.NewClient(runner, cfg.HelmBinary, cfg.KubeconfigEnv()),
			Responder: responder,
		}), nil
	}
	t.Cleanup(func() { newHandler = orig })
}
