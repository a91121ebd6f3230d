package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/cfn"
	"github.com/go-logr/logr"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/eks-helm-handler/internal/config"
	"github.com/imamik/eks-helm-handler/internal/customresource"
	"github.com/imamik/eks-helm-handler/internal/metrics"
	"github.com/imamik/eks-helm-handler/internal/platform/eks"
	"github.com/imamik/eks-helm-handler/internal/platform/helm"
	"github.com/imamik/eks-helm-handler/internal/platform/kubectl"
	"github.com/imamik/eks-helm-handler/internal/util/cmdexec"
	"github.com/imamik/eks-helm-handler/internal/util/naming"
)

// MetricsJob is the Pushgateway job name.
const MetricsJob = "eks-helm-handler"

// ErrUnsupportedRequestType is returned for request types other than
// Create, Update and Delete.
var ErrUnsupportedRequestType = errors.New("unsupported request type")

// ClusterAccess makes a cluster reachable for kubectl and helm.
type ClusterAccess interface {
	Configure(ctx context.Context, clusterName string) error
}

// NamespaceManager manages namespaces and release secrets.
type NamespaceManager interface {
	EnsureNamespace(ctx context.Context, namespace string) (bool, error)
	DeleteSecrets(ctx context.Context, namespace, name string) error
}

// ReleaseManager installs and removes releases.
type ReleaseManager interface {
	UpgradeInstall(ctx context.Context, rel helm.Release) error
	Uninstall(ctx context.Context, name, namespace string) error
}

// Deps are the collaborators of a Handler.
type Deps struct {
	Access    ClusterAccess
	Namespace NamespaceManager
	Releases  ReleaseManager
	Responder customresource.Responder

	// Metrics defaults to a fresh recorder when nil.
	Metrics *metrics.Recorder
}

// Handler runs lifecycle events against one configured region and release.
type Handler struct {
	cfg       *config.Config
	access    ClusterAccess
	namespace NamespaceManager
	releases  ReleaseManager
	responder customresource.Responder
	metrics   *metrics.Recorder
}

// New creates a Handler from explicit dependencies.
func New(cfg *config.Config, deps Deps) *Handler {
	rec := deps.Metrics
	if rec == nil {
		rec = metrics.NewRecorder()
	}
	return &Handler{
		cfg:       cfg,
		access:    deps.Access,
		namespace: deps.Namespace,
		releases:  deps.Releases,
		responder: deps.Responder,
		metrics:   rec,
	}
}

// NewFromConfig wires a Handler that runs the real CLIs.
// A nil responder selects the HTTP callback.
func NewFromConfig(ctx context.Context, cfg *config.Config, responder customresource.Responder) (*Handler, error) {
	runner := cmdexec.ExecRunner{}

	opts := []eks.Option{}
	if cfg.KubeconfigPath != "" {
		opts = append(opts, eks.WithKubeconfig(cfg.KubeconfigPath))
	}
	if cfg.VerifyCluster {
		describer, err := eks.NewDescriber(ctx, cfg.Region)
		if err != nil {
			return nil, err
		}
		opts = append(opts, eks.WithDescriber(describer))
	}

	if responder == nil {
		responder = customresource.NewHTTPResponder(&http.Client{Timeout: cfg.CallbackTimeout})
	}

	env := cfg.KubeconfigEnv()
	return New(cfg, Deps{
		Access:    eks.NewAccess(runner, cfg.AWSBinary, cfg.Region, opts...),
		Namespace: kubectl.NewClient(runner, cfg.KubectlBinary, env),
		Releases:  helm.NewClient(runner, cfg.HelmBinary, env),
		Responder: responder,
	}), nil
}

// Metrics returns the handler's recorder.
func (h *Handler) Metrics() *metrics.Recorder {
	return h.metrics
}

// Outcome describes a finished invocation.
type Outcome struct {
	RequestType cfn.RequestType
	Disposition Disposition

	// Response is the document that was sent, nil when unreported.
	Response *cfn.Response

	// Err is the step error, if any.
	Err error

	// CallbackErr is set when the response could not be delivered.
	CallbackErr error

	// Cleanup lists the delete-path steps and their results.
	Cleanup []CleanupResult
}

// HandleEvent is the Lambda entry point.
//
// It returns an error when no response reached CloudFormation, so the
// failure is visible in the function's error metrics.
func (h *Handler) HandleEvent(ctx context.Context, event cfn.Event) error {
	out := h.Handle(ctx, &event)
	if !out.Disposition.Report {
		return out.Err
	}
	return out.CallbackErr
}

// Handle runs event and delivers the response.
func (h *Handler) Handle(ctx context.Context, event *cfn.Event) *Outcome {
	logger := log.FromContext(ctx).WithValues(
		"requestId", event.RequestID,
		"requestType", event.RequestType,
		"logicalResourceId", event.LogicalResourceID,
	)
	ctx = log.IntoContext(ctx, logger)

	workCtx, cancel := h.workContext(ctx)
	defer cancel()

	out := &Outcome{RequestType: event.RequestType}
	physicalID, err := h.run(workCtx, event, out)
	out.Err = err
	out.Disposition = Resolve(err, h.cfg.ReportEarlyFailures)

	status := metrics.StatusUnreported
	if out.Disposition.Report {
		status = string(out.Disposition.Status)
		out.Response = h.response(event, out.Disposition.Status, err, physicalID)
		out.CallbackErr = h.send(ctx, event, out.Response)
	} else {
		logger.Error(err, "lifecycle request failed before deploy, no response sent", "kind", KindOf(err).String())
	}
	h.metrics.RecordInvocation(string(event.RequestType), status)

	if h.cfg.PushgatewayURL != "" {
		pushCtx, pushCancel := context.WithTimeout(context.WithoutCancel(ctx), h.cfg.CallbackTimeout)
		defer pushCancel()
		if err := h.metrics.Push(pushCtx, h.cfg.PushgatewayURL, MetricsJob); err != nil {
			logger.Error(err, "failed to push metrics")
		}
	}

	return out
}

// workContext ends ResponseReserve before the caller's deadline so a FAILED
// response can still be sent.
func (h *Handler) workContext(ctx context.Context) (context.Context, context.CancelFunc) {
	deadline, ok := ctx.Deadline()
	if !ok || h.cfg.ResponseReserve <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithDeadline(ctx, deadline.Add(-h.cfg.ResponseReserve))
}

func (h *Handler) run(ctx context.Context, event *cfn.Event, out *Outcome) (string, error) {
	logger := log.FromContext(ctx)

	var props *customresource.Properties
	err := h.step(ctx, StepProperties, func(context.Context) error {
		var err error
		props, err = customresource.ParseProperties(event.ResourceProperties)
		if err != nil {
			return err
		}
		return checkRequestType(event.RequestType)
	})
	if err != nil {
		return "", stepError(KindInvalidRequest, StepProperties, err)
	}

	logger = logger.WithValues("cluster", props.ClusterName, "namespace", props.Namespace, "release", h.cfg.ReleaseName)
	ctx = log.IntoContext(ctx, logger)
	logger.Info("handling lifecycle request", "chart", props.ChartRepo, "version", props.ChartVersion)

	if event.RequestType == cfn.RequestUpdate {
		warnOnMove(logger, event.OldResourceProperties, props)
	}

	var values *helm.ValuesFile
	err = h.step(ctx, StepValuesFile, func(context.Context) error {
		var err error
		values, err = helm.WriteValuesFile(h.cfg.ValuesDir, h.cfg.ReleaseName, props.Values)
		return err
	})
	if err != nil {
		return "", stepError(KindValuesFile, StepValuesFile, err)
	}
	defer func() {
		if err := values.Remove(); err != nil {
			logger.Error(err, "failed to remove values file", "path", values.Path)
		}
	}()

	err = h.step(ctx, StepClusterAccess, func(ctx context.Context) error {
		return h.access.Configure(ctx, props.ClusterName)
	})
	if err != nil {
		return "", stepError(KindClusterAccess, StepClusterAccess, err)
	}

	err = h.step(ctx, StepNamespace, func(ctx context.Context) error {
		created, err := h.namespace.EnsureNamespace(ctx, props.Namespace)
		if err == nil && created {
			logger.Info("created namespace")
		}
		return err
	})
	if err != nil {
		return "", stepError(KindNamespace, StepNamespace, err)
	}

	if event.RequestType == cfn.RequestDelete {
		out.Cleanup = h.remove(ctx, props.Namespace)
		// Physical id falls back to the one CloudFormation already holds.
		return "", nil
	}

	if err := h.deploy(ctx, props, values); err != nil {
		return h.cfg.ReleaseName, err
	}
	logger.Info("release deployed")
	return h.cfg.ReleaseName, nil
}

func (h *Handler) deploy(ctx context.Context, props *customresource.Properties, values *helm.ValuesFile) error {
	err := h.step(ctx, StepValidate, func(context.Context) error {
		return helm.ValidateValues(props.Values)
	})
	if err != nil {
		return stepError(KindDeploy, StepValidate, err)
	}

	chart, repoURL := helm.ChartSource(props.ChartRepo, props.ChartName)
	rel := helm.Release{
		Name:       h.cfg.ReleaseName,
		Namespace:  props.Namespace,
		Chart:      chart,
		RepoURL:    repoURL,
		Version:    props.ChartVersion,
		ValuesFile: values.Path,
	}

	err = h.step(ctx, StepDeploy, func(ctx context.Context) error {
		return h.releases.UpgradeInstall(ctx, rel)
	})
	if err != nil {
		return stepError(KindDeploy, StepDeploy, err)
	}
	return nil
}

// remove uninstalls the release and deletes its metadata secrets.
// Failures are logged and counted, never returned.
func (h *Handler) remove(ctx context.Context, namespace string) []CleanupResult {
	logger := log.FromContext(ctx)
	release := h.cfg.ReleaseName

	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{StepUninstall, func(ctx context.Context) error {
			return h.releases.Uninstall(ctx, release, namespace)
		}},
		{StepDeleteSecrets, func(ctx context.Context) error {
			return h.namespace.DeleteSecrets(ctx, namespace, naming.ReleaseSecretPattern(release))
		}},
	}

	results := make([]CleanupResult, 0, len(steps))
	for _, s := range steps {
		res := CleanupResult{Step: s.name, Err: h.step(ctx, s.name, s.fn)}
		if !res.OK() {
			logger.Info("ignoring cleanup failure", "step", res.Step, "error", res.Err.Error())
			h.metrics.RecordCleanupFailure(res.Step)
		}
		results = append(results, res)
	}
	return results
}

// step runs fn, timing it and recording the result.
func (h *Handler) step(ctx context.Context, name string, fn func(context.Context) error) error {
	logger := log.FromContext(ctx)
	logger.V(1).Info("step started", "step", name)

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	h.metrics.ObserveStep(name, elapsed, err)

	logger.V(1).Info("step finished", "step", name, "duration", elapsed.String(), "ok", err == nil)
	return err
}

func (h *Handler) response(event *cfn.Event, status cfn.StatusType, err error, physicalID string) *cfn.Response {
	if status == cfn.StatusSuccess {
		return customresource.Succeeded(event, physicalID)
	}
	return customresource.Failed(event, err, physicalID)
}

// send delivers resp on a context that survives cancellation of the work context.
func (h *Handler) send(ctx context.Context, event *cfn.Event, resp *cfn.Response) error {
	logger := log.FromContext(ctx)

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.cfg.CallbackTimeout)
	defer cancel()

	if err := h.responder.Send(sendCtx, event, resp); err != nil {
		h.metrics.RecordCallbackFailure()
		logger.Error(err, "failed to send lifecycle response", "status", resp.Status)
		return fmt.Errorf("failed to send %s response: %w", resp.Status, err)
	}

	logger.Info("sent lifecycle response", "status", resp.Status, "physicalResourceId", resp.PhysicalResourceID)
	return nil
}

func checkRequestType(rt cfn.RequestType) error {
	switch rt {
	case cfn.RequestCreate, cfn.RequestUpdate, cfn.RequestDelete:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedRequestType, rt)
	}
}

// warnOnMove logs when an update points the fixed release at a different
// cluster or namespace. The old release is left in place.
func warnOnMove(logger logr.Logger, old map[string]any, props *customresource.Properties) {
	if old == nil {
		return
	}
	oldCluster, _ := old[customresource.KeyClusterName].(string)
	oldNamespace, _ := old[customresource.KeyNamespace].(string)
	if oldCluster == props.ClusterName && oldNamespace == props.Namespace {
		return
	}
	logger.Info("update moves the release, the previous release is not removed",
		"oldCluster", oldCluster, "oldNamespace", oldNamespace)
}
