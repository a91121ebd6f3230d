package eks

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/eks"
	"github.com/aws/aws-sdk-go-v2/service/eks/types"
	"github.com/aws/smithy-go"
	"k8s.io/client-go/tools/clientcmd"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/eks-helm-handler/internal/util/cmdexec"
)

var (
	// ErrClusterNotFound is returned when the EKS API does not know the cluster.
	ErrClusterNotFound = errors.New("cluster not found")

	// ErrClusterNotActive is returned when the cluster is being created, being
	// deleted or has failed.
	ErrClusterNotActive = errors.New("cluster not active")
)

// ClusterDescriber is the subset of the EKS API used for the preflight.
type ClusterDescriber interface {
	DescribeCluster(ctx context.Context, params *eks.DescribeClusterInput, optFns ...func(*eks.Options)) (*eks.DescribeClusterOutput, error)
}

// NewDescriber creates an EKS API client for region using the default
// credential chain.
func NewDescriber(ctx context.Context, region string) (ClusterDescriber, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return eks.NewFromConfig(cfg), nil
}

// Access configures cluster credentials for subsequent kubectl and helm calls.
type Access struct {
	runner         cmdexec.Runner
	awsBinary      string
	region         string
	kubeconfigPath string
	describer      ClusterDescriber
}

// Option configures Access.
type Option func(*Access)

// WithKubeconfig writes credentials to path instead of the ambient kubeconfig.
func WithKubeconfig(path string) Option {
	return func(a *Access) {
		a.kubeconfigPath = path
	}
}

// WithDescriber enables the DescribeCluster preflight.
func WithDescriber(d ClusterDescriber) Option {
	return func(a *Access) {
		a.describer = d
	}
}

// NewAccess creates an Access that runs awsBinary through runner.
func NewAccess(runner cmdexec.Runner, awsBinary, region string, opts ...Option) *Access {
	a := &Access{
		runner:    runner,
		awsBinary: awsBinary,
		region:    region,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Configure makes clusterName the current kubeconfig context.
func (a *Access) Configure(ctx context.Context, clusterName string) error {
	if a.describer != nil {
		if err := a.verifyUsable(ctx, clusterName); err != nil {
			return err
		}
	}

	args := []string{"eks", "update-kubeconfig", "--name", clusterName, "--region", a.region}
	if a.kubeconfigPath != "" {
		args = append(args, "--kubeconfig", a.kubeconfigPath)
	}

	if _, err := a.runner.Run(ctx, cmdexec.New(a.awsBinary, args...)); err != nil {
		return fmt.Errorf("failed to update kubeconfig for cluster %s: %w", clusterName, err)
	}

	if a.kubeconfigPath != "" {
		if err := verifyKubeconfig(a.kubeconfigPath); err != nil {
			return err
		}
	}

	return nil
}

// unusableStatuses are the cluster states update-kubeconfig cannot work with.
// Any other state, UPDATING and PENDING included, is left to the CLI.
var unusableStatuses = map[types.ClusterStatus]bool{
	types.ClusterStatusCreating: true,
	types.ClusterStatusDeleting: true,
	types.ClusterStatusFailed:   true,
}

// verifyUsable fails only for a missing cluster or an unusable status. Other
// DescribeCluster errors are logged and the CLI decides.
func (a *Access) verifyUsable(ctx context.Context, clusterName string) error {
	out, err := a.describer.DescribeCluster(ctx, &eks.DescribeClusterInput{
		Name: aws.String(clusterName),
	})
	if err != nil {
		if isNotFoundError(err) {
			return fmt.Errorf("cluster %s in %s: %w", clusterName, a.region, ErrClusterNotFound)
		}
		log.FromContext(ctx).Info("cluster preflight skipped", "cluster", clusterName, "error", err.Error())
		return nil
	}

	if out.Cluster == nil {
		return fmt.Errorf("cluster %s in %s: %w", clusterName, a.region, ErrClusterNotFound)
	}
	if unusableStatuses[out.Cluster.Status] {
		return fmt.Errorf("cluster %s is %s: %w", clusterName, out.Cluster.Status, ErrClusterNotActive)
	}

	return nil
}

// verifyKubeconfig checks that update-kubeconfig left a usable current context.
func verifyKubeconfig(path string) error {
	cfg, err := clientcmd.LoadFromFile(path)
	if err != nil {
		return fmt.Errorf("failed to load kubeconfig %s: %w", path, err)
	}
	if cfg.CurrentContext == "" {
		return fmt.Errorf("kubeconfig %s has no current context", path)
	}
	if _, ok := cfg.Contexts[cfg.CurrentContext]; !ok {
		return fmt.Errorf("kubeconfig %s references missing context %q", path, cfg.CurrentContext)
	}
	return nil
}

// isNotFoundError checks if the error is a not found error.
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}

	// Check for typed EKS errors first
	var rnf *types.ResourceNotFoundException
	if errors.As(err, &rnf) {
		return true
	}

	// Fall back to API error code checking
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "ResourceNotFoundException"
	}

	return false
}
