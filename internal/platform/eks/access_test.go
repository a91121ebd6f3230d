package eks

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eks"
	"github.com/aws/aws-sdk-go-v2/service/eks/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testutil "github.com/imamik/eks-helm-handler/internal/testing"
)

type fakeDescriber struct {
	status types.ClusterStatus
	err    error
	names  []string
}

func (f *fakeDescriber) DescribeCluster(_ context.Context, in *eks.DescribeClusterInput, _ ...func(*eks.Options)) (*eks.DescribeClusterOutput, error) {
	f.names = append(f.names, aws.ToString(in.Name))
	if f.err != nil {
		return nil, f.err
	}
	return &eks.DescribeClusterOutput{
		Cluster: &types.Cluster{Name: in.Name, Status: f.status},
	}, nil
}

func TestConfigure_UpdateKubeconfig(t *testing.T) {
	runner := &testutil.FakeRunner{}
	access := NewAccess(runner, "aws", "us-east-1")

	require.NoError(t, access.Configure(context.Background(), "c1"))

	assert.Equal(t, []string{
		"aws eks update-kubeconfig --name c1 --region us-east-1",
	}, runner.Lines())
}

func TestConfigure_WithKubeconfigPath(t *testing.T) {
	path := testutil.WriteFile(t, "kubeconfig", testutil.KubeconfigYAML)
	runner := &testutil.FakeRunner{}
	access := NewAccess(runner, "aws", "eu-west-1", WithKubeconfig(path))

	require.NoError(t, access.Configure(context.Background(), "c1"))

	assert.Equal(t, []string{
		"aws eks update-kubeconfig --name c1 --region eu-west-1 --kubeconfig " + path,
	}, runner.Lines())
}

func TestConfigure_CommandFails(t *testing.T) {
	runner := &testutil.FakeRunner{}
	runner.FailOn("aws eks update-kubeconfig", 255, "An error occurred (AccessDeniedException)")
	access := NewAccess(runner, "aws", "us-east-1")

	err := access.Configure(context.Background(), "c1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to update kubeconfig for cluster c1")
	assert.Contains(t, err.Error(), "AccessDeniedException")
}

func TestConfigure_KubeconfigWithoutContext(t *testing.T) {
	path := testutil.WriteFile(t, "kubeconfig", "apiVersion: v1\nkind: Config\n")
	access := NewAccess(&testutil.FakeRunner{}, "aws", "us-east-1", WithKubeconfig(path))

	err := access.Configure(context.Background(), "c1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no current context")
}

func TestConfigure_KubeconfigMissingContext(t *testing.T) {
	path := testutil.WriteFile(t, "kubeconfig", "apiVersion: v1\nkind: Config\ncurrent-context: gone\n")
	access := NewAccess(&testutil.FakeRunner{}, "aws", "us-east-1", WithKubeconfig(path))

	err := access.Configure(context.Background(), "c1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing context "gone"`)
}

func TestConfigure_Preflight(t *testing.T) {
	tests := []struct {
		name      string
		describer *fakeDescriber
		wantErr   error
		wantCLI   bool
	}{
		{
			name:      "active",
			describer: &fakeDescriber{status: types.ClusterStatusActive},
			wantCLI:   true,
		},
		{
			name:      "updating",
			describer: &fakeDescriber{status: types.ClusterStatusUpdating},
			wantCLI:   true,
		},
		{
			name:      "pending",
			describer: &fakeDescriber{status: types.ClusterStatusPending},
			wantCLI:   true,
		},
		{
			name:      "creating",
			describer: &fakeDescriber{status: types.ClusterStatusCreating},
			wantErr:   ErrClusterNotActive,
		},
		{
			name:      "deleting",
			describer: &fakeDescriber{status: types.ClusterStatusDeleting},
			wantErr:   ErrClusterNotActive,
		},
		{
			name:      "failed",
			describer: &fakeDescriber{status: types.ClusterStatusFailed},
			wantErr:   ErrClusterNotActive,
		},
		{
			name:      "typed not found",
			describer: &fakeDescriber{err: &types.ResourceNotFoundException{Message: aws.String("No cluster found")}},
			wantErr:   ErrClusterNotFound,
		},
		{
			name:      "generic not found code",
			describer: &fakeDescriber{err: &smithy.GenericAPIError{Code: "ResourceNotFoundException"}},
			wantErr:   ErrClusterNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &testutil.FakeRunner{}
			access := NewAccess(runner, "aws", "us-east-1", WithDescriber(tt.describer))

			err := access.Configure(context.Background(), "c1")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, []string{"c1"}, tt.describer.names)
			assert.Equal(t, tt.wantCLI, runner.Called("aws eks update-kubeconfig"))
		})
	}
}

func TestConfigure_PreflightAPIErrorFallsBackToCLI(t *testing.T) {
	describer := &fakeDescriber{err: errors.New("throttled")}
	runner := &testutil.FakeRunner{}
	access := NewAccess(runner, "aws", "us-east-1", WithDescriber(describer))

	require.NoError(t, access.Configure(context.Background(), "c1"))
	assert.True(t, runner.Called("aws eks update-kubeconfig --name c1"))
}

func TestIsNotFoundError(t *testing.T) {
	assert.False(t, isNotFoundError(nil))
	assert.False(t, isNotFoundError(errors.New("boom")))
	assert.False(t, isNotFoundError(&smithy.GenericAPIError{Code: "AccessDeniedException"}))
	assert.True(t, isNotFoundError(&types.ResourceNotFoundException{}))
}
