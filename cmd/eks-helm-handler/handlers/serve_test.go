package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-lambda-go/cfn"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testutil "github.com/imamik/eks-helm-handler/internal/testing"
)

func stubStartLambda(t *testing.T) *any {
	t.Helper()
	var started any
	orig := startLambda
	startLambda = func(handler any, _ ...lambda.Option) { started = handler }
	t.Cleanup(func() { startLambda = orig })
	return &started
}

func TestServe_StartsRuntimeWithHandler(t *testing.T) {
	stubConfig(t, testutil.NewConfigBuilder().Build(), nil)
	stubHandler(t, &testutil.FakeRunner{}, &testutil.RecordingResponder{})
	started := stubStartLambda(t)

	require.NoError(t, Serve(testutil.TestContext(t)))
	require.NotNil(t, *started)

	_, ok := (*started).(func(context.Context, cfn.Event) error)
	assert.True(t, ok, "runtime should receive the event handler")
}

func TestServe_ConfigError(t *testing.T) {
	stubConfig(t, nil, errors.New("AWS region is required"))
	started := stubStartLambda(t)

	err := Serve(testutil.TestContext(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AWS region is required")
	assert.Nil(t, *started)
}
