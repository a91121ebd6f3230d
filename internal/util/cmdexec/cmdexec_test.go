package cmdexec

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommand_String(t *testing.T) {
	assert.Equal(t, "kubectl get namespace ns1", New("kubectl", "get", "namespace", "ns1").String())
	assert.Equal(t, "helm", New("helm").String())
}

func TestCommand_WithEnvDoesNotAlias(t *testing.T) {
	base := New("helm", "version").WithEnv("A=1")
	derived := base.WithEnv("B=2")

	assert.Equal(t, []string{"A=1"}, base.Env)
	assert.Equal(t, []string{"A=1", "B=2"}, derived.Env)
}

func TestExecRunner_Success(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	out, err := ExecRunner{}.Run(context.Background(), New("sh", "-c", "printf hello"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(out))
}

func TestExecRunner_EnvIsPassed(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	cmd := New("sh", "-c", "printf %s \"$KUBECONFIG\"").WithEnv("KUBECONFIG=/tmp/kc")
	out, err := ExecRunner{}.Run(context.Background(), cmd)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/kc", string(out))
}

func TestExecRunner_NonZeroExit(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	_, err := ExecRunner{}.Run(context.Background(), New("sh", "-c", "echo boom >&2; exit 3"))
	require.Error(t, err)

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 3, exitErr.Code)
	assert.Equal(t, "boom", exitErr.Output)
	assert.Equal(t, 3, ExitCode(err))
	assert.Contains(t, err.Error(), "exited with status 3: boom")
}

func TestExecRunner_MissingBinary(t *testing.T) {
	_, err := ExecRunner{}.Run(context.Background(), New("nonexistent-tool-xyz123"))
	require.Error(t, err)
	assert.Equal(t, -1, ExitCode(err))
	assert.Contains(t, err.Error(), "failed")
}

func TestExitCode_ForeignError(t *testing.T) {
	assert.Equal(t, -1, ExitCode(errors.New("other")))
}

func TestTrimOutput(t *testing.T) {
	assert.Equal(t, "short", TrimOutput([]byte("  short\n")))

	long := strings.Repeat("a", maxOutputLen) + "TAIL"
	trimmed := TrimOutput([]byte(long))
	assert.True(t, strings.HasPrefix(trimmed, "..."))
	assert.True(t, strings.HasSuffix(trimmed, "TAIL"))
	assert.Len(t, trimmed, maxOutputLen+3)
}

func TestTrimOutput_KeepsRunesWhole(t *testing.T) {
	// 3000 bytes of three-byte runes; keeping the last 2048 bytes starts
	// inside a rune.
	long := strings.Repeat("日", 1000)
	trimmed := TrimOutput([]byte(long))

	assert.True(t, utf8.ValidString(trimmed))
	assert.True(t, strings.HasPrefix(trimmed, "...日"))
	assert.LessOrEqual(t, len(trimmed), maxOutputLen+3)
}
