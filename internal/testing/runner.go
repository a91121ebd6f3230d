package testing

import (
	"context"
	"strings"
	"sync"

	"github.com/imamik/eks-helm-handler/internal/util/cmdexec"
)

// FakeRunner records commands instead of executing them.
// Commands succeed with empty output unless a rule matches.
type FakeRunner struct {
	mu    sync.Mutex
	calls []cmdexec.Command
	rules []runRule

	// OnRun is called for every command before rules are applied.
	// Useful for inspecting files referenced by arguments while they exist.
	OnRun func(cmd cmdexec.Command)
}

type runRule struct {
	prefix string
	output []byte
	err    error
}

// FailOn makes commands whose line starts with prefix exit with code and output.
// The prefix is matched against the command line without the binary path
// directory, e.g. "helm upgrade" or "kubectl get namespace".
func (f *FakeRunner) FailOn(prefix string, code int, output string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = append(f.rules, runRule{
		prefix: prefix,
		output: []byte(output),
		err: &cmdexec.ExitError{
			Command: prefix,
			Code:    code,
			Output:  output,
		},
	})
}

// ReturnOn makes commands whose line starts with prefix succeed with output.
func (f *FakeRunner) ReturnOn(prefix, output string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = append(f.rules, runRule{prefix: prefix, output: []byte(output)})
}

// Run records cmd and returns the result of the first matching rule.
func (f *FakeRunner) Run(_ context.Context, cmd cmdexec.Command) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	rules := append([]runRule(nil), f.rules...)
	onRun := f.OnRun
	f.mu.Unlock()

	if onRun != nil {
		onRun(cmd)
	}

	line := commandLine(cmd)
	for _, r := range rules {
		if strings.HasPrefix(line, r.prefix) {
			return r.output, r.err
		}
	}
	return nil, nil
}

// Calls returns the recorded commands in order.
func (f *FakeRunner) Calls() []cmdexec.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]cmdexec.Command(nil), f.calls...)
}

// Lines returns the recorded command lines in order.
func (f *FakeRunner) Lines() []string {
	calls := f.Calls()
	lines := make([]string, len(calls))
	for i, c := range calls {
		lines[i] = commandLine(c)
	}
	return lines
}

// Called reports whether any recorded command line starts with prefix.
func (f *FakeRunner) Called(prefix string) bool {
	for _, line := range f.Lines() {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

func commandLine(cmd cmdexec.Command) string {
	name := cmd.Name
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return cmdexec.Command{Name: name, Args: cmd.Args}.String()
}
