// Package prerequisites checks that the command-line tools the handler drives
// are installed.
package prerequisites

import (
	"fmt"
	"os/exec"
	"strings"
)

// Tool represents a client tool that may be required.
type Tool struct {
	// Name is the binary name to look for in PATH.
	Name string

	// Required indicates if this tool is mandatory.
	Required bool

	// Description explains what the tool is used for.
	Description string

	// InstallURL provides a URL for installation instructions.
	InstallURL string

	// VersionArgs prints the tool version. Empty skips version detection.
	VersionArgs []string
}

// Binaries names the executables used for each collaborator.
type Binaries struct {
	AWS     string
	Kubectl string
	Helm    string
}

// DefaultTools returns the tools every lifecycle invocation needs.
func DefaultTools(bins Binaries) []Tool {
	return []Tool{
		{
			Name:        bins.AWS,
			Required:    true,
			Description: "Writes kubeconfig credentials for the EKS cluster",
			InstallURL:  "https://docs.aws.amazon.com/cli/latest/userguide/getting-started-install.html",
			VersionArgs: []string{"--version"},
		},
		{
			Name:        bins.Kubectl,
			Required:    true,
			Description: "Ensures the target namespace and removes release secrets",
			InstallURL:  "https://kubernetes.io/docs/tasks/tools/",
			VersionArgs: []string{"version", "--client"},
		},
		{
			Name:        bins.Helm,
			Required:    true,
			Description: "Installs, upgrades and uninstalls the chart release",
			InstallURL:  "https://helm.sh/docs/intro/install/",
			VersionArgs: []string{"version", "--short"},
		},
	}
}

// CheckResult contains the result of checking a single tool.
type CheckResult struct {
	Tool    Tool
	Found   bool
	Path    string
	Version string
}

// CheckResults contains the results of checking multiple tools.
type CheckResults struct {
	Results []CheckResult
	Missing []Tool
}

// HasErrors returns true if any required tools are missing.
func (r *CheckResults) HasErrors() bool {
	for _, tool := range r.Missing {
		if tool.Required {
			return true
		}
	}
	return false
}

// Error returns an error if any required tools are missing.
func (r *CheckResults) Error() error {
	var missing []string
	for _, tool := range r.Missing {
		if tool.Required {
			missing = append(missing, fmt.Sprintf("%s (%s)", tool.Name, tool.InstallURL))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
}

// Check verifies that the specified tools are available.
func Check(tools []Tool) *CheckResults {
	results := &CheckResults{}

	for _, tool := range tools {
		result := CheckResult{Tool: tool}

		path, err := exec.LookPath(tool.Name)
		if err == nil {
			result.Found = true
			result.Path = path
			result.Version = getToolVersion(path, tool.VersionArgs)
		} else {
			results.Missing = append(results.Missing, tool)
		}

		results.Results = append(results.Results, result)
	}

	return results
}

// CheckDefault checks the default required tools.
func CheckDefault(bins Binaries) *CheckResults {
	return Check(DefaultTools(bins))
}

// getToolVersion returns the first line the tool prints for its version,
// or an empty string when it cannot be determined.
func getToolVersion(path string, args []string) string {
	if len(args) == 0 {
		return ""
	}

	// #nosec G204 - path was resolved by LookPath, args come from trusted Tool definitions
	output, err := exec.Command(path, args...).Output()
	if err != nil {
		return ""
	}

	lines := strings.Split(string(output), "\n")
	return strings.TrimSpace(lines[0])
}
