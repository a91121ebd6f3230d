package helm

import (
	"fmt"
	"os"

	"helm.sh/helm/v3/pkg/chartutil"

	"github.com/imamik/eks-helm-handler/internal/util/naming"
)

// ValuesFile is a values payload written to disk for one invocation.
type ValuesFile struct {
	Path string
}

// WriteValuesFile writes content to a new temporary file in dir (the OS temp
// dir when empty). The file is closed before returning, so its contents are
// complete when helm reads it.
func WriteValuesFile(dir, release, content string) (*ValuesFile, error) {
	tmpfile, err := os.CreateTemp(dir, naming.ValuesFilePattern(release))
	if err != nil {
		return nil, fmt.Errorf("failed to create temp values file: %w", err)
	}

	if _, err := tmpfile.WriteString(content); err != nil {
		_ = tmpfile.Close()
		_ = os.Remove(tmpfile.Name())
		return nil, fmt.Errorf("failed to write values file: %w", err)
	}

	if err := tmpfile.Sync(); err != nil {
		_ = tmpfile.Close()
		_ = os.Remove(tmpfile.Name())
		return nil, fmt.Errorf("failed to flush values file: %w", err)
	}

	if err := tmpfile.Close(); err != nil {
		_ = os.Remove(tmpfile.Name())
		return nil, fmt.Errorf("failed to close values file: %w", err)
	}

	return &ValuesFile{Path: tmpfile.Name()}, nil
}

// Remove deletes the file. Removing an already removed file is not an error.
func (f *ValuesFile) Remove() error {
	if err := os.Remove(f.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove values file: %w", err)
	}
	return nil
}

// ValidateValues parses content the way helm parses a -f file.
func ValidateValues(content string) error {
	if _, err := chartutil.ReadValues([]byte(content)); err != nil {
		return fmt.Errorf("invalid values YAML: %w", err)
	}
	return nil
}
