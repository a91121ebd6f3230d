package naming

import "fmt"

// helmReleaseSecretPrefix is the name prefix of Helm v3 release storage secrets.
const helmReleaseSecretPrefix = "sh.helm.release.v1"

// ReleaseSecretPattern matches every revision secret of a release.
func ReleaseSecretPattern(release string) string {
	return fmt.Sprintf("%s.%s.*", helmReleaseSecretPrefix, release)
}

// ValuesFilePattern is the os.CreateTemp pattern for a release values file.
func ValuesFilePattern(release string) string {
	return fmt.Sprintf("%s-values-*.yaml", release)
}
