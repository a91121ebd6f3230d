// Package naming provides consistent names derived from the Helm release identity.
//
// Helm stores release metadata in secrets named sh.helm.release.v1.{release}.v{revision};
// the delete path removes them by pattern. Temporary files written per invocation
// carry the release name so leftovers are easy to attribute.
package naming
