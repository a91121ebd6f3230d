// Package helm drives the helm CLI for a single named release.
//
// It materializes the values payload to a temporary file, validates it with
// Helm's own values parser, and runs `helm upgrade --install --wait --atomic`
// or `helm uninstall`. Chart rendering and cluster interaction stay inside the
// helm binary.
package helm
