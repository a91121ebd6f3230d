// Package config defines the handler configuration.
//
// Configuration is read once per process from environment variables by [Load]
// and passed explicitly to the lifecycle handler, so no step performs an
// ambient environment lookup of its own. The Helm release identity is part of
// this configuration and defaults to [DefaultReleaseName].
package config
