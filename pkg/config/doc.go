// Package config handles configuration management for aitk.
// It layers the embedded defaults, an optional aitk.toml at the toolkit
// root, AITK_ environment variables and command-line overrides, in that
// order, into a single Config.
package config
