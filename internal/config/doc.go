// Package config loads, normalizes, and validates fpdedup configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// FPDEDUP_SOURCE_DIR. Command-line flags are layered on top by the CLI after
// Load returns.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, a canonical copy-error policy, and clear validation errors.
package config
