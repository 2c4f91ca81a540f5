// Package config loads and validates sigscan's TOML configuration.
//
// Load resolves the config path (flag value, then ~/.config/sigscan/
// config.toml, then a project-local sigscan.toml), decodes it over the
// defaults, expands ~ in path fields, and validates the result. A missing
// file is not an error; defaults apply.
package config
