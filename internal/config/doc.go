// Package config loads and validates the TOML configuration for shuttle.
//
// Configuration is resolved from an explicit --config path, then
// ~/.config/shuttle/config.toml, then ./shuttle.toml. Defaults are applied
// before parsing so a missing file still yields a runnable config. All path
// fields are expanded (~ and relative) and normalized before validation.
package config
