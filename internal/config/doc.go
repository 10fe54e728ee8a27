// Package config loads, normalizes, and validates podclaw configuration data.
//
// It supplies repository defaults, resolves the storage and log file locations
// against the platform config directory (falling back to the working directory
// when none exists), expands tilde shortcuts, and reads an optional TOML file.
// The Config type centralizes every knob the CLI needs so commands receive
// sanitized paths and clear validation errors from one place.
package config
