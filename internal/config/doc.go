// Package config loads, normalizes, and validates mediapress configuration
// from TOML files, applying defaults and expanding user paths.
package config
