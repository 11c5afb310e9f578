// Package config loads, normalizes, and validates the intake TOML
// configuration. Load starts from repository defaults, overlays the config
// file when present, expands paths, applies environment fallbacks for
// secrets, and rejects unusable values before the rest of the system starts.
package config
