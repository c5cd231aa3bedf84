// Package config loads, normalizes, and validates the stationpack TOML
// configuration.
//
// Load applies repository defaults for any missing keys, expands ~ paths,
// and rejects configurations that violate cross-field constraints (for
// example a logo budget that is not strictly smaller than the station
// budget). Derived output paths are exposed as methods so the directory
// layout is defined in exactly one place.
package config
