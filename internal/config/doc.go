// Package config loads, normalizes, and validates ssxwatch configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the collector daemon and CLI need: which result files to watch and with
// what parser kind, polling cadence, archive location, and log routing.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical log formats, and clear validation errors.
package config
