// Package config loads, normalizes, and validates tunelib configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// TUNELIB_DATA_DIR. Store files given as relative paths are resolved against
// the data directory, and the catalog index against the catalog directory,
// so downstream code only ever sees absolute paths.
package config
