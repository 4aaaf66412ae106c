// Package config loads, normalizes, and validates showstub configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// SONARR_API_KEY and PLEX_TOKEN. Validation collects every missing or
// invalid field into a single error so a broken file is fixed in one
// round trip rather than one failure at a time.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
