// Package config loads, normalizes, and validates moviefinder configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// TMDB_API_TOKEN (also read from a .env file). The Config type centralizes
// every knob the server and CLI need so the catalog credential is resolved in
// one place and injected into the TMDB client rather than read ad hoc.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical language tags, and clear validation errors.
package config
