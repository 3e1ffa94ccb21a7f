// Package config loads the configuration of the lending server and builds
// the infrastructure it describes.
//
// The configuration is read from a YAML file, environment variables with the
// LENDING_ prefix override single values. Factory functions create PostgreSQL
// connections using the supported drivers (pgx.Pool, sql.DB, sqlx.DB), the
// slog logger, and the OpenTelemetry providers.
//
// This package is part of the shell (infrastructure) layer.
package config
