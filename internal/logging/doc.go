// Package logging builds the slog loggers used throughout mediapress and
// provides the shared attribute helpers and field names.
package logging
