// Package logging centralizes slog construction and the shared attribute
// vocabulary so every component logs the same field names.
package logging
