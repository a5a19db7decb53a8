// Package notifications publishes stage outcomes to an ntfy topic when one
// is configured, and no-ops otherwise.
package notifications
