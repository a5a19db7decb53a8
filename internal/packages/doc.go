// Package packages defines the Package unit of work, its process-status
// state machine values, the source record documents it carries, and the
// SQLite store that persists it all.
package packages
