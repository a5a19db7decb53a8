// Package archivesspace is the target-system client: a session-authenticated
// HTTP wrapper exposing create, retrieve, update, a two-phase get-or-create
// that compensates for search-index lag, and the accession-number sequence
// query. It owns the retry-relevant error taxonomy.
package archivesspace
