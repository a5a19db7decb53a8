// Package api exposes the HTTP trigger surface: package ingestion, package
// queries, stage runs, and the queue status summary.
package api
