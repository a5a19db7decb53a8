// Command aquarius runs the transfer-metadata pipeline: an HTTP API for
// package ingestion and stage triggers, a scheduled batch runner, and queue
// inspection utilities.
package main
