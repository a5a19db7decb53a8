// Package testsupport provides shared test helpers: temp-dir configs, a
// store opener, and in-memory fakes for the source and target clients.
package testsupport
