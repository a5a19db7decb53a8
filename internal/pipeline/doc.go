// Package pipeline moves packages through the fixed stage sequence that
// turns saved transfers into linked archival description: accession,
// grouping component, transfer component, digital object, and the two
// source-system updates. Stages are data-driven descriptors run by one
// generic engine loop; a package's process status records how far it got
// and is the restart point after any failure.
package pipeline
