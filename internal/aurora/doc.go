// Package aurora is the client for the source system of record. The pipeline
// reads transfer and accession records from it and reports completion back.
package aurora
