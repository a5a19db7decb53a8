// Package mapping holds the pure field-mapping rules that translate source
// records into target-schema payloads: date ranges, extents, language and
// scope notes, rights statements, agent names and accession-number
// segmentation. No I/O happens here; missing required fields fail loudly.
package mapping
