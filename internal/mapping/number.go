package mapping

import "strings"

// AccessionNumberDelimiter separates the ordered segments of an accession
// number as stored on the source record.
const AccessionNumberDelimiter = ":"

// SegmentAccessionNumber splits an accession-number value into its ordered
// identifier segments (id_0, id_1, ...). Empty segments are dropped.
func SegmentAccessionNumber(number string) []string {
	parts := strings.Split(number, AccessionNumberDelimiter)
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			segments = append(segments, trimmed)
		}
	}
	return segments
}

// JoinAccessionNumber is the inverse of SegmentAccessionNumber.
func JoinAccessionNumber(segments []string) string {
	kept := make([]string, 0, len(segments))
	for _, segment := range segments {
		if segment != "" {
			kept = append(kept, segment)
		}
	}
	return strings.Join(kept, AccessionNumberDelimiter)
}
