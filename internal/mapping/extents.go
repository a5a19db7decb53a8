package mapping

import (
	"strconv"

	"aquarius/internal/archivesspace"
)

// MapExtents builds the two whole-portion extent entries every record
// carries: a byte count and a file count.
func MapExtents(sizeBytes, fileCount int64) []archivesspace.Extent {
	return []archivesspace.Extent{
		{
			Number:        strconv.FormatInt(sizeBytes, 10),
			ExtentType:    "bytes",
			Portion:       "whole",
			JSONModelType: "extent",
		},
		{
			Number:        strconv.FormatInt(fileCount, 10),
			ExtentType:    "files",
			Portion:       "whole",
			JSONModelType: "extent",
		},
	}
}
