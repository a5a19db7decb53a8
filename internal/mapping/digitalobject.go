package mapping

import (
	"strings"

	"aquarius/internal/archivesspace"
)

// DigitalObject maps a stored package's repository URI into the target
// digital-object record. The object ID and title are the URI's trailing
// path segment.
func DigitalObject(fedoraURI, useStatement string) (*archivesspace.DigitalObject, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(fedoraURI), "/")
	if trimmed == "" {
		return nil, missingField("package", "fedora_uri")
	}
	segments := strings.Split(trimmed, "/")
	identifier := segments[len(segments)-1]

	return &archivesspace.DigitalObject{
		JSONModelType:   "digital_object",
		Title:           identifier,
		DigitalObjectID: identifier,
		FileVersions: []archivesspace.FileVersion{{
			FileURI:       fedoraURI,
			UseStatement:  useStatement,
			JSONModelType: "file_version",
		}},
		Publish: false,
	}, nil
}
