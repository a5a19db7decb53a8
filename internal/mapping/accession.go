package mapping

import (
	"strings"

	"aquarius/internal/archivesspace"
	"aquarius/internal/packages"
)

// Accession maps a source accession record into the target accession
// payload. The accession number arrives pre-segmented (year, sequence, ...)
// and linked agents are resolved references supplied by the caller.
func Accession(record *packages.AccessionRecord, numberSegments []string, agents []archivesspace.LinkedAgent) (*archivesspace.Accession, error) {
	if record == nil {
		return nil, missingField("accession", "record")
	}
	if strings.TrimSpace(record.Title) == "" {
		return nil, missingField("accession", "title")
	}
	if record.StartDate.IsZero() || record.EndDate.IsZero() {
		return nil, missingField("accession", "start_date/end_date")
	}

	rights, err := MapRightsStatements(record.RightsStatements)
	if err != nil {
		return nil, err
	}

	target := &archivesspace.Accession{
		JSONModelType:          "accession",
		Title:                  record.Title,
		AccessionDate:          record.AccessionDate,
		ContentDescription:     record.Description,
		AcquisitionType:        record.AcquisitionType,
		UseRestrictionsNote:    record.UseRestrictions,
		AccessRestrictionsNote: record.AccessRestrictions,
		ExternalIDs:            []archivesspace.ExternalID{archivesspace.NewExternalID(record.URL)},
		Extents:                MapExtents(record.ExtentSize, record.ExtentFiles),
		Dates:                  MapDates(record.StartDate, record.EndDate),
		RightsStatements:       rights,
		LinkedAgents:           agents,
		Publish:                false,
	}
	if record.Language != "" {
		target.LangMaterials = []archivesspace.LangMaterial{archivesspace.NewLangMaterial(record.Language)}
	}
	if record.Resource != "" {
		target.RelatedResources = []archivesspace.Ref{{Ref: record.Resource}}
	}

	ids := []*string{&target.ID0, &target.ID1, &target.ID2, &target.ID3}
	for i, segment := range numberSegments {
		if i >= len(ids) {
			break
		}
		if segment != "" {
			*ids[i] = segment
		}
	}
	return target, nil
}
