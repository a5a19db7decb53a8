package mapping

import (
	"strings"

	"aquarius/internal/archivesspace"
	"aquarius/internal/language"
	"aquarius/internal/packages"
)

// GroupingComponent maps a source accession record into the collection-level
// (recordgrp) archival object that groups its transfers.
func GroupingComponent(record *packages.AccessionRecord, resource string, agents []archivesspace.LinkedAgent) (*archivesspace.ArchivalObject, error) {
	if record == nil {
		return nil, missingField("accession", "record")
	}
	if strings.TrimSpace(record.Title) == "" {
		return nil, missingField("accession", "title")
	}
	if record.StartDate.IsZero() || record.EndDate.IsZero() {
		return nil, missingField("accession", "start_date/end_date")
	}
	if strings.TrimSpace(resource) == "" {
		return nil, missingField("accession", "resource")
	}

	rights, err := MapRightsStatements(record.RightsStatements)
	if err != nil {
		return nil, err
	}

	target := &archivesspace.ArchivalObject{
		JSONModelType:    "archival_object",
		Title:            record.Title,
		Level:            "recordgrp",
		Language:         record.Language,
		ExternalIDs:      []archivesspace.ExternalID{archivesspace.NewExternalID(record.URL)},
		Extents:          MapExtents(record.ExtentSize, record.ExtentFiles),
		Dates:            MapDates(record.StartDate, record.EndDate),
		RightsStatements: rights,
		LinkedAgents:     agents,
		Resource:         &archivesspace.Ref{Ref: resource},
		Publish:          false,
	}
	if record.Language != "" {
		target.LangMaterials = []archivesspace.LangMaterial{archivesspace.NewLangMaterial(record.Language)}
	}

	for _, note := range []struct {
		text string
		kind string
	}{
		{record.AccessRestrictions, "accessrestrict"},
		{record.UseRestrictions, "userestrict"},
		{record.Description, "scopecontent"},
		{record.AppraisalNote, "general_note"},
	} {
		if mapped := MultipartNote(note.text, note.kind); mapped != nil {
			target.Notes = append(target.Notes, *mapped)
		}
	}
	return target, nil
}

// TransferComponent maps a source transfer record into the file-level
// archival object representing one transfer.
func TransferComponent(record *packages.TransferRecord, resource string) (*archivesspace.ArchivalObject, error) {
	if record == nil {
		return nil, missingField("transfer", "record")
	}
	meta := record.Metadata
	if strings.TrimSpace(meta.Title) == "" {
		return nil, missingField("transfer", "metadata.title")
	}
	if meta.DateStart.IsZero() || meta.DateEnd.IsZero() {
		return nil, missingField("transfer", "metadata.date_start/date_end")
	}
	sizeBytes, fileCount, err := meta.Oxum()
	if err != nil {
		return nil, malformedField("transfer", "metadata.payload_oxum", err)
	}

	rights, err := MapRightsStatements(record.RightsStatements)
	if err != nil {
		return nil, err
	}

	target := &archivesspace.ArchivalObject{
		JSONModelType:    "archival_object",
		Title:            meta.Title,
		Level:            "file",
		Language:         language.Collapse(meta.Language),
		ExternalIDs:      []archivesspace.ExternalID{archivesspace.NewExternalID(record.URL)},
		Extents:          MapExtents(sizeBytes, fileCount),
		Dates:            MapDates(meta.DateStart, meta.DateEnd),
		RightsStatements: rights,
		Publish:          false,
	}
	for _, code := range language.Normalize(meta.Language) {
		target.LangMaterials = append(target.LangMaterials, archivesspace.NewLangMaterial(code))
	}
	target.Notes = append(target.Notes, LanguageNote(meta.Language))
	if note := ScopeContentNote(meta.InternalSenderDescription); note != nil {
		target.Notes = append(target.Notes, *note)
	}
	if resource != "" {
		target.Resource = &archivesspace.Ref{Ref: resource}
	}
	if record.ArchivesSpaceParentIdentifier != "" {
		target.Parent = &archivesspace.Ref{Ref: record.ArchivesSpaceParentIdentifier}
	}
	return target, nil
}
