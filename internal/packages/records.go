package packages

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TransferRecord is the source system's bag record plus the target-system
// references the pipeline accumulates. Externally-sourced fields are
// refreshed on each stage run; pipeline-derived fields are additive.
type TransferRecord struct {
	URL                           string            `json:"url"`
	Accession                     string            `json:"accession"`
	Metadata                      TransferMetadata  `json:"metadata"`
	RightsStatements              []RightsStatement `json:"rights_statements,omitempty"`
	ArchivesSpaceIdentifier       string            `json:"archivesspace_identifier,omitempty"`
	ArchivesSpaceParentIdentifier string            `json:"archivesspace_parent_identifier,omitempty"`
	ProcessStatus                 int               `json:"process_status,omitempty"`
}

// TransferMetadata carries the bag-level descriptive metadata.
type TransferMetadata struct {
	Title                     string    `json:"title"`
	InternalSenderDescription string    `json:"internal_sender_description,omitempty"`
	DateStart                 time.Time `json:"date_start"`
	DateEnd                   time.Time `json:"date_end"`
	Language                  []string  `json:"language,omitempty"`
	PayloadOxum               string    `json:"payload_oxum"`
}

// Oxum splits the payload oxum ("<bytes>.<files>") into its two counts.
func (m TransferMetadata) Oxum() (int64, int64, error) {
	parts := strings.SplitN(strings.TrimSpace(m.PayloadOxum), ".", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed payload oxum %q", m.PayloadOxum)
	}
	size, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed payload oxum %q: %w", m.PayloadOxum, err)
	}
	files, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed payload oxum %q: %w", m.PayloadOxum, err)
	}
	return size, files, nil
}

// AccessionRecord is the accession-level record shared by sibling packages.
// Each sibling owns an independent copy; propagation keeps the copies
// field-for-field equal.
type AccessionRecord struct {
	URL                     string            `json:"url"`
	Title                   string            `json:"title"`
	Description             string            `json:"description,omitempty"`
	AccessionDate           string            `json:"accession_date,omitempty"`
	StartDate               time.Time         `json:"start_date"`
	EndDate                 time.Time         `json:"end_date"`
	ExtentSize              int64             `json:"extent_size"`
	ExtentFiles             int64             `json:"extent_files"`
	AcquisitionType         string            `json:"acquisition_type,omitempty"`
	UseRestrictions         string            `json:"use_restrictions,omitempty"`
	AccessRestrictions      string            `json:"access_restrictions,omitempty"`
	AppraisalNote           string            `json:"appraisal_note,omitempty"`
	Language                string            `json:"language,omitempty"`
	Creators                []Creator         `json:"creators,omitempty"`
	RightsStatements        []RightsStatement `json:"rights_statements,omitempty"`
	Resource                string            `json:"resource,omitempty"`
	Transfers               []TransferPointer `json:"transfers,omitempty"`
	AccessionNumber         string            `json:"accession_number,omitempty"`
	ArchivesSpaceIdentifier string            `json:"archivesspace_identifier,omitempty"`
	ProcessStatus           int               `json:"process_status,omitempty"`
}

// Clone returns a deep copy so sibling packages never share slices.
func (a *AccessionRecord) Clone() *AccessionRecord {
	if a == nil {
		return nil
	}
	cp := *a
	cp.Creators = append([]Creator(nil), a.Creators...)
	cp.Transfers = append([]TransferPointer(nil), a.Transfers...)
	cp.RightsStatements = make([]RightsStatement, len(a.RightsStatements))
	for i, rs := range a.RightsStatements {
		cp.RightsStatements[i] = rs
		cp.RightsStatements[i].RightsGranted = append([]RightsGranted(nil), rs.RightsGranted...)
	}
	return &cp
}

// Creator is an agent description on a source accession.
type Creator struct {
	Name string `json:"name"`
	Type string `json:"type"` // person, organization or family
}

// TransferPointer links an accession to the transfers it covers.
type TransferPointer struct {
	Identifier string `json:"identifier"`
	URL        string `json:"url,omitempty"`
}

// RightsStatement is the source representation of a PREMIS rights statement.
type RightsStatement struct {
	RightsBasis       string          `json:"rights_basis"`
	OtherRightsBasis  string          `json:"other_rights_basis,omitempty"`
	Jurisdiction      string          `json:"jurisdiction,omitempty"`
	DeterminationDate string          `json:"determination_date,omitempty"`
	StartDate         string          `json:"start_date,omitempty"`
	EndDate           string          `json:"end_date,omitempty"`
	Status            string          `json:"status,omitempty"`
	LicenseTerms      string          `json:"license_terms,omitempty"`
	Citation          string          `json:"citation,omitempty"`
	Note              string          `json:"note,omitempty"`
	RightsGranted     []RightsGranted `json:"rights_granted,omitempty"`
}

// RightsGranted is a single granted/restricted act on a rights statement.
type RightsGranted struct {
	Act         string `json:"act"`
	Restriction string `json:"restriction"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	Note        string `json:"note,omitempty"`
}
