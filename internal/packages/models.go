package packages

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Status represents the pipeline position of a Package. Values are spaced so
// the ordering mirrors stage order; a status never decreases.
type Status int

const (
	StatusSaved                    Status = 10
	StatusAccessionCreated         Status = 20
	StatusGroupingComponentCreated Status = 30
	StatusTransferComponentCreated Status = 40
	StatusDigitalObjectCreated     Status = 50
	StatusUpdateSent               Status = 60
	StatusAccessionUpdateSent      Status = 70
)

var statusLabels = map[Status]string{
	StatusSaved:                    "Transfer saved",
	StatusAccessionCreated:         "Accession record created",
	StatusGroupingComponentCreated: "Grouping component created",
	StatusTransferComponentCreated: "Transfer component created",
	StatusDigitalObjectCreated:     "Digital object created",
	StatusUpdateSent:               "Updated transfer data sent to Aurora",
	StatusAccessionUpdateSent:      "Updated accession data sent to Aurora",
}

var allStatuses = []Status{
	StatusSaved,
	StatusAccessionCreated,
	StatusGroupingComponentCreated,
	StatusTransferComponentCreated,
	StatusDigitalObjectCreated,
	StatusUpdateSent,
	StatusAccessionUpdateSent,
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a numeric string into a known Status.
func ParseStatus(value string) (Status, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, false
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, false
	}
	status := Status(n)
	if _, ok := statusLabels[status]; !ok {
		return 0, false
	}
	return status, true
}

// Label returns the human-readable description of a status.
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return fmt.Sprintf("Unknown status %d", int(s))
}

func (s Status) String() string {
	return strconv.Itoa(int(s))
}

// Package origins. Digitization and legacy-digital packages arrive with an
// existing archival-object reference and skip the early stages.
const (
	OriginAurora        = "aurora"
	OriginLegacyDigital = "legacy_digital"
	OriginDigitization  = "digitization"
)

// Package is the unit of work moved through the pipeline. One row per
// ingested bag; bag identifiers repeat when a transfer is resubmitted.
type Package struct {
	ID            int64
	BagIdentifier string
	Type          string // aip or dip
	Origin        string
	FedoraURI     string
	ProcessStatus Status
	Data          *TransferRecord
	AccessionData *AccessionRecord
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// UseStatement returns the file-version use statement for the package type.
func (p *Package) UseStatement() string {
	if p.Type == "aip" {
		return "master"
	}
	return "service-edited"
}

// GroupKey returns the accession-group key shared by sibling packages: the
// source system's accession URL carried on the transfer record.
func (p *Package) GroupKey() string {
	if p.Data == nil {
		return ""
	}
	return p.Data.Accession
}

// Advance raises the process status to next. Statuses are monotonically
// non-decreasing; a lower value is ignored.
func (p *Package) Advance(next Status) {
	if next > p.ProcessStatus {
		p.ProcessStatus = next
	}
}
