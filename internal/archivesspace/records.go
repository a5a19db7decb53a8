package archivesspace

// Record payloads mirror the target system's JSONModel schemas. Only the
// fields the pipeline writes are modeled; constructors fill the
// jsonmodel_type discriminators.

// Ref is a reference to another record.
type Ref struct {
	Ref string `json:"ref"`
}

// ExternalID links a record back to its source-system URL.
type ExternalID struct {
	ExternalID    string `json:"external_id"`
	Source        string `json:"source"`
	JSONModelType string `json:"jsonmodel_type"`
}

// NewExternalID builds an external_id sub-record with source "aurora".
func NewExternalID(url string) ExternalID {
	return ExternalID{ExternalID: url, Source: "aurora", JSONModelType: "external_id"}
}

// Date is a structured date sub-record.
type Date struct {
	Expression    string `json:"expression,omitempty"`
	Begin         string `json:"begin,omitempty"`
	End           string `json:"end,omitempty"`
	DateType      string `json:"date_type"`
	Label         string `json:"label"`
	JSONModelType string `json:"jsonmodel_type"`
}

// Extent is a quantity-of-material sub-record.
type Extent struct {
	Number        string `json:"number"`
	ExtentType    string `json:"extent_type"`
	Portion       string `json:"portion"`
	JSONModelType string `json:"jsonmodel_type"`
}

// Subnote is the text body of a multipart note.
type Subnote struct {
	Content       string `json:"content"`
	Publish       bool   `json:"publish"`
	JSONModelType string `json:"jsonmodel_type"`
}

// Note covers singlepart, multipart and rights-statement notes; unused
// fields stay empty per note shape.
type Note struct {
	JSONModelType string    `json:"jsonmodel_type"`
	Type          string    `json:"type,omitempty"`
	Publish       bool      `json:"publish"`
	Content       []string  `json:"content,omitempty"`
	Subnotes      []Subnote `json:"subnotes,omitempty"`
}

// LanguageAndScript carries a language code on a lang_material.
type LanguageAndScript struct {
	Language      string `json:"language"`
	JSONModelType string `json:"jsonmodel_type"`
}

// LangMaterial is a language-of-materials sub-record.
type LangMaterial struct {
	LanguageAndScript *LanguageAndScript `json:"language_and_script,omitempty"`
	Notes             []Note             `json:"notes,omitempty"`
	JSONModelType     string             `json:"jsonmodel_type"`
}

// NewLangMaterial builds a lang_material for a single language code.
func NewLangMaterial(code string) LangMaterial {
	return LangMaterial{
		LanguageAndScript: &LanguageAndScript{Language: code, JSONModelType: "language_and_script"},
		JSONModelType:     "lang_material",
	}
}

// RightsStatementAct is one granted or restricted act on a rights statement.
type RightsStatementAct struct {
	ActType       string `json:"act_type"`
	Restriction   string `json:"restriction"`
	StartDate     string `json:"start_date,omitempty"`
	EndDate       string `json:"end_date,omitempty"`
	Notes         []Note `json:"notes,omitempty"`
	JSONModelType string `json:"jsonmodel_type"`
}

// RightsStatement is a PREMIS rights statement in target-schema form.
type RightsStatement struct {
	RightsType        string               `json:"rights_type"`
	OtherRightsBasis  string               `json:"other_rights_basis,omitempty"`
	Jurisdiction      string               `json:"jurisdiction,omitempty"`
	DeterminationDate string               `json:"determination_date,omitempty"`
	StartDate         string               `json:"start_date,omitempty"`
	EndDate           string               `json:"end_date,omitempty"`
	Status            string               `json:"status,omitempty"`
	LicenseTerms      string               `json:"license_terms,omitempty"`
	StatuteCitation   string               `json:"statute_citation,omitempty"`
	Acts              []RightsStatementAct `json:"acts,omitempty"`
	Notes             []Note               `json:"notes,omitempty"`
	JSONModelType     string               `json:"jsonmodel_type"`
}

// AgentName is a name form on an agent record. Person names use
// primary/rest/name-order; family and corporate names use a single field.
type AgentName struct {
	PrimaryName          string `json:"primary_name,omitempty"`
	FamilyName           string `json:"family_name,omitempty"`
	RestOfName           string `json:"rest_of_name,omitempty"`
	NameOrder            string `json:"name_order,omitempty"`
	SortNameAutoGenerate bool   `json:"sort_name_auto_generate"`
	JSONModelType        string `json:"jsonmodel_type"`
}

// Agent is an agent record of any type (person, corporate entity, family).
type Agent struct {
	JSONModelType string      `json:"jsonmodel_type"`
	AgentType     string      `json:"agent_type"`
	Names         []AgentName `json:"names"`
	Publish       bool        `json:"publish"`
}

// LinkedAgent ties an agent reference to a record with a role.
type LinkedAgent struct {
	Role  string   `json:"role"`
	Terms []string `json:"terms"`
	Ref   string   `json:"ref"`
}

// Accession is the top-level accession record.
type Accession struct {
	JSONModelType          string            `json:"jsonmodel_type"`
	ID0                    string            `json:"id_0,omitempty"`
	ID1                    string            `json:"id_1,omitempty"`
	ID2                    string            `json:"id_2,omitempty"`
	ID3                    string            `json:"id_3,omitempty"`
	Title                  string            `json:"title"`
	AccessionDate          string            `json:"accession_date,omitempty"`
	ContentDescription     string            `json:"content_description,omitempty"`
	AcquisitionType        string            `json:"acquisition_type,omitempty"`
	UseRestrictionsNote    string            `json:"use_restrictions_note,omitempty"`
	AccessRestrictionsNote string            `json:"access_restrictions_note,omitempty"`
	ExternalIDs            []ExternalID      `json:"external_ids,omitempty"`
	Extents                []Extent          `json:"extents,omitempty"`
	Dates                  []Date            `json:"dates,omitempty"`
	RightsStatements       []RightsStatement `json:"rights_statements,omitempty"`
	LangMaterials          []LangMaterial    `json:"lang_materials,omitempty"`
	LinkedAgents           []LinkedAgent     `json:"linked_agents,omitempty"`
	RelatedResources       []Ref             `json:"related_resources,omitempty"`
	Publish                bool              `json:"publish"`
}

// ArchivalObject covers both grouping (recordgrp) and transfer (file)
// components.
type ArchivalObject struct {
	JSONModelType    string            `json:"jsonmodel_type"`
	Title            string            `json:"title"`
	Level            string            `json:"level"`
	Language         string            `json:"language,omitempty"`
	ExternalIDs      []ExternalID      `json:"external_ids,omitempty"`
	Extents          []Extent          `json:"extents,omitempty"`
	Dates            []Date            `json:"dates,omitempty"`
	RightsStatements []RightsStatement `json:"rights_statements,omitempty"`
	Notes            []Note            `json:"notes,omitempty"`
	LangMaterials    []LangMaterial    `json:"lang_materials,omitempty"`
	LinkedAgents     []LinkedAgent     `json:"linked_agents,omitempty"`
	Resource         *Ref              `json:"resource,omitempty"`
	Parent           *Ref              `json:"parent,omitempty"`
	Publish          bool              `json:"publish"`
}

// FileVersion is one stored representation of a digital object.
type FileVersion struct {
	FileURI       string `json:"file_uri"`
	UseStatement  string `json:"use_statement,omitempty"`
	JSONModelType string `json:"jsonmodel_type"`
}

// DigitalObject is the top-level digital-object record.
type DigitalObject struct {
	JSONModelType   string        `json:"jsonmodel_type"`
	Title           string        `json:"title"`
	DigitalObjectID string        `json:"digital_object_id"`
	FileVersions    []FileVersion `json:"file_versions,omitempty"`
	Publish         bool          `json:"publish"`
}

// Instance links a digital object onto an archival object.
type Instance struct {
	InstanceType  string `json:"instance_type"`
	DigitalObject Ref    `json:"digital_object"`
	JSONModelType string `json:"jsonmodel_type"`
}

// NewDigitalObjectInstance builds the instance entry appended to a transfer
// component when its digital object is created.
func NewDigitalObjectInstance(ref string) Instance {
	return Instance{
		InstanceType:  "digital_object",
		DigitalObject: Ref{Ref: ref},
		JSONModelType: "instance",
	}
}
