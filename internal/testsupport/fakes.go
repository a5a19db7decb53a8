package testsupport

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"aquarius/internal/archivesspace"
	"aquarius/internal/aurora"
)

// UpdateCall records one write sent to a fake client.
type UpdateCall struct {
	URL  string
	Body json.RawMessage
}

// CreateCall records one record created against the fake target.
type CreateCall struct {
	Kind string
	Body json.RawMessage
}

// FakeSource is an in-memory stand-in for the Aurora client. Records are
// keyed by URL and bags by identifier; values round-trip through JSON so any
// struct can be stored and decoded into another.
type FakeSource struct {
	Bags    map[string]any
	Records map[string]any
	Updates []UpdateCall
}

// NewFakeSource returns an empty fake source client.
func NewFakeSource() *FakeSource {
	return &FakeSource{
		Bags:    make(map[string]any),
		Records: make(map[string]any),
	}
}

func decodeInto(value, out any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// FindBagByID returns the stored bag record for an identifier.
func (f *FakeSource) FindBagByID(_ context.Context, identifier string, out any) error {
	bag, ok := f.Bags[identifier]
	if !ok {
		return fmt.Errorf("%w: bag %q", aurora.ErrNotFound, identifier)
	}
	return decodeInto(bag, out)
}

// Retrieve returns the stored record for a URL.
func (f *FakeSource) Retrieve(_ context.Context, rawURL string, out any) error {
	record, ok := f.Records[rawURL]
	if !ok {
		return fmt.Errorf("%w: %s", aurora.ErrNotFound, rawURL)
	}
	return decodeInto(record, out)
}

// Update records the write and stores the new record body under its URL.
func (f *FakeSource) Update(_ context.Context, rawURL string, record any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	f.Updates = append(f.Updates, UpdateCall{URL: rawURL, Body: data})
	f.Records[rawURL] = json.RawMessage(data)
	return nil
}

// FakeTarget is an in-memory stand-in for the ArchivesSpace client. Created
// records get sequential references per kind. Existing maps "kind|value"
// lookup keys to references for GetOrCreate hits; DuplicateCreates makes the
// first N accession creates fail with the number-collision error.
type FakeTarget struct {
	Existing         map[string]string
	Documents        map[string]map[string]any
	Created          []CreateCall
	Updates          []UpdateCall
	DuplicateCreates int
	Year             string
	Sequence         string

	counters map[string]int
}

// NewFakeTarget returns an empty fake target client that hands out the
// given (year, sequence) as the next accession number.
func NewFakeTarget(year, sequence string) *FakeTarget {
	return &FakeTarget{
		Existing:  make(map[string]string),
		Documents: make(map[string]map[string]any),
		Year:      year,
		Sequence:  sequence,
		counters:  make(map[string]int),
	}
}

func (f *FakeTarget) nextRef(kind string) string {
	f.counters[kind]++
	return fmt.Sprintf("/fake/%s/%d", kind, f.counters[kind])
}

// CreatedOfKind returns how many records of the kind were created.
func (f *FakeTarget) CreatedOfKind(kind string) int {
	n := 0
	for _, call := range f.Created {
		if call.Kind == kind {
			n++
		}
	}
	return n
}

// Create records the payload and returns a fresh reference.
func (f *FakeTarget) Create(_ context.Context, kind string, payload any) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	if kind == archivesspace.KindAccession && f.DuplicateCreates > 0 {
		f.DuplicateCreates--
		return "", fmt.Errorf("%w: id_1 already in use", archivesspace.ErrDuplicateAccessionNumber)
	}
	f.Created = append(f.Created, CreateCall{Kind: kind, Body: data})
	ref := f.nextRef(kind)
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err == nil {
		doc["uri"] = ref
		f.Documents[ref] = doc
	}
	return ref, nil
}

// Update records the write against a reference.
func (f *FakeTarget) Update(_ context.Context, ref string, payload any) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	f.Updates = append(f.Updates, UpdateCall{URL: ref, Body: data})
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err == nil {
		f.Documents[ref] = doc
	}
	return ref, nil
}

// RetrieveJSON returns the stored document for a reference.
func (f *FakeTarget) RetrieveJSON(_ context.Context, ref string) (map[string]any, error) {
	doc, ok := f.Documents[ref]
	if !ok {
		return nil, fmt.Errorf("%w: %s", archivesspace.ErrRetrieve, ref)
	}
	return doc, nil
}

// GetOrCreate returns the pre-seeded reference when one exists, otherwise
// creates the record.
func (f *FakeTarget) GetOrCreate(ctx context.Context, kind, field, value string, _ time.Time, payload any) (string, error) {
	_ = field
	if ref, ok := f.Existing[kind+"|"+value]; ok {
		return ref, nil
	}
	ref, err := f.Create(ctx, kind, payload)
	if err != nil {
		return "", err
	}
	f.Existing[kind+"|"+value] = ref
	return ref, nil
}

// NextAccessionNumber returns the configured (year, sequence) pair.
func (f *FakeTarget) NextAccessionNumber(context.Context) (string, string, error) {
	return f.Year, f.Sequence, nil
}
