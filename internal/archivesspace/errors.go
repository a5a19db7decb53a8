package archivesspace

import "errors"

var (
	// ErrAuth indicates session authentication with the target system failed.
	ErrAuth = errors.New("archivesspace authentication failed")
	// ErrCreate indicates a create call returned a non-success response.
	ErrCreate = errors.New("archivesspace create failed")
	// ErrUpdate indicates an update call returned a non-success response.
	ErrUpdate = errors.New("archivesspace update failed")
	// ErrRetrieve indicates a retrieve call returned a non-success response.
	ErrRetrieve = errors.New("archivesspace retrieve failed")
	// ErrLookup indicates the search index and the fallback scan disagreed or
	// both failed during a get-or-create lookup.
	ErrLookup = errors.New("archivesspace lookup inconsistency")
	// ErrDuplicateAccessionNumber indicates the proposed accession-number
	// segment collides with an existing record. Callers retry with a bumped
	// sequence.
	ErrDuplicateAccessionNumber = errors.New("accession number already in use")
)
