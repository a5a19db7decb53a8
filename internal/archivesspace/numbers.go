package archivesspace

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// sequenceWidth is the zero-padded width of the accession-number sequence
// segment.
const sequenceWidth = 3

// NextAccessionNumber returns the next (year, sequence) pair for the current
// year, derived from the highest sequence the target system currently holds.
// The read is not transactional; a concurrent writer can claim the same
// number between this call and the subsequent create, which surfaces as
// ErrDuplicateAccessionNumber there.
func (c *Client) NextAccessionNumber(ctx context.Context) (string, string, error) {
	year := strconv.Itoa(time.Now().Year())

	result, err := c.search(ctx, "accession", "four_part_id", year, "four_part_id desc")
	if err != nil {
		return "", "", fmt.Errorf("%w: accession number search: %w", ErrRetrieve, err)
	}
	if result.TotalHits < 1 || len(result.Results) == 0 {
		return year, formatSequence(1), nil
	}

	segments := strings.Split(result.Results[0].Identifier, "-")
	if len(segments) < 2 || segments[0] != year {
		return year, formatSequence(1), nil
	}
	current, err := strconv.Atoi(segments[1])
	if err != nil {
		return "", "", fmt.Errorf("%w: malformed accession identifier %q", ErrRetrieve, result.Results[0].Identifier)
	}
	return year, formatSequence(current + 1), nil
}

// BumpSequence increments a zero-padded sequence segment, preserving width.
func BumpSequence(sequence string) (string, error) {
	current, err := strconv.Atoi(strings.TrimSpace(sequence))
	if err != nil {
		return "", fmt.Errorf("malformed sequence segment %q", sequence)
	}
	return formatSequence(current + 1), nil
}

func formatSequence(n int) string {
	return fmt.Sprintf("%0*d", sequenceWidth, n)
}
