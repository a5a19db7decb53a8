package mapping

import (
	"fmt"
	"time"

	"aquarius/internal/archivesspace"
)

// longDate renders "YYYY Month D" with no zero-padded day.
func longDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Year(), t.Month(), t.Day())
}

// MapDates builds the date sub-records for a start/end pair. A later end
// yields an inclusive range; an equal or earlier end collapses to a single
// date. The expression string is the human-readable long-date form.
func MapDates(start, end time.Time) []archivesspace.Date {
	if end.After(start) {
		return []archivesspace.Date{{
			Expression:    fmt.Sprintf("%s - %s", longDate(start), longDate(end)),
			Begin:         start.Format("2006-01-02"),
			End:           end.Format("2006-01-02"),
			DateType:      "inclusive",
			Label:         "creation",
			JSONModelType: "date",
		}}
	}
	return []archivesspace.Date{{
		Expression:    longDate(start),
		Begin:         start.Format("2006-01-02"),
		DateType:      "single",
		Label:         "creation",
		JSONModelType: "date",
	}}
}
