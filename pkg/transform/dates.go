// Package transform contains the pure mapping stage of the pipeline: the
// date normalizer, the four dimension transformers and the fact transformer.
// Nothing in this package touches a database.
package transform

import (
	"database/sql"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var (
	isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	mdyDatePattern = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`)
)

// absentDateValues are string spellings of "no value" that leak out of the
// source exports alongside genuinely empty fields.
var absentDateValues = map[string]struct{}{
	"":     {},
	"nan":  {},
	"NaT":  {},
	"None": {},
}

// ParseDate parses the heterogeneous date strings found in the source.
// Strict formats are tried first so that an unambiguous value is never
// handed to the permissive parser, which could silently swap day and month:
//
//  1. YYYY-MM-DD
//  2. M/D/YYYY (one- or two-digit month and day)
//  3. generic best-effort parse (handles embedded time-of-day)
//
// Results are normalized to UTC. ParseDate never fails: whitespace-only and
// sentinel inputs as well as unparseable strings report ok=false, which
// callers must treat as a null date reference.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if _, absent := absentDateValues[s]; absent {
		return time.Time{}, false
	}

	if isoDatePattern.MatchString(s) {
		if t, err := time.ParseInLocation("2006-01-02", s, time.UTC); err == nil {
			return t, true
		}
	} else if mdyDatePattern.MatchString(s) {
		if t, err := time.ParseInLocation("1/2/2006", s, time.UTC); err == nil {
			return t, true
		}
	}

	// A strict pattern that matched but failed to parse (e.g. month 13)
	// also ends up here, mirroring coerce-then-fallback behavior.
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// ParseNullDate is ParseDate over a nullable source column.
func ParseNullDate(raw sql.NullString) (time.Time, bool) {
	if !raw.Valid {
		return time.Time{}, false
	}
	return ParseDate(raw.String)
}

// DateID converts an instant to the dim_date surrogate key for its UTC
// calendar day: year*10000 + month*100 + day.
func DateID(t time.Time) int64 {
	t = t.UTC()
	return int64(t.Year())*10000 + int64(t.Month())*100 + int64(t.Day())
}
