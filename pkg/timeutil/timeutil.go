// Package timeutil provides the "most recent of the present timestamps"
// merge used wherever a warehouse row is fed by more than one source table.
package timeutil

import (
	"database/sql"
	"time"
)

// Latest returns the latest timestamp among those that are present.
// Absent values (invalid NullTimes) are ignored entirely rather than
// compared as zero; ok is false only when every input is absent.
func Latest(times ...sql.NullTime) (time.Time, bool) {
	var latest time.Time
	found := false
	for _, t := range times {
		if !t.Valid {
			continue
		}
		if !found || t.Time.After(latest) {
			latest = t.Time
			found = true
		}
	}
	return latest, found
}
