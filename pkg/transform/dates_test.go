package transform

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
		ok       bool
	}{
		{
			name:     "ISO date",
			input:    "2024-01-05",
			expected: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			ok:       true,
		},
		{
			name:     "US date with leading zeros",
			input:    "01/05/2024",
			expected: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			ok:       true,
		},
		{
			name:     "US date without leading zeros",
			input:    "1/5/2024",
			expected: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			ok:       true,
		},
		{
			name:     "surrounding whitespace",
			input:    "  2024-03-10  ",
			expected: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
			ok:       true,
		},
		{
			name:     "embedded time of day",
			input:    "2024-03-10 14:30:00",
			expected: time.Date(2024, 3, 10, 14, 30, 0, 0, time.UTC),
			ok:       true,
		},
		{
			name:  "empty string",
			input: "",
			ok:    false,
		},
		{
			name:  "whitespace only",
			input: "   ",
			ok:    false,
		},
		{
			name:  "nan sentinel",
			input: "nan",
			ok:    false,
		},
		{
			name:  "NaT sentinel",
			input: "NaT",
			ok:    false,
		},
		{
			name:  "None sentinel",
			input: "None",
			ok:    false,
		},
		{
			name:  "garbage",
			input: "not-a-date",
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, got)
				assert.Equal(t, time.UTC, got.Location())
			}
		})
	}
}

func TestParseDate_SameDayAcrossFormats(t *testing.T) {
	iso, ok := ParseDate("2024-01-05")
	require.True(t, ok)
	us, ok := ParseDate("01/05/2024")
	require.True(t, ok)

	assert.Equal(t, DateID(iso), DateID(us))
}

func TestParseNullDate(t *testing.T) {
	_, ok := ParseNullDate(sql.NullString{})
	assert.False(t, ok)

	got, ok := ParseNullDate(sql.NullString{String: "2024-12-31", Valid: true})
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), got)
}

func TestDateID(t *testing.T) {
	assert.Equal(t, int64(20240310), DateID(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, int64(20240101), DateID(time.Date(2024, 1, 1, 23, 59, 59, 0, time.UTC)))

	// The key is derived from the UTC calendar day regardless of the
	// instant's original zone.
	manila := time.FixedZone("PHT", 8*60*60)
	assert.Equal(t, int64(20240309), DateID(time.Date(2024, 3, 10, 3, 0, 0, 0, manila)))
}
