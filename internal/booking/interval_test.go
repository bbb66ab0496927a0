package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := ParseDate(value)
	require.NoError(t, err)
	return ts
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     string
		want                           bool
	}{
		{"identical intervals", "2025-06-01", "2025-06-05", "2025-06-01", "2025-06-05", true},
		{"fully nested", "2025-06-01", "2025-06-10", "2025-06-03", "2025-06-05", true},
		{"partial overlap at tail", "2025-06-01", "2025-06-05", "2025-06-04", "2025-06-07", true},
		{"partial overlap at head", "2025-06-04", "2025-06-07", "2025-06-01", "2025-06-05", true},
		{"back to back, checkout equals checkin", "2025-06-01", "2025-06-05", "2025-06-05", "2025-06-07", false},
		{"back to back, reversed order", "2025-06-05", "2025-06-07", "2025-06-01", "2025-06-05", false},
		{"disjoint", "2025-06-01", "2025-06-03", "2025-06-10", "2025-06-12", false},
		{"single night inside", "2025-06-01", "2025-06-05", "2025-06-02", "2025-06-03", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Overlaps(date(t, tc.aStart), date(t, tc.aEnd), date(t, tc.bStart), date(t, tc.bEnd))
			assert.Equal(t, tc.want, got)
			// The predicate is symmetric.
			assert.Equal(t, tc.want, Overlaps(date(t, tc.bStart), date(t, tc.bEnd), date(t, tc.aStart), date(t, tc.aEnd)))
		})
	}
}

func TestNights(t *testing.T) {
	assert.Equal(t, 3, Nights(date(t, "2025-01-01"), date(t, "2025-01-04")))
	assert.Equal(t, 1, Nights(date(t, "2025-01-01"), date(t, "2025-01-02")))
	assert.Equal(t, 0, Nights(date(t, "2025-01-02"), date(t, "2025-01-02")))
	assert.Equal(t, 0, Nights(date(t, "2025-01-04"), date(t, "2025-01-01")))
}

func TestNightsRoundsPartialDaysUp(t *testing.T) {
	checkIn := time.Date(2025, 1, 1, 15, 0, 0, 0, time.UTC)
	checkOut := time.Date(2025, 1, 3, 11, 0, 0, 0, time.UTC)
	assert.Equal(t, 2, Nights(checkIn, checkOut))
}

func TestParseDate(t *testing.T) {
	ts, err := ParseDate("2025-06-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), ts)

	_, err = ParseDate("01/06/2025")
	assert.Error(t, err)

	_, err = ParseDate("")
	assert.Error(t, err)
}

func TestNormalizeDate(t *testing.T) {
	ts := time.Date(2025, 6, 1, 20, 45, 1, 0, time.FixedZone("JST", 9*60*60))
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), NormalizeDate(ts))
	assert.Equal(t, "2025-06-01", FormatDate(NormalizeDate(ts)))
}
