package utils

import (
	"testing"
	"time"
)

func TestParseTimestamp_AcceptedLayouts(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2025-03-18T10:30:00Z", time.Date(2025, 3, 18, 10, 30, 0, 0, time.UTC)},
		{"2025-03-18T10:30:00", time.Date(2025, 3, 18, 10, 30, 0, 0, time.UTC)},
		{"2025-03-18 10:30:00", time.Date(2025, 3, 18, 10, 30, 0, 0, time.UTC)},
		{"2025-03-18", time.Date(2025, 3, 18, 0, 0, 0, 0, time.UTC)},
		{"18/03/2025", time.Date(2025, 3, 18, 0, 0, 0, 0, time.UTC)},
		{"3/18/2025", time.Date(2025, 3, 18, 0, 0, 0, 0, time.UTC)},
		{"  2025-03-18  ", time.Date(2025, 3, 18, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		if got := ParseTimestamp(tc.in); !got.Equal(tc.want) {
			t.Fatalf("%q: got %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestParseTimestamp_FallsBackToEpoch(t *testing.T) {
	epoch := time.Unix(0, 0).UTC()
	for _, in := range []string{"", "   ", "yesterday", "31-31-2025", "2025/13/99"} {
		if got := ParseTimestamp(in); !got.Equal(epoch) {
			t.Fatalf("%q: expected epoch sentinel, got %s", in, got)
		}
	}
}
