package reporting

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	now := time.Date(2026, 10, 19, 15, 4, 5, 0, time.UTC)
	dec29 := time.Date(2025, 12, 29, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		in   string
		want time.Time
	}{
		{"2025-12-29", dec29},
		{"2025-12-29T00:00:00Z", dec29},
		{"Dec 29, 2025", dec29},
		{"29-Dec-25", dec29},
		{"29 Dec 2025", dec29},
		{"29 December 2025", dec29},
		{"  29-dec-2025 ", dec29},
		{"", now},
		{"yesterday", now},
		{"32-Dec-25", now},
		{"29-Foo-25", now},
		{"29-Dec", now},
	}

	for _, tc := range cases {
		if got := ParseDate(tc.in, now); !got.Equal(tc.want) {
			t.Errorf("ParseDate(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
