package utils

import (
	"testing"
	"time"
)

func TestParseDateOnly_RoundTrip(t *testing.T) {
	valid := []string{
		"2025-01-01",
		"2025-01-10",
		"2024-02-29",
		"1999-12-31",
		"2030-06-15",
		"0001-01-01",
	}

	for _, s := range valid {
		t.Run(s, func(t *testing.T) {
			d, ok := ParseDateOnly(s)
			if !ok {
				t.Fatalf("ParseDateOnly(%q) rejected a valid date", s)
			}
			if got := ToYMD(d); got != s {
				t.Errorf("ToYMD(ParseDateOnly(%q)) = %q", s, got)
			}
			if d.Location() != time.UTC || d.Hour() != 0 || d.Minute() != 0 {
				t.Errorf("ParseDateOnly(%q) = %v, expected UTC midnight", s, d)
			}
		})
	}
}

func TestParseDateOnly_Malformed(t *testing.T) {
	malformed := []string{
		"",
		"2025",
		"2025-01",
		"2025/01/10",
		"2025.01.10",
		"10-01-2025",
		"2025-1-10",
		"2025-01-1",
		"2025-0a-10",
		"abcd-ef-gh",
		"2025-01-10-01",
		"2025-13-01",
		"2025-00-10",
		"2025-02-30",
		"2023-02-29",
		"2025-04-31",
		"2025-01-00",
		"+025-01-10",
		"2025-01-10T00:00:00Z",
	}

	for _, s := range malformed {
		t.Run(s, func(t *testing.T) {
			if d, ok := ParseDateOnly(s); ok {
				t.Errorf("ParseDateOnly(%q) = %v, expected rejection", s, d)
			}
		})
	}
}

func TestToYMD_IgnoresServerZone(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	// 2025-01-10 08:00 in UTC+9 is still 2025-01-09 in UTC.
	local := time.Date(2025, 1, 10, 8, 0, 0, 0, loc)
	if got := ToYMD(local); got != "2025-01-09" {
		t.Errorf("ToYMD() = %q, expected %q", got, "2025-01-09")
	}
}

func TestAddDays(t *testing.T) {
	base, _ := ParseDateOnly("2025-01-10")

	tests := []struct {
		days     int
		expected string
	}{
		{0, "2025-01-10"},
		{5, "2025-01-15"},
		{-10, "2024-12-31"},
		{22, "2025-02-01"},
	}

	for _, tt := range tests {
		if got := ToYMD(AddDays(base, tt.days)); got != tt.expected {
			t.Errorf("AddDays(%d) = %q, expected %q", tt.days, got, tt.expected)
		}
	}
}

func TestTruncateDate(t *testing.T) {
	in := time.Date(2025, 3, 4, 23, 59, 59, 999, time.UTC)
	got := TruncateDate(in)
	if !got.Equal(time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("TruncateDate() = %v", got)
	}
}
