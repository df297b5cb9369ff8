package utils

import "testing"

func TestValidDate(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"2026-03-14", true},
		{"2024-02-29", true},
		{"2026-02-29", false},
		{"2026-13-01", false},
		{"14-03-2026", false},
		{"2026-3-14", false},
		{"not-a-date", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidDate(tc.in); got != tc.want {
			t.Errorf("ValidDate(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestPrevDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2026-03-14", "2026-03-13"},
		{"2026-03-01", "2026-02-28"},
		{"2024-03-01", "2024-02-29"},
		{"2026-01-01", "2025-12-31"},
	}
	for _, tc := range cases {
		got, err := PrevDate(tc.in)
		if err != nil {
			t.Fatalf("PrevDate(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("PrevDate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}

	if _, err := PrevDate("garbage"); err == nil {
		t.Error("PrevDate accepted malformed input")
	}
}

func TestWithinOneDay(t *testing.T) {
	today := "2026-03-14"
	if !WithinOneDay("2026-03-14", today) {
		t.Error("today should count")
	}
	if !WithinOneDay("2026-03-13", today) {
		t.Error("yesterday should count")
	}
	if WithinOneDay("2026-03-12", today) {
		t.Error("two days ago should break the streak")
	}
	if WithinOneDay("2026-03-15", today) {
		t.Error("a future date should not count")
	}
}
