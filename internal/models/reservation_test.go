package models

import (
	"testing"
	"time"
)

func TestOverlapsWindow(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	res := Reservation{
		StartTime: base,
		EndTime:   base.Add(time.Hour),
	}

	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		want  bool
	}{
		{"identical", base, base.Add(time.Hour), true},
		{"contained", base.Add(15 * time.Minute), base.Add(45 * time.Minute), true},
		{"enclosing", base.Add(-time.Hour), base.Add(2 * time.Hour), true},
		{"overlaps start", base.Add(-30 * time.Minute), base.Add(30 * time.Minute), true},
		{"overlaps end", base.Add(30 * time.Minute), base.Add(90 * time.Minute), true},
		{"touching before", base.Add(-time.Hour), base, false},
		{"touching after", base.Add(time.Hour), base.Add(2 * time.Hour), false},
		{"disjoint before", base.Add(-2 * time.Hour), base.Add(-time.Hour), false},
		{"disjoint after", base.Add(2 * time.Hour), base.Add(3 * time.Hour), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := res.OverlapsWindow(tc.start, tc.end); got != tc.want {
				t.Errorf("OverlapsWindow(%s, %s) = %v, want %v", tc.start, tc.end, got, tc.want)
			}
		})
	}
}

func TestStatusHelpers(t *testing.T) {
	for status, blocks := range map[string]bool{
		ReservationPending:   false,
		ReservationConfirmed: true,
		ReservationCheckedIn: true,
		ReservationCompleted: false,
		ReservationCancelled: false,
	} {
		res := Reservation{Status: status}
		if res.Blocks() != blocks {
			t.Errorf("Blocks() for %s = %v, want %v", status, res.Blocks(), blocks)
		}
	}

	if !(&Reservation{Status: ReservationCancelled}).IsTerminal() {
		t.Error("cancelled should be terminal")
	}
	if !(&Reservation{Status: ReservationCompleted}).IsTerminal() {
		t.Error("completed should be terminal")
	}
	if (&Reservation{Status: ReservationCheckedIn}).IsTerminal() {
		t.Error("checked_in should not be terminal")
	}
}
