package services

import (
	"testing"
	"time"
)

func TestFollowUpDate_SkipsWeekend(t *testing.T) {
	// Friday 2025-06-06; one business day later is Monday.
	friday := time.Date(2025, 6, 6, 9, 0, 0, 0, time.UTC)

	got := followUpDate(friday, 1)

	want := time.Date(2025, 6, 9, 9, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("followUpDate = %v, want Monday %v", got, want)
	}
}

func TestFollowUpDate_WithinWeek(t *testing.T) {
	// Monday 2025-06-02 + 3 business days = Thursday.
	monday := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	got := followUpDate(monday, 3)

	want := time.Date(2025, 6, 5, 9, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("followUpDate = %v, want Thursday %v", got, want)
	}
}

func TestFollowUpDate_SkipsHoliday(t *testing.T) {
	// Thursday 2025-07-03; the next day is Independence Day, so one
	// business day later is Monday 2025-07-07.
	thursday := time.Date(2025, 7, 3, 9, 0, 0, 0, time.UTC)

	got := followUpDate(thursday, 1)

	want := time.Date(2025, 7, 7, 9, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("followUpDate = %v, want %v (past July 4 and the weekend)", got, want)
	}
}

func TestFollowUpDate_NonPositiveDays(t *testing.T) {
	monday := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	got := followUpDate(monday, 0)

	want := time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("zero days should clamp to one business day, got %v", got)
	}
}
