package calendar

import (
	"testing"

	"escala/internal/models"
)

func TestBuildMonthGridPlacesEventOnce(t *testing.T) {
	events := []models.Event{
		{ID: 1, Title: "Sunday Service", Date: "2024-01-15"},
	}

	grid := BuildMonthGrid(2024, 1, events)

	placements := 0
	for _, week := range grid.Weeks {
		if len(week) != 7 {
			t.Fatalf("expected 7 cells per week, got %d", len(week))
		}
		for _, cell := range week {
			for _, e := range cell.Events {
				if e.ID == 1 {
					placements++
					if cell.Day != 15 || !cell.InMonth {
						t.Fatalf("event placed on wrong cell: day=%d inMonth=%v", cell.Day, cell.InMonth)
					}
				}
			}
		}
	}
	if placements != 1 {
		t.Fatalf("expected event in exactly one cell, got %d", placements)
	}
}

func TestBuildMonthGridSkipsOtherMonths(t *testing.T) {
	events := []models.Event{
		{ID: 1, Date: "2024-02-01"},
		{ID: 2, Date: "not-a-date"},
	}

	grid := BuildMonthGrid(2024, 1, events)
	for _, week := range grid.Weeks {
		for _, cell := range week {
			if len(cell.Events) != 0 {
				t.Fatalf("expected empty january, found event on %s", cell.Date)
			}
		}
	}
}

func TestMonthNavigationRollover(t *testing.T) {
	if y, m := NextMonth(2024, 1); y != 2024 || m != 2 {
		t.Fatalf("next from (2024,1): got (%d,%d)", y, m)
	}
	if y, m := NextMonth(2024, 12); y != 2025 || m != 1 {
		t.Fatalf("next from (2024,12): got (%d,%d)", y, m)
	}
	if y, m := PrevMonth(2024, 1); y != 2023 || m != 12 {
		t.Fatalf("prev from (2024,1): got (%d,%d)", y, m)
	}
	if y, m := PrevMonth(2024, 6); y != 2024 || m != 5 {
		t.Fatalf("prev from (2024,6): got (%d,%d)", y, m)
	}
}

func TestAttendanceByMonth(t *testing.T) {
	est1, act1 := int64(100), int64(80)
	est2 := int64(50)

	events := []models.Event{
		{Date: "2024-03-10", Status: "held", Estimated: &est1, Actual: &act1},
		{Date: "2024-03-17", Status: "canceled", Estimated: &est2},
		{Date: "2024-04-01", Status: "planned"},
		{Date: "2023-03-10", Status: "held"}, // other year, ignored
	}

	rows := AttendanceByMonth(2024, events)
	if len(rows) != 12 {
		t.Fatalf("expected 12 rows, got %d", len(rows))
	}

	march := rows[2]
	if march.Events != 2 || march.Held != 1 || march.Canceled != 1 {
		t.Fatalf("march counts wrong: %+v", march)
	}
	if march.Estimated != 150 || march.Actual != 80 {
		t.Fatalf("march totals wrong: %+v", march)
	}
	if rows[3].Events != 1 {
		t.Fatalf("expected one april event, got %d", rows[3].Events)
	}
}
