// Package calendar bins events into month grids and aggregates attendance
// totals for the dashboard. Everything here is a pure function of its
// inputs; the caller loads the event list.
package calendar

import (
	"time"

	"escala/internal/models"
)

// DayCell is one day slot in a month grid. InMonth is false for the
// leading and trailing days that pad the grid to whole weeks.
type DayCell struct {
	Date    string         `json:"date"` // YYYY-MM-DD
	Day     int            `json:"day"`
	InMonth bool           `json:"in_month"`
	Events  []models.Event `json:"events"`
}

// MonthGrid is the rendered month: full weeks of seven cells each,
// starting on Sunday.
type MonthGrid struct {
	Year  int         `json:"year"`
	Month int         `json:"month"`
	Weeks [][]DayCell `json:"weeks"`
}

// BuildMonthGrid lays out the month and places each event whose date falls
// inside the grid on its day cell. Events with unparseable dates are
// skipped.
func BuildMonthGrid(year, month int, events []models.Event) MonthGrid {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	start := first.AddDate(0, 0, -int(first.Weekday()))
	last := first.AddDate(0, 1, -1)
	end := last.AddDate(0, 0, 6-int(last.Weekday()))

	byDate := map[string][]models.Event{}
	for _, e := range events {
		if _, err := time.Parse("2006-01-02", e.Date); err != nil {
			continue
		}
		byDate[e.Date] = append(byDate[e.Date], e)
	}

	grid := MonthGrid{Year: year, Month: month}
	var week []DayCell
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		cell := DayCell{
			Date:    key,
			Day:     d.Day(),
			InMonth: d.Month() == time.Month(month) && d.Year() == year,
			Events:  []models.Event{},
		}
		if cell.InMonth {
			cell.Events = append(cell.Events, byDate[key]...)
		}
		week = append(week, cell)
		if len(week) == 7 {
			grid.Weeks = append(grid.Weeks, week)
			week = nil
		}
	}
	return grid
}

// NextMonth advances (year, month) by one with year rollover.
func NextMonth(year, month int) (int, int) {
	if month >= 12 {
		return year + 1, 1
	}
	return year, month + 1
}

// PrevMonth steps (year, month) back by one with year rollover.
func PrevMonth(year, month int) (int, int) {
	if month <= 1 {
		return year - 1, 12
	}
	return year, month - 1
}

// MonthAttendance sums attendance for one calendar month.
type MonthAttendance struct {
	Month     int   `json:"month"`
	Events    int   `json:"events"`
	Held      int   `json:"held"`
	Canceled  int   `json:"canceled"`
	Estimated int64 `json:"estimated"`
	Actual    int64 `json:"actual"`
}

// AttendanceByMonth aggregates a year of events into twelve monthly rows.
// Events outside the year are ignored.
func AttendanceByMonth(year int, events []models.Event) []MonthAttendance {
	rows := make([]MonthAttendance, 12)
	for i := range rows {
		rows[i].Month = i + 1
	}
	for _, e := range events {
		d, err := time.Parse("2006-01-02", e.Date)
		if err != nil || d.Year() != year {
			continue
		}
		row := &rows[int(d.Month())-1]
		row.Events++
		switch e.Status {
		case "held":
			row.Held++
		case "canceled":
			row.Canceled++
		}
		if e.Estimated != nil {
			row.Estimated += *e.Estimated
		}
		if e.Actual != nil {
			row.Actual += *e.Actual
		}
	}
	return rows
}
