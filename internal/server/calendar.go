package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"escala/internal/calendar"
)

// handleMonthGrid returns the month grid with the tenant's events placed
// on their day cells, plus the neighboring (year, month) pairs for
// navigation.
func (s *Server) handleMonthGrid(c *gin.Context) {
	year, month, ok := parseYearMonth(c)
	if !ok {
		return
	}

	events, err := s.store.ListEventsWithDetail(c.Request.Context(), s.churchID(c))
	if err != nil {
		s.respondError(c, err)
		return
	}

	grid := calendar.BuildMonthGrid(year, month, events)
	nextYear, nextMonth := calendar.NextMonth(year, month)
	prevYear, prevMonth := calendar.PrevMonth(year, month)

	respondSuccess(c, http.StatusOK, gin.H{
		"grid": grid,
		"next": gin.H{"year": nextYear, "month": nextMonth},
		"prev": gin.H{"year": prevYear, "month": prevMonth},
	})
}

// handleAttendance returns the per-month attendance aggregation for a year.
func (s *Server) handleAttendance(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return
	}

	events, err := s.store.ListEventsWithDetail(c.Request.Context(), s.churchID(c))
	if err != nil {
		s.respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{
		"year":   year,
		"months": calendar.AttendanceByMonth(year, events),
	})
}

func parseYearMonth(c *gin.Context) (int, int, bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return 0, 0, false
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
		return 0, 0, false
	}
	return year, month, true
}
