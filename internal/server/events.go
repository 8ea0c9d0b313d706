package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"escala/internal/realtime"
	"escala/internal/storage/sqlite"
)

type eventRequest struct {
	Title       string             `json:"title"`
	Type        string             `json:"type"`
	Date        string             `json:"date"`
	Time        string             `json:"time"`
	Location    string             `json:"location"`
	Description string             `json:"description"`
	LeaderID    *int64             `json:"leader_id"`
	Estimated   *int64             `json:"estimated_attendees"`
	Guests      []sqlite.ScalePair `json:"guests"`
}

// handleListEvents returns the tenant's events with checklist and scale
// detail attached.
func (s *Server) handleListEvents(c *gin.Context) {
	events, err := s.store.ListEventsWithDetail(c.Request.Context(), s.churchID(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"events": events})
}

// handleCreateEvent creates an event; an optional guest list becomes bulk
// Guest scale entries, reported per item.
func (s *Server) handleCreateEvent(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	churchID := s.churchID(c)
	event, err := s.store.CreateEvent(c.Request.Context(), churchID, sqlite.EventInput{
		Title:       req.Title,
		Type:        req.Type,
		Date:        req.Date,
		Time:        req.Time,
		Location:    req.Location,
		Description: req.Description,
		LeaderID:    req.LeaderID,
		Estimated:   req.Estimated,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}

	var guestResults []sqlite.ScaleEntryResult
	if len(req.Guests) > 0 {
		guestResults = s.store.AddScaleEntries(c.Request.Context(), churchID, event.ID, req.Guests)
	}

	s.hub.Publish(churchID, realtime.Message{Type: "event_created", Data: event})

	payload := gin.H{"event": event}
	if guestResults != nil {
		payload["guests"] = guestResults
	}
	respondSuccess(c, http.StatusCreated, payload)
}

type statusRequest struct {
	Status string `json:"status"`
}

// handleEventStatus applies an operator-managed status change.
func (s *Server) handleEventStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := s.store.SetEventStatus(c.Request.Context(), s.churchID(c), id, req.Status)
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.hub.Publish(s.churchID(c), realtime.Message{Type: "event_updated", Data: event})
	respondSuccess(c, http.StatusOK, gin.H{"event": event})
}

type attendanceRequest struct {
	Estimated *int64 `json:"estimated_attendees"`
	Actual    *int64 `json:"actual_attendees"`
}

// handleEventAttendance records estimated and actual attendee counts.
func (s *Server) handleEventAttendance(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req attendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := s.store.SetEventAttendance(c.Request.Context(), s.churchID(c), id, req.Estimated, req.Actual)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"event": event})
}

// handleDeleteEvent removes an event; checklist and scale entries cascade.
func (s *Server) handleDeleteEvent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := s.store.DeleteEvent(c.Request.Context(), s.churchID(c), id); err != nil {
		s.respondError(c, err)
		return
	}
	s.hub.Publish(s.churchID(c), realtime.Message{Type: "event_deleted", Data: gin.H{"id": id}})
	respondSuccess(c, http.StatusOK, gin.H{"status": "deleted"})
}
