package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"escala/internal/messaging"
	"escala/internal/models"
	"escala/internal/realtime"
	"escala/internal/storage/sqlite"
)

type scaleAddRequest struct {
	MemberID int64              `json:"member_id"`
	Role     string             `json:"role"`
	Entries  []sqlite.ScalePair `json:"entries"`
}

// handleAddScaleEntries assigns one member or a bulk list to an event.
// Bulk pairs apply independently; the response reports each outcome.
func (s *Server) handleAddScaleEntries(c *gin.Context) {
	eventID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req scaleAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	churchID := s.churchID(c)
	if len(req.Entries) > 0 {
		results := s.store.AddScaleEntries(c.Request.Context(), churchID, eventID, req.Entries)
		s.hub.Publish(churchID, realtime.Message{Type: "scale_changed", Data: gin.H{"event_id": eventID}})
		respondSuccess(c, http.StatusCreated, gin.H{"results": results})
		return
	}

	entry, err := s.store.AddScaleEntry(c.Request.Context(), churchID, eventID, req.MemberID, req.Role)
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.hub.Publish(churchID, realtime.Message{Type: "scale_changed", Data: gin.H{"event_id": eventID}})
	respondSuccess(c, http.StatusCreated, gin.H{"entry": entry})
}

type operatorConfirmRequest struct {
	Confirmed *bool `json:"confirmed"`
}

// handleOperatorConfirm is the authenticated confirmation toggle. It runs
// through the same decision transition as the public gateway: true moves
// the entry to confirmed, false resets it to pending. Both flags are
// always written together.
func (s *Server) handleOperatorConfirm(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req operatorConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Confirmed == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "confirmed is required"})
		return
	}

	decision := models.DecisionPending
	if *req.Confirmed {
		decision = models.DecisionConfirmed
	}

	entry, err := s.store.SetDecision(c.Request.Context(), s.churchID(c), id, decision)
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.hub.Publish(s.churchID(c), realtime.Message{Type: "scale_changed", Data: entry})
	respondSuccess(c, http.StatusOK, gin.H{"entry": entry})
}

// handleDeleteScaleEntry removes one assignment.
func (s *Server) handleDeleteScaleEntry(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := s.store.DeleteScaleEntry(c.Request.Context(), s.churchID(c), id); err != nil {
		s.respondError(c, err)
		return
	}
	s.hub.Publish(s.churchID(c), realtime.Message{Type: "scale_changed", Data: gin.H{"id": id}})
	respondSuccess(c, http.StatusOK, gin.H{"status": "deleted"})
}

// handleComposeInvite builds the prefilled message and WhatsApp deep link
// for an assignment. Nothing is sent; the operator dispatches the link.
func (s *Server) handleComposeInvite(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	entry, err := s.store.GetScaleEntry(c.Request.Context(), s.churchID(c), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	event, err := s.store.GetEvent(c.Request.Context(), s.churchID(c), entry.EventID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if entry.AssigneePhone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "assignee has no phone number on record"})
		return
	}

	confirmationURL := fmt.Sprintf("%s/confirmar/%s", s.baseURL, entry.PublicToken)
	text := messaging.ComposeText(event, entry.Role, messaging.FirstName(entry.AssigneeName), confirmationURL)

	respondSuccess(c, http.StatusOK, gin.H{
		"text":             text,
		"link":             messaging.BuildChatDeepLink(entry.AssigneePhone, text),
		"confirmation_url": confirmationURL,
	})
}
