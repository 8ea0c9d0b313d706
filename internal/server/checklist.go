package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type checklistAddRequest struct {
	Task string `json:"task"`
}

// handleAddChecklistItem attaches a task to an event.
func (s *Server) handleAddChecklistItem(c *gin.Context) {
	eventID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req checklistAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := s.store.AddChecklistItem(c.Request.Context(), s.churchID(c), eventID, req.Task)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"item": item})
}

type checklistToggleRequest struct {
	Completed *bool `json:"completed"`
}

// handleToggleChecklist sets completed to exactly the requested target.
func (s *Server) handleToggleChecklist(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req checklistToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Completed == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "completed is required"})
		return
	}

	item, err := s.store.SetChecklistDone(c.Request.Context(), s.churchID(c), id, *req.Completed)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"item": item})
}

// handleDeleteChecklistItem removes a single task.
func (s *Server) handleDeleteChecklistItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := s.store.DeleteChecklistItem(c.Request.Context(), s.churchID(c), id); err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"status": "deleted"})
}
