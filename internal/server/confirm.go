package server

import (
	"hash/fnv"
	"net/http"

	"github.com/gin-gonic/gin"

	"escala/internal/messaging"
	"escala/internal/realtime"
)

// encouragements is the fixed phrase list for the confirmation card. The
// pick is a pure hash of the token, so the same link always shows the
// same phrase across visits.
var encouragements = []string{
	"Serving together makes us stronger.",
	"Your presence makes a difference.",
	"Every role matters. Thank you for yours.",
	"It is a joy to count on you.",
	"Together we build something greater.",
	"Thank you for saying yes to serve.",
}

func encouragementFor(token string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(token))
	return encouragements[int(h.Sum32())%len(encouragements)]
}

// handlePublicProjection renders the invitation card data for a token.
// The projection is minimal on purpose: first name, event title, date,
// time, role and the current outcome. No tenant-internal identifiers.
func (s *Server) handlePublicProjection(c *gin.Context) {
	token := c.Param("token")

	entry, event, err := s.store.GetEntryByToken(c.Request.Context(), token)
	if err != nil {
		s.respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{
		"assignee_name": messaging.FirstName(entry.AssigneeName),
		"event_title":   event.Title,
		"event_date":    event.Date,
		"event_time":    event.Time,
		"role":          entry.Role,
		"confirmed":     entry.Confirmed,
		"declined":      entry.Declined,
		"decision":      entry.Outcome(),
		"decided":       entry.Confirmed || entry.Declined,
		"message":       encouragementFor(token),
	})
}

type publicDecisionRequest struct {
	Accept *bool `json:"accept"`
}

// handlePublicDecision applies the visitor's confirm or decline. The
// write sets both flags atomically; repeating the same decision is a
// no-op and the opposite decision flips the state.
func (s *Server) handlePublicDecision(c *gin.Context) {
	token := c.Param("token")

	var req publicDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Accept == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "accept is required"})
		return
	}

	entry, err := s.store.ApplyDecisionByToken(c.Request.Context(), token, *req.Accept)
	if err != nil {
		s.respondError(c, err)
		return
	}

	// The viewer dashboard learns about the change; the tenant comes from
	// the entry's event, never from the caller.
	if _, event, err := s.store.GetEntryByToken(c.Request.Context(), token); err == nil {
		s.hub.Publish(event.ChurchID, realtime.Message{Type: "scale_changed", Data: gin.H{"event_id": entry.EventID}})
	}

	respondSuccess(c, http.StatusOK, gin.H{
		"success":   true,
		"confirmed": entry.Confirmed,
		"declined":  entry.Declined,
		"decision":  entry.Outcome(),
	})
}
