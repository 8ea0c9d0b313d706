package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"escala/internal/realtime"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// CORS policy is enforced at the outer handler; the socket accepts
		// the origins that made it through.
		return true
	},
}

// handleWebSocket subscribes the caller's dashboard to the tenant's
// realtime updates. The subscription lives exactly as long as the socket;
// the write path never depends on it.
func (s *Server) handleWebSocket(c *gin.Context) {
	churchID := s.churchID(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err.Error())
		return
	}
	defer conn.Close()

	s.hub.Subscribe(churchID, conn)
	defer s.hub.Unsubscribe(churchID, conn)

	_ = conn.WriteJSON(realtime.Message{Type: "connected", Data: gin.H{"status": "connected"}})

	// Drain the connection until the client goes away. Incoming frames
	// are ignored; the channel is push only.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
