package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"escala/internal/auth"
	"escala/internal/realtime"
	"escala/internal/storage/sqlite"
)

// Server provides the HTTP surface: the authenticated operator API and
// the public confirmation gateway.
type Server struct {
	engine    *gin.Engine
	store     *sqlite.Store
	hub       *realtime.Hub
	logger    *slog.Logger
	baseURL   string
	staticDir string
}

// New constructs the HTTP server with routes and middleware configured.
func New(store *sqlite.Store, hub *realtime.Hub, logger *slog.Logger, baseURL, staticDir string) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithWriter(gin.DefaultWriter, "/api"))

	srv := &Server{
		engine:    router,
		store:     store,
		hub:       hub,
		logger:    logger,
		baseURL:   baseURL,
		staticDir: staticDir,
	}

	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerRoutes wires the operator API, the public gateway and static
// assets together.
func (s *Server) registerRoutes() {
	// Public confirmation gateway: no session, no role. The entry token
	// in the path is the only credential.
	s.engine.GET("/confirmar/:token", s.handlePublicProjection)
	s.engine.POST("/confirmar/:token", s.handlePublicDecision)

	api := s.engine.Group("/api")
	api.GET("/healthz", s.handleHealth)

	ops := api.Group("")
	ops.Use(s.identityContext())
	{
		events := ops.Group("/events")
		{
			events.GET("", s.handleListEvents)
			events.POST("", s.requireCap(auth.CapManageEvents), s.handleCreateEvent)
			events.PATCH(":id/status", s.requireCap(auth.CapManageEvents), s.handleEventStatus)
			events.PATCH(":id/attendance", s.requireCap(auth.CapManageEvents), s.handleEventAttendance)
			events.DELETE(":id", s.requireCap(auth.CapManageEvents), s.handleDeleteEvent)
			events.POST(":id/checklist", s.requireCap(auth.CapManageEvents), s.handleAddChecklistItem)
			events.POST(":id/scale", s.requireCap(auth.CapManageScale), s.handleAddScaleEntries)
		}

		ops.PATCH("/checklist/:id", s.requireCap(auth.CapToggleChecklist), s.handleToggleChecklist)
		ops.DELETE("/checklist/:id", s.requireCap(auth.CapManageEvents), s.handleDeleteChecklistItem)

		ops.PATCH("/scale/:id/confirm", s.requireCap(auth.CapManageScale), s.handleOperatorConfirm)
		ops.DELETE("/scale/:id", s.requireCap(auth.CapManageScale), s.handleDeleteScaleEntry)
		ops.GET("/scale/:id/invite", s.requireCap(auth.CapManageScale), s.handleComposeInvite)

		ops.GET("/calendar/:year/:month", s.requireCap(auth.CapViewDashboard), s.handleMonthGrid)
		ops.GET("/attendance/:year", s.requireCap(auth.CapViewDashboard), s.handleAttendance)

		ops.GET("/ws", s.requireCap(auth.CapViewDashboard), s.handleWebSocket)
	}

	s.mountStatic()
}

// identityContext reads the role and tenant supplied by the external
// identity layer. The service trusts the values; it only refuses requests
// that arrive without them.
func (s *Server) identityContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := auth.ParseRole(c.GetHeader("X-User-Role"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or unknown role"})
			return
		}
		churchID, err := strconv.ParseInt(c.GetHeader("X-Church-ID"), 10, 64)
		if err != nil || churchID <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing tenant context"})
			return
		}
		c.Set(ctxRole, role)
		c.Set(ctxChurchID, churchID)
		c.Next()
	}
}

// requireCap gates a handler on the capability matrix, evaluated once here
// instead of ad hoc inside handlers.
func (s *Server) requireCap(capability auth.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.role(c).Can(capability) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			return
		}
		c.Next()
	}
}

const (
	ctxRole     = "role"
	ctxChurchID = "church_id"
)

func (s *Server) role(c *gin.Context) auth.Role {
	if v, ok := c.Get(ctxRole); ok {
		if r, ok := v.(auth.Role); ok {
			return r
		}
	}
	return ""
}

func (s *Server) churchID(c *gin.Context) int64 {
	return c.GetInt64(ctxChurchID)
}

// handleHealth provides a basic readiness endpoint.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// parseID converts a path parameter to int64 with error handling.
func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid identifier"})
		return 0, false
	}
	return id, true
}

// respondError maps store sentinels onto HTTP statuses and logs the rest.
// Unclassified failures are storage-level and reported retryable; no
// retry happens server side.
func (s *Server) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, sqlite.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, sqlite.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		s.logger.Error("request failed", slog.String("path", c.FullPath()), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "retryable": true})
	}
}

// respondSuccess wraps a payload in a JSON envelope for consistency.
func respondSuccess(c *gin.Context, status int, payload any) {
	if payload == nil {
		c.Status(status)
		return
	}
	c.JSON(status, payload)
}
