// Package server exposes the local HTTP API the mobile UI drives. Handlers
// funnel every mutation through the store and keep the last returned
// collection as the caller-held snapshot the store contract expects.
package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"daytrack/internal/calendar"
	"daytrack/internal/model"
	"daytrack/internal/store"
)

type Server struct {
	engine *gin.Engine
	store  *store.Store
	cal    *calendar.Repo
	log    *zap.Logger

	// mu guards the in-memory task snapshot. The HTTP layer serializes
	// mutations so two in-flight writes cannot clobber each other; the
	// store itself stays last-write-wins.
	mu    sync.Mutex
	tasks []model.Task
}

func New(s *store.Store, cal *calendar.Repo, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	srv := &Server{
		engine: engine,
		store:  s,
		cal:    cal,
		log:    log,
	}
	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	{
		api.GET("/healthz", s.handleHealth)

		tasks := api.Group("/tasks")
		{
			tasks.GET("", s.handleListTasks)
			tasks.POST("", s.handleCreateTask)
			tasks.DELETE(":id", s.handleDeleteTask)
			tasks.POST(":id/complete", s.handleCompleteTask)
			tasks.POST(":id/relapse", s.handleRelapseTask)
			tasks.POST(":id/progress", s.handleProgressTask)
		}

		events := api.Group("/events")
		{
			events.GET("", s.handleListEvents)
			events.POST("", s.handleCreateEvent)
			events.PUT(":id", s.handleUpdateEvent)
			events.DELETE(":id", s.handleDeleteEvent)
			events.GET(":id/ics", s.handleEventICS)
		}

		api.GET("/report", s.handleReport)
		api.POST("/reset", s.handleReset)
	}
}

func (s *Server) now() time.Time {
	return s.store.Now()
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) respondError(c *gin.Context, code int, err error) {
	if code >= http.StatusInternalServerError {
		s.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(code, gin.H{"error": err.Error()})
}
