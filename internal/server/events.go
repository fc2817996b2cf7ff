package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"daytrack/internal/calendar"
	"daytrack/internal/model"
	"daytrack/internal/report"
)

// handleListEvents lists all events, or the expanded occurrences for a
// single day when ?on=YYYY-MM-DD is given.
func (s *Server) handleListEvents(c *gin.Context) {
	ctx := c.Request.Context()

	if on := c.Query("on"); on != "" {
		d, err := model.ParseDate(on)
		if err != nil {
			s.respondError(c, http.StatusBadRequest, err)
			return
		}
		events, err := s.cal.ListOn(ctx, d)
		if err != nil {
			s.respondError(c, http.StatusInternalServerError, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"events": events})
		return
	}

	events, err := s.cal.List(ctx)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (s *Server) handleCreateEvent(c *gin.Context) {
	var e model.Event
	if err := c.ShouldBindJSON(&e); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	created, err := s.cal.Create(c.Request.Context(), e)
	if err != nil {
		if errors.Is(err, calendar.ErrInvalid) {
			s.respondError(c, http.StatusBadRequest, err)
			return
		}
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"event": created})
}

func (s *Server) handleUpdateEvent(c *gin.Context) {
	var p calendar.Patch
	if err := c.ShouldBindJSON(&p); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	updated, err := s.cal.Update(c.Request.Context(), model.EventID(c.Param("id")), p)
	if err != nil {
		switch {
		case errors.Is(err, calendar.ErrNotFound):
			s.respondError(c, http.StatusNotFound, err)
		case errors.Is(err, calendar.ErrInvalid):
			s.respondError(c, http.StatusBadRequest, err)
		default:
			s.respondError(c, http.StatusInternalServerError, err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": updated})
}

func (s *Server) handleDeleteEvent(c *gin.Context) {
	err := s.cal.Delete(c.Request.Context(), model.EventID(c.Param("id")))
	if err != nil {
		if errors.Is(err, calendar.ErrNotFound) {
			s.respondError(c, http.StatusNotFound, err)
			return
		}
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (s *Server) handleEventICS(c *gin.Context) {
	e, err := s.cal.Get(c.Request.Context(), model.EventID(c.Param("id")))
	if err != nil {
		if errors.Is(err, calendar.ErrNotFound) {
			s.respondError(c, http.StatusNotFound, err)
			return
		}
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	// A stored event that cannot be rendered is corrupt state, not a
	// caller mistake.
	ics, err := calendar.BuildEventICS(e, s.now())
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="event.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(ics))
}

// handleReport aggregates post-rollover tasks and upcoming events.
func (s *Server) handleReport(c *gin.Context) {
	ctx := c.Request.Context()

	s.mu.Lock()
	tasks, err := s.store.LoadAll(ctx)
	if err != nil {
		s.mu.Unlock()
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	s.tasks = tasks
	s.mu.Unlock()

	events, err := s.cal.List(ctx)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, report.Build(tasks, events, s.store.Today()))
}
