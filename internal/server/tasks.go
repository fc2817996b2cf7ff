package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"daytrack/internal/model"
	"daytrack/internal/store"
	"daytrack/internal/task"
)

type createTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Kind        model.Kind `json:"kind"`
	TargetValue float64    `json:"targetValue"`
}

type progressRequest struct {
	Value float64 `json:"value"`
}

// ensureTasks primes the snapshot from the store on the first mutation
// after startup. Without it a write issued before any list would hand the
// store a nil collection and overwrite tasks persisted by a prior run.
// Callers must hold s.mu.
func (s *Server) ensureTasks(ctx context.Context) error {
	if s.tasks != nil {
		return nil
	}
	tasks, err := s.store.LoadAll(ctx)
	if err != nil {
		return err
	}
	s.tasks = tasks
	return nil
}

// handleListTasks returns the collection rolled over to today.
func (s *Server) handleListTasks(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.store.LoadAll(c.Request.Context())
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	s.tasks = tasks
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Title == "" {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("title is required"))
		return
	}
	if !req.Kind.Valid() {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("unknown kind: %q", req.Kind))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureTasks(c.Request.Context()); err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}

	t := task.New(req.Title, req.Kind, req.Description, req.TargetValue, s.now())
	tasks, err := s.store.Upsert(c.Request.Context(), s.tasks, t)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	s.tasks = tasks
	c.JSON(http.StatusCreated, gin.H{"task": t, "tasks": tasks})
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	id := model.TaskID(c.Param("id"))

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureTasks(c.Request.Context()); err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}

	tasks, err := s.store.Remove(c.Request.Context(), s.tasks, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.respondError(c, http.StatusNotFound, err)
			return
		}
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	s.tasks = tasks
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (s *Server) handleCompleteTask(c *gin.Context) {
	s.mutateTask(c, func(t model.Task) model.Task {
		return task.Complete(t, s.now())
	})
}

func (s *Server) handleRelapseTask(c *gin.Context) {
	s.mutateTask(c, func(t model.Task) model.Task {
		return task.Relapse(t, s.now())
	})
}

func (s *Server) handleProgressTask(c *gin.Context) {
	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	s.mutateTask(c, func(t model.Task) model.Task {
		return task.UpdateProgress(t, req.Value, s.now())
	})
}

// mutateTask applies a transition to the task by id from the current
// snapshot and persists the result.
func (s *Server) mutateTask(c *gin.Context, fn func(model.Task) model.Task) {
	id := model.TaskID(c.Param("id"))

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureTasks(c.Request.Context()); err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}

	cur, ok := s.findTask(id)
	if !ok {
		s.respondError(c, http.StatusNotFound, fmt.Errorf("%w: %s", store.ErrNotFound, id))
		return
	}

	next := fn(cur)
	tasks, err := s.store.Upsert(c.Request.Context(), s.tasks, next)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	s.tasks = tasks
	c.JSON(http.StatusOK, gin.H{"task": next, "tasks": tasks})
}

func (s *Server) findTask(id model.TaskID) (model.Task, bool) {
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

func (s *Server) handleReset(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Clear(c.Request.Context()); err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	if err := s.cal.Clear(c.Request.Context()); err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	s.tasks = nil
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}
