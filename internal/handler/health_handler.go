package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tegami/tegami-backend/internal/worker"
)

// Pinger reports backend reachability
type Pinger interface {
	PingContext(ctx context.Context) error
}

// CacheChecker is the optional Redis cache; cache.Service implements it
type CacheChecker interface {
	IsAvailable() bool
	Ping(ctx context.Context) error
}

// TaskLister exposes background job state; *worker.Scheduler implements it
type TaskLister interface {
	Tasks() []worker.TaskInfo
}

// HealthHandler serves the liveness probe
type HealthHandler struct {
	db    Pinger
	cache CacheChecker
	tasks TaskLister
}

// NewHealthHandler creates a new HealthHandler; db may be nil
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// WithCache reports the cache state as "cache". A down cache does not fail
// the check since letter reads fall back to the database.
func (h *HealthHandler) WithCache(c CacheChecker) *HealthHandler {
	h.cache = c
	return h
}

// WithTasks adds the scheduler snapshot as "tasks"
func (h *HealthHandler) WithTasks(t TaskLister) *HealthHandler {
	h.tasks = t
	return h
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	body := gin.H{"status": "ok", "timestamp": time.Now().UTC().Format(time.RFC3339)}
	code := http.StatusOK

	if h.db != nil {
		if err := h.db.PingContext(ctx); err != nil {
			body["status"] = "unavailable"
			code = http.StatusServiceUnavailable
		}
	}
	if h.cache != nil && h.cache.IsAvailable() {
		body["cache"] = "ok"
		if err := h.cache.Ping(ctx); err != nil {
			body["cache"] = "down"
		}
	}
	if h.tasks != nil {
		body["tasks"] = h.tasks.Tasks()
	}

	c.JSON(code, body)
}
