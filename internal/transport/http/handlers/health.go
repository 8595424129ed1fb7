package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthResponse describes the liveness payload.
type HealthResponse struct {
	Status      string    `json:"status"`
	StartedAt   time.Time `json:"started_at"`
	ImagesCount int       `json:"images_count"`
}

// ReadinessCheck probes one dependency for the readiness endpoint.
type ReadinessCheck struct {
	Name  string
	Probe func(ctx context.Context) error
}

// ImageCounter reports how many images the media store holds.
type ImageCounter interface {
	Count() (int, error)
}

// HealthHandler exposes liveness and readiness information.
type HealthHandler struct {
	startedAt time.Time
	images    ImageCounter
	checks    []ReadinessCheck
}

// HealthOption configures the health handler.
type HealthOption func(*HealthHandler)

// WithImageCounter wires the media store into the liveness payload.
func WithImageCounter(images ImageCounter) HealthOption {
	return func(h *HealthHandler) {
		h.images = images
	}
}

// WithReadinessCheck registers a dependency probe for /readyz.
func WithReadinessCheck(name string, probe func(ctx context.Context) error) HealthOption {
	return func(h *HealthHandler) {
		if probe != nil {
			h.checks = append(h.checks, ReadinessCheck{Name: name, Probe: probe})
		}
	}
}

// NewHealthHandler builds a new health handler instance.
func NewHealthHandler(opts ...HealthOption) *HealthHandler {
	handler := &HealthHandler{startedAt: time.Now().UTC()}
	for _, opt := range opts {
		if opt != nil {
			opt(handler)
		}
	}
	return handler
}

// Status reports liveness together with the stored image count.
func (h *HealthHandler) Status(c *gin.Context) {
	resp := HealthResponse{
		Status:    "ok",
		StartedAt: h.startedAt,
	}

	if h.images != nil {
		if count, err := h.images.Count(); err == nil {
			resp.ImagesCount = count
		}
	}

	c.JSON(http.StatusOK, resp)
}

// Readiness probes every registered dependency and reports per-check results.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))

	for _, check := range h.checks {
		if err := check.Probe(ctx); err != nil {
			results[check.Name] = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		results[check.Name] = "ok"
	}

	body := gin.H{"checks": results}
	if status == http.StatusOK {
		body["status"] = "ready"
	} else {
		body["status"] = "degraded"
	}

	c.JSON(status, body)
}
