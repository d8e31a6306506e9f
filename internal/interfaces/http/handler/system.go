package handler

import (
	"context"
	"runtime"
	"time"

	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
)

// OutboxStatusReader reports outbox backlog counts per status.
type OutboxStatusReader interface {
	CountByStatus(ctx context.Context) (map[shared.OutboxStatus]int64, error)
}

// SystemHandler handles system-related API endpoints
type SystemHandler struct {
	BaseHandler
	startTime time.Time
	outbox    OutboxStatusReader
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(outbox OutboxStatusReader) *SystemHandler {
	return &SystemHandler{
		startTime: time.Now(),
		outbox:    outbox,
	}
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// GetSystemInfo returns basic system information including version and uptime
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	info := SystemInfoResponse{
		Name:      "FinBooks Backend API",
		Version:   "1.0.0",
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}

	h.Success(c, info)
}

// PingResponse represents the ping response
type PingResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Ping checks if the API is responsive
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, PingResponse{
		Message:   "pong",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// OutboxStatusResponse summarizes pending event delivery work.
type OutboxStatusResponse struct {
	Counts map[string]int64 `json:"counts"`
}

// GetOutboxStatus returns the number of outbox entries per delivery status
func (h *SystemHandler) GetOutboxStatus(c *gin.Context) {
	counts, err := h.outbox.CountByStatus(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := OutboxStatusResponse{Counts: make(map[string]int64, len(counts))}
	for status, n := range counts {
		resp.Counts[string(status)] = n
	}

	h.Success(c, resp)
}
