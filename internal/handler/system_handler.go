package handler

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/records-admin/internal/repository"
	"github.com/stemsi/records-admin/internal/response"
)

const healthTimeout = 2 * time.Second

// Pinger is a dependency the health check can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// SystemHandler reports process and dependency health.
type SystemHandler struct {
	startTime time.Time
	store     Pinger
	queue     repository.EmailQueue
	log       zerolog.Logger
}

// NewSystemHandler creates a new SystemHandler. store may be nil when the
// view state is held in memory.
func NewSystemHandler(store Pinger, queue repository.EmailQueue, log zerolog.Logger) *SystemHandler {
	return &SystemHandler{
		startTime: time.Now(),
		store:     store,
		queue:     queue,
		log:       log.With().Str("component", "system_handler").Logger(),
	}
}

type healthReport struct {
	Status     string `json:"status"`
	Uptime     string `json:"uptime"`
	GoVersion  string `json:"go_version"`
	Goroutines int    `json:"goroutines"`
	HeapAlloc  uint64 `json:"heap_alloc"`
	StateStore string `json:"state_store"`
	EmailQueue int64  `json:"email_queue"`
}

// Health godoc
// GET /health
// Reports 503 when the view-state store is unreachable.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	report := healthReport{
		Status:     "ok",
		Uptime:     formatDuration(time.Since(h.startTime)),
		GoVersion:  runtime.Version(),
		Goroutines: runtime.NumGoroutine(),
		HeapAlloc:  ms.HeapAlloc,
		StateStore: "memory",
	}

	if h.store != nil {
		report.StateStore = "ok"
		if err := h.store.Ping(ctx); err != nil {
			h.log.Warn().Err(err).Msg("State store ping failed")
			report.StateStore = "unreachable"
			report.Status = "degraded"
		}
	}
	if h.queue != nil {
		report.EmailQueue, _ = h.queue.Len(ctx)
	}

	status := http.StatusOK
	if report.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	response.Success(c, status, report)
}

func formatDuration(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}
