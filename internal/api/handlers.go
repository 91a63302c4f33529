package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/ignite/cutsheet/internal/config"
	"github.com/ignite/cutsheet/internal/metrics"
	"github.com/ignite/cutsheet/internal/pkg/httputil"
)

const healthVersion = "1.0.0"

// Handlers contains all HTTP handlers
type Handlers struct {
	config    *config.Config
	metrics   *metrics.Registry
	startTime time.Time

	mu       sync.RWMutex
	template []byte
}

// NewHandlers creates a new Handlers instance
func NewHandlers(cfg *config.Config, reg *metrics.Registry) *Handlers {
	if reg == nil {
		reg = metrics.NewRegistry()
	}
	return &Handlers{
		config:    cfg,
		metrics:   reg,
		startTime: time.Now(),
	}
}

// SetTemplate sets the workbook bytes for xlsx-template output
func (h *Handlers) SetTemplate(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.template = data
}

func (h *Handlers) templateBytes() []byte {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.template
}

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Uptime   string `json:"uptime"`
	Template bool   `json:"template_loaded"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, HealthStatus{
		Status:   "healthy",
		Version:  healthVersion,
		Uptime:   time.Since(h.startTime).Round(time.Second).String(),
		Template: len(h.templateBytes()) > 0,
	})
}
