package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/records-admin/internal/view"
	"github.com/stemsi/records-admin/internal/web"
)

// DashboardHandler serves the landing page.
type DashboardHandler struct {
	dashboards *view.Dashboards
	log        zerolog.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboards *view.Dashboards, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards, log: log.With().Str("component", "dashboard_handler").Logger()}
}

// Show godoc
// GET /
// Record counts, the upcoming term and quick actions.
func (h *DashboardHandler) Show(c *gin.Context) {
	d, err := h.dashboards.Load(c.Request.Context())
	if err != nil {
		renderError(c, h.log, err)
		return
	}
	renderPage(c, http.StatusOK, "dashboard", "Dashboard", "dashboard", gin.H{"Dashboard": d, "Version": web.Version})
}
