package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/colegiosys/licencias-api/internal/service"
	"github.com/colegiosys/licencias-api/pkg/response"
)

// DashboardHandler serves the admin dashboard aggregate.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler constructs a new DashboardHandler.
func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Admin godoc
// @Summary Admin dashboard
// @Description Teacher roster plus every leave request with state totals
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Admin(c *gin.Context) {
	dashboard, err := h.dashboard.Admin(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dashboard, nil)
}
