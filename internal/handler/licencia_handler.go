package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/colegiosys/licencias-api/internal/service"
	appErrors "github.com/colegiosys/licencias-api/pkg/errors"
	"github.com/colegiosys/licencias-api/pkg/response"
)

// LicenciaHandler wires the leave request lifecycle to HTTP routes.
type LicenciaHandler struct {
	licencias *service.LicenciaService
	exports   *service.ExportService
	dashboard *service.DashboardService
}

// NewLicenciaHandler constructs a new LicenciaHandler.
func NewLicenciaHandler(licencias *service.LicenciaService, exports *service.ExportService, dashboard *service.DashboardService) *LicenciaHandler {
	return &LicenciaHandler{licencias: licencias, exports: exports, dashboard: dashboard}
}

// ListAll godoc
// @Summary List all leave requests
// @Description Every leave request with the owner's name, newest first
// @Tags Licencias
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /licencias [get]
func (h *LicenciaHandler) ListAll(c *gin.Context) {
	licencias, err := h.licencias.ListAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, licencias, nil)
}

// ListOwn godoc
// @Summary List the caller's leave requests
// @Tags Licencias
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /licencias/mias [get]
func (h *LicenciaHandler) ListOwn(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	licencias, err := h.licencias.ListOwn(c.Request.Context(), claims.ProfesorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, licencias, nil)
}

// Submit godoc
// @Summary Submit a leave request
// @Tags Licencias
// @Accept json
// @Produce json
// @Param payload body service.SubmitLicenciaRequest true "Leave request payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /licencias [post]
func (h *LicenciaHandler) Submit(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.SubmitLicenciaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid licencia payload"))
		return
	}

	licencia, err := h.licencias.Submit(c.Request.Context(), claims.ProfesorID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.dashboard.Invalidate(c.Request.Context())
	response.Created(c, licencia)
}

// Decide godoc
// @Summary Approve or reject a pending leave request
// @Tags Licencias
// @Accept json
// @Produce json
// @Param id path int true "Leave request ID"
// @Param payload body service.DecideLicenciaRequest true "Decision payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /licencias/{id}/estado [patch]
func (h *LicenciaHandler) Decide(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid licencia id"))
		return
	}

	var req service.DecideLicenciaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid decision payload"))
		return
	}

	licencia, err := h.licencias.Decide(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.dashboard.Invalidate(c.Request.Context())
	response.JSON(c, http.StatusOK, licencia, nil)
}

// Export godoc
// @Summary Export the leave request report
// @Tags Licencias
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf"
// @Success 200
// @Router /licencias/export [get]
func (h *LicenciaHandler) Export(c *gin.Context) {
	format := service.ExportFormat(c.DefaultQuery("format", "csv"))

	result, err := h.exports.Render(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+result.Filename)
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
