package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/colegiosys/licencias-api/internal/models"
	"github.com/colegiosys/licencias-api/internal/service"
	appErrors "github.com/colegiosys/licencias-api/pkg/errors"
	"github.com/colegiosys/licencias-api/pkg/response"
)

// ProfesorHandler wires teacher management to HTTP routes. Every route is
// admin-only.
type ProfesorHandler struct {
	profesores *service.ProfesorService
	dashboard  *service.DashboardService
}

// NewProfesorHandler constructs a new ProfesorHandler.
func NewProfesorHandler(profesores *service.ProfesorService, dashboard *service.DashboardService) *ProfesorHandler {
	return &ProfesorHandler{profesores: profesores, dashboard: dashboard}
}

// List godoc
// @Summary List teachers
// @Tags Profesores
// @Produce json
// @Param search query string false "Search by name/carnet/specialty"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /profesores [get]
func (h *ProfesorHandler) List(c *gin.Context) {
	filter := models.ProfesorFilter{
		Search: strings.TrimSpace(c.Query("search")),
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	profesores, pagination, err := h.profesores.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profesores, pagination)
}

// Register godoc
// @Summary Register teacher
// @Tags Profesores
// @Accept json
// @Produce json
// @Param payload body service.RegisterProfesorRequest true "Teacher payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /profesores [post]
func (h *ProfesorHandler) Register(c *gin.Context) {
	var req service.RegisterProfesorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid profesor payload"))
		return
	}
	profesor, err := h.profesores.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.dashboard.Invalidate(c.Request.Context())
	response.Created(c, profesor)
}

// Delete godoc
// @Summary Delete teacher
// @Tags Profesores
// @Param id path int true "Teacher ID"
// @Success 204
// @Router /profesores/{id} [delete]
func (h *ProfesorHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid profesor id"))
		return
	}
	if err := h.profesores.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	h.dashboard.Invalidate(c.Request.Context())
	response.NoContent(c)
}
