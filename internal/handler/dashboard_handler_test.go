package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colegiosys/licencias-api/internal/models"
	"github.com/colegiosys/licencias-api/internal/service"
)

func TestDashboardHandlerAdmin(t *testing.T) {
	repo := newStubLicenciaRepo()
	repo.licencias[11] = &models.Licencia{ID: 11, ProfesorID: 2, Estado: models.EstadoPendiente}
	repo.licencias[12] = &models.Licencia{ID: 12, ProfesorID: 2, Estado: models.EstadoAprobada}
	dashboard := service.NewDashboardService(stubProfesorListRepo{}, repo, nil, nil, nil, 0)
	h := NewDashboardHandler(dashboard)

	rec, c := newRequestContext(t, http.MethodGet, "/dashboard", nil, &models.JWTClaims{ProfesorID: 1, Role: models.RoleAdmin})

	h.Admin(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	var data service.AdminDashboard
	require.NoError(t, json.Unmarshal(envelope["data"], &data))
	assert.Len(t, data.Profesores, 1)
	assert.Len(t, data.Licencias, 2)
	assert.Equal(t, 1, data.Pendientes)
	assert.Equal(t, 1, data.Aprobadas)
	assert.Zero(t, data.Rechazadas)
}
