package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colegiosys/licencias-api/internal/models"
	appErrors "github.com/colegiosys/licencias-api/pkg/errors"
)

type fakeExportLicenciaRepo struct {
	licencias []models.LicenciaConProfesor
}

func (f *fakeExportLicenciaRepo) ListAll(_ context.Context) ([]models.LicenciaConProfesor, error) {
	return f.licencias, nil
}

func exportFixture() *fakeExportLicenciaRepo {
	nombre := "Ana López"
	inicio := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	fin := time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC)
	solicitud := time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)
	return &fakeExportLicenciaRepo{licencias: []models.LicenciaConProfesor{
		{
			Licencia:       models.Licencia{ID: 11, ProfesorID: 2, Motivo: "Trámite personal", Estado: models.EstadoAprobada, FechaInicio: inicio, FechaFin: fin, FechaSolicitud: solicitud},
			ProfesorNombre: &nombre,
		},
		{
			Licencia: models.Licencia{ID: 12, ProfesorID: 9, Motivo: "Consulta médica", Estado: models.EstadoPendiente, FechaInicio: inicio, FechaFin: inicio, FechaSolicitud: solicitud},
		},
	}}
}

func TestExportServiceRenderCSV(t *testing.T) {
	svc := NewExportService(exportFixture(), nil)

	result, err := svc.Render(context.Background(), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.Equal(t, "licencias.csv", result.Filename)

	content := string(result.Content)
	assert.Contains(t, content, "ID,Profesor,Motivo,Estado,Inicio,Fin,Solicitada")
	assert.Contains(t, content, "11,Ana López,Trámite personal,aprobada,2026-09-01,2026-09-03,2026-08-29 10:30:00")
	// An orphaned request renders with an empty owner column.
	assert.Contains(t, content, "12,,Consulta médica,pendiente")
}

func TestExportServiceRenderPDF(t *testing.T) {
	svc := NewExportService(exportFixture(), nil)

	result, err := svc.Render(context.Background(), FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.Equal(t, "licencias.pdf", result.Filename)
	assert.True(t, bytes.HasPrefix(result.Content, []byte("%PDF")))
}

func TestExportServiceRenderUnknownFormat(t *testing.T) {
	svc := NewExportService(exportFixture(), nil)

	_, err := svc.Render(context.Background(), ExportFormat("xlsx"))
	assertErrorCode(t, err, appErrors.ErrValidation.Code)
}
