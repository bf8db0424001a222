package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/colegiosys/licencias-api/internal/models"
	appErrors "github.com/colegiosys/licencias-api/pkg/errors"
	"github.com/colegiosys/licencias-api/pkg/export"
)

// ExportFormat identifies a supported export encoding.
type ExportFormat string

const (
	FormatCSV ExportFormat = "csv"
	FormatPDF ExportFormat = "pdf"
)

var exportHeaders = []string{"ID", "Profesor", "Motivo", "Estado", "Inicio", "Fin", "Solicitada"}

// ExportResult carries the rendered document and its content type.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

type exportLicenciaRepository interface {
	ListAll(ctx context.Context) ([]models.LicenciaConProfesor, error)
}

// ExportService renders the full leave request report as CSV or PDF.
type ExportService struct {
	repo   exportLicenciaRepository
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	logger *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(repo exportLicenciaRepository, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		repo:   repo,
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(),
		logger: logger,
	}
}

// Render builds the report in the requested format.
func (s *ExportService) Render(ctx context.Context, format ExportFormat) (*ExportResult, error) {
	licencias, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load licencias")
	}

	dataset := buildLicenciaDataset(licencias)

	switch format {
	case FormatCSV:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{Content: content, ContentType: "text/csv", Filename: "licencias.csv"}, nil
	case FormatPDF:
		content, err := s.pdf.Render(dataset, "Reporte de Licencias")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{Content: content, ContentType: "application/pdf", Filename: "licencias.pdf"}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

func buildLicenciaDataset(licencias []models.LicenciaConProfesor) export.Dataset {
	rows := make([]map[string]string, 0, len(licencias))
	for _, l := range licencias {
		nombre := ""
		if l.ProfesorNombre != nil {
			nombre = *l.ProfesorNombre
		}
		rows = append(rows, map[string]string{
			"ID":         formatInt(l.ID),
			"Profesor":   nombre,
			"Motivo":     l.Motivo,
			"Estado":     string(l.Estado),
			"Inicio":     l.FechaInicio.Format(DateLayout),
			"Fin":        l.FechaFin.Format(DateLayout),
			"Solicitada": l.FechaSolicitud.Format("2006-01-02 15:04:05"),
		})
	}
	return export.Dataset{Headers: exportHeaders, Rows: rows}
}

func formatInt(v int64) string {
	return fmt.Sprintf("%d", v)
}
