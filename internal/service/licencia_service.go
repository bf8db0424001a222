package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/colegiosys/licencias-api/internal/models"
	appErrors "github.com/colegiosys/licencias-api/pkg/errors"
)

// DateLayout is the calendar format accepted for leave request dates.
const DateLayout = "2006-01-02"

type licenciaRepository interface {
	Create(ctx context.Context, licencia *models.Licencia) error
	FindByID(ctx context.Context, id int64) (*models.Licencia, error)
	ListAll(ctx context.Context) ([]models.LicenciaConProfesor, error)
	ListByProfesor(ctx context.Context, profesorID int64) ([]models.Licencia, error)
	UpdateEstado(ctx context.Context, id int64, estado models.LicenciaEstado) (int64, error)
}

// SubmitLicenciaRequest represents payload for submitting a leave request.
// The owner is always taken from the authenticated claims, never from the
// payload.
type SubmitLicenciaRequest struct {
	Motivo      string `json:"motivo" validate:"required"`
	FechaInicio string `json:"fecha_inicio" validate:"required"`
	FechaFin    string `json:"fecha_fin" validate:"required"`
}

// DecideLicenciaRequest carries the target decision for a pending request.
type DecideLicenciaRequest struct {
	Estado models.LicenciaEstado `json:"estado" validate:"required"`
}

// LicenciaService orchestrates the leave request lifecycle.
type LicenciaService struct {
	repo      licenciaRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewLicenciaService constructs a LicenciaService.
func NewLicenciaService(repo licenciaRepository, validate *validator.Validate, logger *zap.Logger) *LicenciaService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LicenciaService{repo: repo, validator: validate, logger: logger, now: time.Now}
}

// Submit validates and persists a new pending leave request for the given
// teacher. Date boundaries are inclusive: starting today and single-day
// ranges are both accepted.
func (s *LicenciaService) Submit(ctx context.Context, profesorID int64, req SubmitLicenciaRequest) (*models.Licencia, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "all fields are required")
	}

	inicio, err := time.Parse(DateLayout, strings.TrimSpace(req.FechaInicio))
	if err != nil {
		return nil, appErrors.ErrInvalidDateFormat
	}
	fin, err := time.Parse(DateLayout, strings.TrimSpace(req.FechaFin))
	if err != nil {
		return nil, appErrors.ErrInvalidDateFormat
	}

	if inicio.After(fin) {
		return nil, appErrors.ErrDateRange
	}
	if inicio.Before(s.today()) {
		return nil, appErrors.ErrPastDate
	}

	licencia := &models.Licencia{
		ProfesorID:     profesorID,
		Motivo:         strings.TrimSpace(req.Motivo),
		Estado:         models.EstadoPendiente,
		FechaInicio:    inicio,
		FechaFin:       fin,
		FechaSolicitud: s.now().UTC(),
	}

	if err := s.repo.Create(ctx, licencia); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to submit licencia")
	}

	s.logger.Info("licencia submitted", zap.Int64("id", licencia.ID), zap.Int64("profesor_id", profesorID))
	return licencia, nil
}

// ListAll returns every leave request with owner names, newest first.
// Requests whose owner was deleted are included with a nil name.
func (s *LicenciaService) ListAll(ctx context.Context) ([]models.LicenciaConProfesor, error) {
	licencias, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list licencias")
	}
	return licencias, nil
}

// ListOwn returns the caller's leave requests, newest first.
func (s *LicenciaService) ListOwn(ctx context.Context, profesorID int64) ([]models.Licencia, error) {
	licencias, err := s.repo.ListByProfesor(ctx, profesorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list licencias")
	}
	return licencias, nil
}

// Decide transitions a pending request to aprobada or rechazada. Decisions
// are final: re-deciding an already-decided request is rejected instead of
// overwritten.
func (s *LicenciaService) Decide(ctx context.Context, id int64, req DecideLicenciaRequest) (*models.Licencia, error) {
	if !req.Estado.Decided() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "estado must be aprobada or rechazada")
	}

	affected, err := s.repo.UpdateEstado(ctx, id, req.Estado)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update licencia")
	}

	if affected == 0 {
		if _, err := s.repo.FindByID(ctx, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "licencia not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load licencia")
		}
		return nil, appErrors.ErrAlreadyDecided
	}

	licencia, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load licencia")
	}

	s.logger.Info("licencia decided", zap.Int64("id", id), zap.String("estado", string(req.Estado)))
	return licencia, nil
}

// today returns the server's current calendar date at midnight UTC.
func (s *LicenciaService) today() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
