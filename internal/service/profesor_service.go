package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/colegiosys/licencias-api/internal/models"
	appErrors "github.com/colegiosys/licencias-api/pkg/errors"
)

type profesorRepository interface {
	List(ctx context.Context, filter models.ProfesorFilter) ([]models.Profesor, int, error)
	FindByID(ctx context.Context, id int64) (*models.Profesor, error)
	Create(ctx context.Context, profesor *models.Profesor) error
	Delete(ctx context.Context, id int64) error
	RevokeProfesorRefreshTokens(ctx context.Context, profesorID int64) error
}

// RegisterProfesorRequest represents payload for registering a teacher.
type RegisterProfesorRequest struct {
	Nombre       string `json:"nombre" validate:"required"`
	Carnet       string `json:"carnet" validate:"required"`
	Password     string `json:"password" validate:"required,min=6"`
	Turno        string `json:"turno" validate:"required"`
	Especialidad string `json:"especialidad" validate:"required"`
}

// ProfesorService orchestrates teacher account management.
type ProfesorService struct {
	repo      profesorRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProfesorService constructs a ProfesorService.
func NewProfesorService(repo profesorRepository, validate *validator.Validate, logger *zap.Logger) *ProfesorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfesorService{repo: repo, validator: validate, logger: logger}
}

// List returns teachers plus pagination data. The admin account is a
// regular row and is included.
func (s *ProfesorService) List(ctx context.Context, filter models.ProfesorFilter) ([]models.Profesor, *models.Pagination, error) {
	profesores, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list profesores")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return profesores, pagination, nil
}

// Register creates a new teacher account with a hashed password. A carnet
// collision surfaces as DUPLICATE_CARNET via the unique constraint.
func (s *ProfesorService) Register(ctx context.Context, req RegisterProfesorRequest) (*models.Profesor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "all fields are required")
	}

	carnet := strings.TrimSpace(req.Carnet)
	if carnet == models.AdminCarnet {
		return nil, appErrors.Clone(appErrors.ErrValidation, "carnet is reserved")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	profesor := &models.Profesor{
		Nombre:       strings.TrimSpace(req.Nombre),
		Carnet:       carnet,
		PasswordHash: string(hash),
		Turno:        strings.TrimSpace(req.Turno),
		Especialidad: strings.TrimSpace(req.Especialidad),
	}

	if err := s.repo.Create(ctx, profesor); err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) && appErr.Code == appErrors.ErrDuplicateCarnet.Code {
			return nil, err
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to register profesor")
	}

	s.logger.Info("profesor registered", zap.Int64("id", profesor.ID), zap.String("carnet", profesor.Carnet))
	return profesor, nil
}

// Delete removes a teacher account. Deleting an absent id is a quiet
// no-op; deleting the administrator is refused. Leave requests of the
// deleted teacher are kept.
func (s *ProfesorService) Delete(ctx context.Context, id int64) error {
	profesor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profesor")
	}

	if profesor.IsAdmin() {
		return appErrors.Clone(appErrors.ErrValidation, "the administrator account cannot be deleted")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete profesor")
	}

	if err := s.repo.RevokeProfesorRefreshTokens(ctx, id); err != nil {
		s.logger.Warn("failed to revoke sessions of deleted profesor", zap.Int64("id", id), zap.Error(err))
	}

	s.logger.Info("profesor deleted", zap.Int64("id", id))
	return nil
}
