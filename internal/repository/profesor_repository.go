package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/colegiosys/licencias-api/internal/models"
	appErrors "github.com/colegiosys/licencias-api/pkg/errors"
)

const pqUniqueViolation = "23505"

// ProfesorRepository manages persistence for teacher accounts and their
// refresh tokens.
type ProfesorRepository struct {
	db *sqlx.DB
}

// NewProfesorRepository constructs a ProfesorRepository.
func NewProfesorRepository(db *sqlx.DB) *ProfesorRepository {
	return &ProfesorRepository{db: db}
}

// List returns teachers matching filters along with the total count.
func (r *ProfesorRepository) List(ctx context.Context, filter models.ProfesorFilter) ([]models.Profesor, int, error) {
	base := "FROM profesores WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(nombre) LIKE $%d OR LOWER(carnet) LIKE $%d OR LOWER(especialidad) LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, search)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT id, nombre, carnet, password_hash, turno, especialidad, must_change_password, created_at %s ORDER BY id ASC LIMIT %d OFFSET %d", base, size, offset)
	var profesores []models.Profesor
	if err := r.db.SelectContext(ctx, &profesores, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list profesores: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count profesores: %w", err)
	}

	return profesores, total, nil
}

// FindByID fetches a teacher by ID.
func (r *ProfesorRepository) FindByID(ctx context.Context, id int64) (*models.Profesor, error) {
	const query = `SELECT id, nombre, carnet, password_hash, turno, especialidad, must_change_password, created_at FROM profesores WHERE id = $1`
	var profesor models.Profesor
	if err := r.db.GetContext(ctx, &profesor, query, id); err != nil {
		return nil, err
	}
	return &profesor, nil
}

// FindByCarnet fetches a teacher by carnet. Carnet matching is
// case-sensitive.
func (r *ProfesorRepository) FindByCarnet(ctx context.Context, carnet string) (*models.Profesor, error) {
	const query = `SELECT id, nombre, carnet, password_hash, turno, especialidad, must_change_password, created_at FROM profesores WHERE carnet = $1`
	var profesor models.Profesor
	if err := r.db.GetContext(ctx, &profesor, query, carnet); err != nil {
		return nil, err
	}
	return &profesor, nil
}

// Create inserts a new teacher record, assigning its ID. Duplicate carnets
// are detected through the unique constraint rather than a racy pre-check.
func (r *ProfesorRepository) Create(ctx context.Context, profesor *models.Profesor) error {
	if profesor.CreatedAt.IsZero() {
		profesor.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO profesores (nombre, carnet, password_hash, turno, especialidad, must_change_password, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := r.db.QueryRowxContext(ctx, query,
		profesor.Nombre,
		profesor.Carnet,
		profesor.PasswordHash,
		profesor.Turno,
		profesor.Especialidad,
		profesor.MustChangePassword,
		profesor.CreatedAt,
	).Scan(&profesor.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return appErrors.ErrDuplicateCarnet
		}
		return fmt.Errorf("create profesor: %w", err)
	}
	return nil
}

// Delete removes a teacher by id. Deleting an absent id is a no-op; the
// teacher's leave requests are intentionally left in place.
func (r *ProfesorRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM profesores WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete profesor: %w", err)
	}
	return nil
}

// UpdatePassword stores a new password hash and clears the forced-change
// flag.
func (r *ProfesorRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	const query = `UPDATE profesores SET password_hash = $2, must_change_password = FALSE WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, passwordHash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// CreateRefreshToken persists a refresh token entry.
func (r *ProfesorRepository) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO refresh_tokens (id, profesor_id, token, expires_at, created_at, revoked, revoked_at)
		VALUES (:id, :profesor_id, :token, :expires_at, :created_at, :revoked, :revoked_at)`
	if _, err := r.db.NamedExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("create refresh token: %w", err)
	}
	return nil
}

// FindRefreshToken returns a refresh token by token string.
func (r *ProfesorRepository) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	const query = `SELECT id, profesor_id, token, expires_at, created_at, revoked, revoked_at FROM refresh_tokens WHERE token = $1 LIMIT 1`
	var rt models.RefreshToken
	if err := r.db.GetContext(ctx, &rt, query, token); err != nil {
		return nil, err
	}
	return &rt, nil
}

// RevokeRefreshToken marks a token as revoked.
func (r *ProfesorRepository) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	const query = `UPDATE refresh_tokens SET revoked = TRUE, revoked_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, revokedAt); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// RevokeProfesorRefreshTokens revokes every live refresh token of an
// account. Used after password changes and account deletion.
func (r *ProfesorRepository) RevokeProfesorRefreshTokens(ctx context.Context, profesorID int64) error {
	const query = `UPDATE refresh_tokens SET revoked = TRUE, revoked_at = $2 WHERE profesor_id = $1 AND revoked = FALSE`
	if _, err := r.db.ExecContext(ctx, query, profesorID, time.Now().UTC()); err != nil {
		return fmt.Errorf("revoke profesor refresh tokens: %w", err)
	}
	return nil
}
