package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/colegiosys/licencias-api/internal/models"
)

// LicenciaRepository manages persistence for leave requests.
type LicenciaRepository struct {
	db *sqlx.DB
}

// NewLicenciaRepository constructs a LicenciaRepository.
func NewLicenciaRepository(db *sqlx.DB) *LicenciaRepository {
	return &LicenciaRepository{db: db}
}

// Create inserts a new leave request, assigning its ID.
func (r *LicenciaRepository) Create(ctx context.Context, licencia *models.Licencia) error {
	if licencia.FechaSolicitud.IsZero() {
		licencia.FechaSolicitud = time.Now().UTC()
	}
	if licencia.Estado == "" {
		licencia.Estado = models.EstadoPendiente
	}

	const query = `INSERT INTO licencias (profesor_id, motivo, estado, fecha_inicio, fecha_fin, fecha_solicitud)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := r.db.QueryRowxContext(ctx, query,
		licencia.ProfesorID,
		licencia.Motivo,
		licencia.Estado,
		licencia.FechaInicio,
		licencia.FechaFin,
		licencia.FechaSolicitud,
	).Scan(&licencia.ID)
	if err != nil {
		return fmt.Errorf("create licencia: %w", err)
	}
	return nil
}

// FindByID fetches a leave request by ID.
func (r *LicenciaRepository) FindByID(ctx context.Context, id int64) (*models.Licencia, error) {
	const query = `SELECT id, profesor_id, motivo, estado, fecha_inicio, fecha_fin, fecha_solicitud FROM licencias WHERE id = $1`
	var licencia models.Licencia
	if err := r.db.GetContext(ctx, &licencia, query, id); err != nil {
		return nil, err
	}
	return &licencia, nil
}

// ListAll returns every leave request joined with its owner's name, newest
// submission first. The LEFT JOIN keeps requests whose profesor has been
// deleted; their name comes back NULL.
func (r *LicenciaRepository) ListAll(ctx context.Context) ([]models.LicenciaConProfesor, error) {
	const query = `SELECT l.id, l.profesor_id, l.motivo, l.estado, l.fecha_inicio, l.fecha_fin, l.fecha_solicitud, p.nombre AS profesor_nombre
		FROM licencias l
		LEFT JOIN profesores p ON l.profesor_id = p.id
		ORDER BY l.fecha_solicitud DESC`
	var licencias []models.LicenciaConProfesor
	if err := r.db.SelectContext(ctx, &licencias, query); err != nil {
		return nil, fmt.Errorf("list licencias: %w", err)
	}
	return licencias, nil
}

// ListByProfesor returns the leave requests of a single teacher, newest
// submission first.
func (r *LicenciaRepository) ListByProfesor(ctx context.Context, profesorID int64) ([]models.Licencia, error) {
	const query = `SELECT id, profesor_id, motivo, estado, fecha_inicio, fecha_fin, fecha_solicitud FROM licencias WHERE profesor_id = $1 ORDER BY fecha_solicitud DESC`
	var licencias []models.Licencia
	if err := r.db.SelectContext(ctx, &licencias, query, profesorID); err != nil {
		return nil, fmt.Errorf("list licencias by profesor: %w", err)
	}
	return licencias, nil
}

// UpdateEstado transitions a pending leave request to a decision. It
// returns the number of rows changed: zero means the request was absent or
// no longer pending; the guard in the WHERE clause makes the state machine
// safe under concurrent deciders.
func (r *LicenciaRepository) UpdateEstado(ctx context.Context, id int64, estado models.LicenciaEstado) (int64, error) {
	const query = `UPDATE licencias SET estado = $2 WHERE id = $1 AND estado = $3`
	result, err := r.db.ExecContext(ctx, query, id, estado, models.EstadoPendiente)
	if err != nil {
		return 0, fmt.Errorf("update licencia estado: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update licencia estado rows: %w", err)
	}
	return affected, nil
}

// CountByEstado returns how many leave requests sit in each state.
func (r *LicenciaRepository) CountByEstado(ctx context.Context) (map[models.LicenciaEstado]int, error) {
	const query = `SELECT estado, COUNT(*) AS total FROM licencias GROUP BY estado`
	rows := []struct {
		Estado models.LicenciaEstado `db:"estado"`
		Total  int                   `db:"total"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count licencias by estado: %w", err)
	}
	counts := make(map[models.LicenciaEstado]int, len(rows))
	for _, row := range rows {
		counts[row.Estado] = row.Total
	}
	return counts, nil
}
