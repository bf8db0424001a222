package database

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/colegiosys/licencias-api/internal/models"
)

const createProfesores = `
CREATE TABLE IF NOT EXISTS profesores (
	id BIGSERIAL PRIMARY KEY,
	nombre TEXT NOT NULL,
	carnet TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	turno TEXT NOT NULL,
	especialidad TEXT NOT NULL,
	must_change_password BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// licencias keeps no enforced foreign key to profesores: requests must
// survive the deletion of their owner.
const createLicencias = `
CREATE TABLE IF NOT EXISTS licencias (
	id BIGSERIAL PRIMARY KEY,
	profesor_id BIGINT NOT NULL,
	motivo TEXT NOT NULL,
	estado TEXT NOT NULL DEFAULT 'pendiente',
	fecha_solicitud TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const createRefreshTokens = `
CREATE TABLE IF NOT EXISTS refresh_tokens (
	id UUID PRIMARY KEY,
	profesor_id BIGINT NOT NULL,
	token TEXT NOT NULL UNIQUE,
	expires_at TIMESTAMPTZ NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	revoked BOOLEAN NOT NULL DEFAULT FALSE,
	revoked_at TIMESTAMPTZ
)`

// Migrate idempotently ensures the schema exists, applies additive column
// migrations, and seeds the administrator account. It must run before the
// server accepts traffic; any failure here is fatal for the process.
func Migrate(db *sqlx.DB, adminInitialPassword string, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, stmt := range []string{createProfesores, createLicencias, createRefreshTokens} {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("create tables: %w", err)
		}
	}

	if err := addMissingLicenciaColumns(db, logger); err != nil {
		return err
	}

	return seedAdmin(db, adminInitialPassword, logger)
}

// addMissingLicenciaColumns brings pre-date-range deployments of the
// licencias table up to the current shape. Columns are only ever added,
// never dropped or renamed.
func addMissingLicenciaColumns(db *sqlx.DB, logger *zap.Logger) error {
	var columns []string
	const query = `SELECT column_name FROM information_schema.columns WHERE table_name = 'licencias'`
	if err := db.Select(&columns, query); err != nil {
		return fmt.Errorf("inspect licencias columns: %w", err)
	}

	present := make(map[string]struct{}, len(columns))
	for _, col := range columns {
		present[col] = struct{}{}
	}

	additive := []struct {
		column string
		stmt   string
	}{
		{"fecha_inicio", `ALTER TABLE licencias ADD COLUMN fecha_inicio DATE NOT NULL DEFAULT CURRENT_DATE`},
		{"fecha_fin", `ALTER TABLE licencias ADD COLUMN fecha_fin DATE NOT NULL DEFAULT CURRENT_DATE`},
	}

	for _, migration := range additive {
		if _, ok := present[migration.column]; ok {
			continue
		}
		if _, err := db.Exec(migration.stmt); err != nil {
			return fmt.Errorf("add licencias column %s: %w", migration.column, err)
		}
		logger.Info("added licencias column", zap.String("column", migration.column))
	}

	return nil
}

// seedAdmin creates the administrator row on first run. A fixed default
// password is deliberately not shipped: the operator must provide the
// initial secret, and the account is forced through a password change.
func seedAdmin(db *sqlx.DB, initialPassword string, logger *zap.Logger) error {
	var count int
	if err := db.Get(&count, `SELECT COUNT(*) FROM profesores WHERE carnet = $1`, models.AdminCarnet); err != nil {
		return fmt.Errorf("check admin account: %w", err)
	}
	if count > 0 {
		return nil
	}

	if initialPassword == "" {
		return fmt.Errorf("admin account missing and ADMIN_INITIAL_PASSWORD not set; configure it for first run")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(initialPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	const insert = `INSERT INTO profesores (nombre, carnet, password_hash, turno, especialidad, must_change_password, created_at)
		VALUES ($1, $2, $3, $4, $5, TRUE, $6)`
	if _, err := db.Exec(insert, "Administrador", models.AdminCarnet, string(hash), "mañana", "Dirección", time.Now().UTC()); err != nil {
		return fmt.Errorf("seed admin account: %w", err)
	}

	logger.Info("seeded administrator account; password change required on first login")
	return nil
}
