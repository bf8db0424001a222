package models

import "time"

// LicenciaEstado enumerates the lifecycle states of a leave request.
type LicenciaEstado string

const (
	EstadoPendiente LicenciaEstado = "pendiente"
	EstadoAprobada  LicenciaEstado = "aprobada"
	EstadoRechazada LicenciaEstado = "rechazada"
)

// Valid reports whether the estado is one of the known lifecycle states.
func (e LicenciaEstado) Valid() bool {
	switch e {
	case EstadoPendiente, EstadoAprobada, EstadoRechazada:
		return true
	}
	return false
}

// Decided reports whether the estado is a terminal decision.
func (e LicenciaEstado) Decided() bool {
	return e == EstadoAprobada || e == EstadoRechazada
}

// Licencia is a leave request owned by exactly one profesor.
//
// Rows are never deleted; they outlive the owning profesor so that the
// admin listing keeps a complete history.
type Licencia struct {
	ID             int64          `db:"id" json:"id"`
	ProfesorID     int64          `db:"profesor_id" json:"profesor_id"`
	Motivo         string         `db:"motivo" json:"motivo"`
	Estado         LicenciaEstado `db:"estado" json:"estado"`
	FechaInicio    time.Time      `db:"fecha_inicio" json:"fecha_inicio"`
	FechaFin       time.Time      `db:"fecha_fin" json:"fecha_fin"`
	FechaSolicitud time.Time      `db:"fecha_solicitud" json:"fecha_solicitud"`
}

// LicenciaConProfesor joins a leave request with its owner's display name.
// ProfesorNombre is nil when the owning profesor has been deleted.
type LicenciaConProfesor struct {
	Licencia
	ProfesorNombre *string `db:"profesor_nombre" json:"profesor_nombre"`
}
