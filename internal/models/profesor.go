package models

import "time"

// AdminCarnet identifies the built-in administrator account. The admin is
// stored as a regular profesor row; role derivation keys off the carnet.
const AdminCarnet = "admin"

// Profesor represents a teacher account able to submit leave requests.
type Profesor struct {
	ID                 int64     `db:"id" json:"id"`
	Nombre             string    `db:"nombre" json:"nombre"`
	Carnet             string    `db:"carnet" json:"carnet"`
	PasswordHash       string    `db:"password_hash" json:"-"`
	Turno              string    `db:"turno" json:"turno"`
	Especialidad       string    `db:"especialidad" json:"especialidad"`
	MustChangePassword bool      `db:"must_change_password" json:"must_change_password"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

// IsAdmin reports whether this account carries the administrator role.
func (p *Profesor) IsAdmin() bool {
	return p.Carnet == AdminCarnet
}

// ProfesorFilter captures filtering options for listing teachers.
type ProfesorFilter struct {
	Search   string
	Page     int
	PageSize int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
