package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role represents the authorization role derived from the carnet.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleProfesor Role = "profesor"
)

// RoleFor derives the role for a carnet.
func RoleFor(carnet string) Role {
	if carnet == AdminCarnet {
		return RoleAdmin
	}
	return RoleProfesor
}

// LoginRequest holds credentials for authenticating a profesor.
type LoginRequest struct {
	Carnet   string `json:"carnet" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued tokens and account info.
type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"`
	User         ProfesorInfo `json:"user"`
	IssuedAt     time.Time    `json:"issued_at"`
}

// RefreshTokenRequest exchanges a refresh token for a new access token.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse returns the refreshed tokens.
type RefreshTokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int64     `json:"expires_in"`
	IssuedAt     time.Time `json:"issued_at"`
}

// ChangePasswordRequest payload for updating the caller's password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// ProfesorInfo describes the authenticated account in responses.
type ProfesorInfo struct {
	ID                 int64  `json:"id"`
	Carnet             string `json:"carnet"`
	Nombre             string `json:"nombre"`
	Role               Role   `json:"role"`
	MustChangePassword bool   `json:"must_change_password"`
}

// RefreshToken is a persisted, revocable session credential.
type RefreshToken struct {
	ID         string     `db:"id" json:"id"`
	ProfesorID int64      `db:"profesor_id" json:"profesor_id"`
	Token      string     `db:"token" json:"-"`
	ExpiresAt  time.Time  `db:"expires_at" json:"expires_at"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	Revoked    bool       `db:"revoked" json:"revoked"`
	RevokedAt  *time.Time `db:"revoked_at" json:"revoked_at,omitempty"`
}

// JWTClaims represents the JWT payload for access tokens. It is the
// request-scoped identity every protected handler reads, replacing any
// ambient session state.
type JWTClaims struct {
	ProfesorID         int64  `json:"profesor_id"`
	Carnet             string `json:"carnet"`
	Nombre             string `json:"nombre"`
	Role               Role   `json:"role"`
	MustChangePassword bool   `json:"must_change_password"`
	jwt.RegisteredClaims
}
