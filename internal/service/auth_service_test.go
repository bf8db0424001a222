package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/colegiosys/licencias-api/internal/models"
	appErrors "github.com/colegiosys/licencias-api/pkg/errors"
)

type fakeAuthRepo struct {
	profesores    map[string]*models.Profesor
	refreshTokens map[string]*models.RefreshToken
	revokedAll    []int64
	updatedHash   string
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{
		profesores:    make(map[string]*models.Profesor),
		refreshTokens: make(map[string]*models.RefreshToken),
	}
}

func (f *fakeAuthRepo) addProfesor(id int64, carnet, password string) *models.Profesor {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	profesor := &models.Profesor{ID: id, Nombre: "Profesor " + carnet, Carnet: carnet, PasswordHash: string(hash)}
	f.profesores[carnet] = profesor
	return profesor
}

func (f *fakeAuthRepo) FindByCarnet(_ context.Context, carnet string) (*models.Profesor, error) {
	if p, ok := f.profesores[carnet]; ok {
		return p, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAuthRepo) FindByID(_ context.Context, id int64) (*models.Profesor, error) {
	for _, p := range f.profesores {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAuthRepo) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	f.updatedHash = passwordHash
	for _, p := range f.profesores {
		if p.ID == id {
			p.PasswordHash = passwordHash
			p.MustChangePassword = false
		}
	}
	return nil
}

func (f *fakeAuthRepo) CreateRefreshToken(_ context.Context, token *models.RefreshToken) error {
	f.refreshTokens[token.Token] = token
	return nil
}

func (f *fakeAuthRepo) FindRefreshToken(_ context.Context, token string) (*models.RefreshToken, error) {
	if rt, ok := f.refreshTokens[token]; ok {
		return rt, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAuthRepo) RevokeRefreshToken(_ context.Context, id string, revokedAt time.Time) error {
	for _, rt := range f.refreshTokens {
		if rt.ID == id {
			rt.Revoked = true
			rt.RevokedAt = &revokedAt
		}
	}
	return nil
}

func (f *fakeAuthRepo) RevokeProfesorRefreshTokens(_ context.Context, profesorID int64) error {
	f.revokedAll = append(f.revokedAll, profesorID)
	for _, rt := range f.refreshTokens {
		if rt.ProfesorID == profesorID {
			rt.Revoked = true
		}
	}
	return nil
}

func newTestAuthService(repo *fakeAuthRepo) *AuthService {
	return NewAuthService(repo, nil, nil, AuthConfig{
		AccessTokenSecret:  "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "licencias-api",
	})
}

func assertErrorCode(t *testing.T, err error, want string) {
	t.Helper()
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr), "expected app error, got %v", err)
	assert.Equal(t, want, appErr.Code)
}

func TestAuthServiceLogin(t *testing.T) {
	repo := newFakeAuthRepo()
	repo.addProfesor(2, "t1", "secreto1")
	svc := newTestAuthService(repo)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Carnet: "t1", Password: "secreto1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, models.RoleProfesor, resp.User.Role)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(2), claims.ProfesorID)
	assert.Equal(t, "t1", claims.Carnet)
	assert.Equal(t, models.RoleProfesor, claims.Role)
}

func TestAuthServiceLoginAdminRole(t *testing.T) {
	repo := newFakeAuthRepo()
	admin := repo.addProfesor(1, models.AdminCarnet, "inicial1")
	admin.MustChangePassword = true
	svc := newTestAuthService(repo)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Carnet: models.AdminCarnet, Password: "inicial1"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, resp.User.Role)
	assert.True(t, resp.User.MustChangePassword)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.True(t, claims.MustChangePassword)
}

func TestAuthServiceLoginRejectsBadCredentials(t *testing.T) {
	repo := newFakeAuthRepo()
	repo.addProfesor(2, "t1", "secreto1")
	svc := newTestAuthService(repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{Carnet: "t1", Password: "equivocada"})
	assertErrorCode(t, err, appErrors.ErrInvalidCredentials.Code)

	_, err = svc.Login(context.Background(), models.LoginRequest{Carnet: "nadie", Password: "secreto1"})
	assertErrorCode(t, err, appErrors.ErrInvalidCredentials.Code)
}

func TestAuthServiceLoginValidatesPayload(t *testing.T) {
	svc := newTestAuthService(newFakeAuthRepo())

	_, err := svc.Login(context.Background(), models.LoginRequest{Carnet: "t1"})
	assertErrorCode(t, err, appErrors.ErrValidation.Code)
}

func TestAuthServiceValidateTokenRejectsTampered(t *testing.T) {
	repo := newFakeAuthRepo()
	repo.addProfesor(2, "t1", "secreto1")
	svc := newTestAuthService(repo)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Carnet: "t1", Password: "secreto1"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(resp.AccessToken + "x")
	assertErrorCode(t, err, appErrors.ErrUnauthorized.Code)
}

func TestAuthServiceRefreshRotatesToken(t *testing.T) {
	repo := newFakeAuthRepo()
	repo.addProfesor(2, "t1", "secreto1")
	svc := newTestAuthService(repo)

	login, err := svc.Login(context.Background(), models.LoginRequest{Carnet: "t1", Password: "secreto1"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// The used token is revoked; replaying it must fail.
	_, err = svc.Refresh(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	assertErrorCode(t, err, appErrors.ErrUnauthorized.Code)
}

func TestAuthServiceRefreshRejectsExpired(t *testing.T) {
	repo := newFakeAuthRepo()
	repo.addProfesor(2, "t1", "secreto1")
	repo.refreshTokens["caducado"] = &models.RefreshToken{
		ID:         "rt-1",
		ProfesorID: 2,
		Token:      "caducado",
		ExpiresAt:  time.Now().UTC().Add(-time.Hour),
	}
	svc := newTestAuthService(repo)

	_, err := svc.Refresh(context.Background(), models.RefreshTokenRequest{RefreshToken: "caducado"})
	assertErrorCode(t, err, appErrors.ErrUnauthorized.Code)
}

func TestAuthServiceLogout(t *testing.T) {
	repo := newFakeAuthRepo()
	repo.addProfesor(2, "t1", "secreto1")
	svc := newTestAuthService(repo)

	login, err := svc.Login(context.Background(), models.LoginRequest{Carnet: "t1", Password: "secreto1"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), login.RefreshToken, 2))
	assert.True(t, repo.refreshTokens[login.RefreshToken].Revoked)
}

func TestAuthServiceLogoutRejectsForeignToken(t *testing.T) {
	repo := newFakeAuthRepo()
	repo.addProfesor(2, "t1", "secreto1")
	svc := newTestAuthService(repo)

	login, err := svc.Login(context.Background(), models.LoginRequest{Carnet: "t1", Password: "secreto1"})
	require.NoError(t, err)

	err = svc.Logout(context.Background(), login.RefreshToken, 99)
	assertErrorCode(t, err, appErrors.ErrForbidden.Code)
	assert.False(t, repo.refreshTokens[login.RefreshToken].Revoked)
}

func TestAuthServiceChangePassword(t *testing.T) {
	repo := newFakeAuthRepo()
	profesor := repo.addProfesor(2, "t1", "secreto1")
	profesor.MustChangePassword = true
	svc := newTestAuthService(repo)

	login, err := svc.Login(context.Background(), models.LoginRequest{Carnet: "t1", Password: "secreto1"})
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), 2, models.ChangePasswordRequest{OldPassword: "secreto1", NewPassword: "nuevaClave9"})
	require.NoError(t, err)

	assert.False(t, profesor.MustChangePassword)
	assert.Contains(t, repo.revokedAll, int64(2))
	assert.True(t, repo.refreshTokens[login.RefreshToken].Revoked)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(profesor.PasswordHash), []byte("nuevaClave9")))
}

func TestAuthServiceChangePasswordRejectsWrongOldPassword(t *testing.T) {
	repo := newFakeAuthRepo()
	repo.addProfesor(2, "t1", "secreto1")
	svc := newTestAuthService(repo)

	err := svc.ChangePassword(context.Background(), 2, models.ChangePasswordRequest{OldPassword: "equivocada", NewPassword: "nuevaClave9"})
	assertErrorCode(t, err, appErrors.ErrForbidden.Code)
}
