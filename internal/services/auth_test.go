package services

import (
	"net/http"
	"testing"
	"time"

	"github.com/baharimarine/compro/internal/config"
	"github.com/baharimarine/compro/internal/models"
	"github.com/baharimarine/compro/internal/utils"
	"github.com/baharimarine/compro/pkg/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) *AuthService {
	utils.SetJWTSecret("test-secret")
	cfg := config.DefaultConfig()
	return NewAuthService(newTestDB(t), &cfg.JWT)
}

func TestAuthService_SeedAdminOnce(t *testing.T) {
	svc := newAuthService(t)
	admin := config.AdminConfig{Username: "admin", Email: "Admin@Example.com", Password: "admin123"}

	created, err := svc.CreateAdminIfNotExists(admin)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.CreateAdminIfNotExists(admin)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestAuthService_Login(t *testing.T) {
	svc := newAuthService(t)
	_, err := svc.CreateUser(&CreateUserRequest{Username: "ops", Email: "ops@example.com", Password: "s3cret!!", Role: models.RoleAdmin})
	require.NoError(t, err)

	result, err := svc.Login(&LoginRequest{Email: " OPS@example.com ", Password: "s3cret!!"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), result.ExpireAt, time.Minute)
	require.NotNil(t, result.User.LastLogin)

	claims, err := utils.ParseToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)
	assert.Equal(t, "ops@example.com", claims.Email)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestAuthService_LoginFailuresAreIndistinguishable(t *testing.T) {
	svc := newAuthService(t)
	_, err := svc.CreateUser(&CreateUserRequest{Username: "ops", Email: "ops@example.com", Password: "s3cret!!"})
	require.NoError(t, err)

	for _, req := range []LoginRequest{
		{Email: "ops@example.com", Password: "wrong"},
		{Email: "nobody@example.com", Password: "s3cret!!"},
		{Email: "", Password: ""},
	} {
		_, err := svc.Login(&req)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Equal(t, "email or password incorrect", err.Error())
	}
}

func TestAuthService_CreateUser(t *testing.T) {
	svc := newAuthService(t)

	user, err := svc.CreateUser(&CreateUserRequest{Username: "editor", Email: "editor@example.com", Password: "password"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "password", user.Password)

	_, err = svc.CreateUser(&CreateUserRequest{Username: "editor2", Email: "EDITOR@example.com", Password: "password"})
	assert.Equal(t, http.StatusConflict, response.StatusOf(err))

	_, err = svc.CreateUser(&CreateUserRequest{Username: "x", Email: "bad", Password: "password"})
	assert.Equal(t, http.StatusBadRequest, response.StatusOf(err))

	_, err = svc.CreateUser(&CreateUserRequest{Username: "x", Email: "x@example.com", Password: "123"})
	assert.Equal(t, http.StatusBadRequest, response.StatusOf(err))

	_, err = svc.CreateUser(&CreateUserRequest{Username: "x", Email: "y@example.com", Password: "password", Role: "root"})
	assert.Equal(t, http.StatusBadRequest, response.StatusOf(err))
}

func TestAuthService_ChangePassword(t *testing.T) {
	svc := newAuthService(t)
	user, err := svc.CreateUser(&CreateUserRequest{Username: "ops", Email: "ops@example.com", Password: "first-pass"})
	require.NoError(t, err)

	err = svc.ChangePassword(user.ID, &ChangePasswordRequest{OldPassword: "nope", NewPassword: "second-pass"})
	assert.Equal(t, http.StatusBadRequest, response.StatusOf(err))

	require.NoError(t, svc.ChangePassword(user.ID, &ChangePasswordRequest{OldPassword: "first-pass", NewPassword: "second-pass"}))
	_, err = svc.Login(&LoginRequest{Email: "ops@example.com", Password: "second-pass"})
	assert.NoError(t, err)
}

func TestAuthService_UpdateUser(t *testing.T) {
	svc := newAuthService(t)
	admin, err := svc.CreateUser(&CreateUserRequest{Username: "admin", Email: "admin@example.com", Password: "password", Role: models.RoleAdmin})
	require.NoError(t, err)
	editor, err := svc.CreateUser(&CreateUserRequest{Username: "editor", Email: "editor@example.com", Password: "password"})
	require.NoError(t, err)

	role := models.RoleAdmin
	_, err = svc.UpdateUser(admin.ID, admin.ID, &UpdateUserRequest{Role: &role})
	assert.Equal(t, http.StatusBadRequest, response.StatusOf(err))

	bad := "root"
	_, err = svc.UpdateUser(admin.ID, editor.ID, &UpdateUserRequest{Role: &bad})
	assert.Equal(t, http.StatusBadRequest, response.StatusOf(err))

	inactive := false
	updated, err := svc.UpdateUser(admin.ID, editor.ID, &UpdateUserRequest{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	_, err = svc.Login(&LoginRequest{Email: "editor@example.com", Password: "password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	users, err := svc.ListUsers()
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, admin.ID, users[0].ID)

	_, err = svc.UpdateUser(admin.ID, 999, &UpdateUserRequest{IsActive: &inactive})
	assert.Equal(t, http.StatusNotFound, response.StatusOf(err))
}
