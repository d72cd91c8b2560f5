package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/campora/college-admin-api/internal/models"
	appErrors "github.com/campora/college-admin-api/pkg/errors"
)

func testAuthConfig() AuthConfig {
	return AuthConfig{
		AccessTokenSecret:  "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "college-admin-api",
	}
}

func activeUser(t *testing.T, username, password string, role models.UserRole) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.User{
		Username:     username,
		PasswordHash: string(hash),
		FullName:     "Test User",
		Role:         role,
		Active:       true,
	}
}

func TestAuthServiceLogin(t *testing.T) {
	repo := newFakeUserRepository(activeUser(t, "registrar", "secret1", models.RoleRegistrar))
	audit := &fakeAuditRecorder{}
	svc := NewAuthService(repo, audit, nil, nil, testAuthConfig())

	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "registrar", Password: "secret1"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, int64(900), resp.ExpiresIn)
	assert.Equal(t, models.RoleRegistrar, resp.User.Role)
	assert.Equal(t, models.AuditActionLogin, audit.lastAction())

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, models.RoleRegistrar, claims.Role)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	repo := newFakeUserRepository(activeUser(t, "registrar", "secret1", models.RoleRegistrar))
	svc := NewAuthService(repo, nil, nil, nil, testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "registrar", Password: "nope99"})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestAuthServiceLoginInactiveAccount(t *testing.T) {
	user := activeUser(t, "registrar", "secret1", models.RoleRegistrar)
	user.Active = false
	svc := NewAuthService(newFakeUserRepository(user), nil, nil, nil, testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "registrar", Password: "secret1"})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErr.Code)
}

func TestAuthServiceRefreshRotatesToken(t *testing.T) {
	repo := newFakeUserRepository(activeUser(t, "registrar", "secret1", models.RoleRegistrar))
	svc := NewAuthService(repo, nil, nil, nil, testAuthConfig())

	login, err := svc.Login(context.Background(), models.LoginRequest{Username: "registrar", Password: "secret1"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// the used token is revoked, a second exchange must fail
	_, err = svc.Refresh(context.Background(), login.RefreshToken)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}

func TestAuthServiceLogout(t *testing.T) {
	repo := newFakeUserRepository(activeUser(t, "registrar", "secret1", models.RoleRegistrar))
	svc := NewAuthService(repo, nil, nil, nil, testAuthConfig())

	login, err := svc.Login(context.Background(), models.LoginRequest{Username: "registrar", Password: "secret1"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), login.RefreshToken, login.User.ID))

	_, err = svc.Refresh(context.Background(), login.RefreshToken)
	require.Error(t, err)
}

func TestAuthServiceLogoutForeignToken(t *testing.T) {
	repo := newFakeUserRepository(activeUser(t, "registrar", "secret1", models.RoleRegistrar))
	svc := NewAuthService(repo, nil, nil, nil, testAuthConfig())

	login, err := svc.Login(context.Background(), models.LoginRequest{Username: "registrar", Password: "secret1"})
	require.NoError(t, err)

	err = svc.Logout(context.Background(), login.RefreshToken, "someone-else")
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestAuthServiceResetPasswordRevokesSessions(t *testing.T) {
	repo := newFakeUserRepository(activeUser(t, "1CA21CS001", "secret1", models.RoleStudent))
	audit := &fakeAuditRecorder{}
	svc := NewAuthService(repo, audit, nil, nil, testAuthConfig())

	login, err := svc.Login(context.Background(), models.LoginRequest{Username: "1CA21CS001", Password: "secret1"})
	require.NoError(t, err)

	err = svc.ResetPassword(context.Background(), registrarClaims(), models.ResetPasswordRequest{
		Username:    "1CA21CS001",
		NewPassword: "fresh-secret",
	})
	require.NoError(t, err)

	// old sessions are dead, the new password works
	_, err = svc.Refresh(context.Background(), login.RefreshToken)
	require.Error(t, err)
	_, err = svc.Login(context.Background(), models.LoginRequest{Username: "1CA21CS001", Password: "fresh-secret"})
	require.NoError(t, err)
	assert.Equal(t, models.AuditActionPasswordReset, audit.entries[len(audit.entries)-2].Action)
}

func TestAuthServiceValidateTokenRejectsTampered(t *testing.T) {
	svc := NewAuthService(newFakeUserRepository(), nil, nil, nil, testAuthConfig())

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)

	other := NewAuthService(newFakeUserRepository(activeUser(t, "x", "secret1", models.RoleAdmin)), nil, nil, nil, AuthConfig{
		AccessTokenSecret: "other-secret",
		AccessTokenExpiry: time.Minute,
	})
	login, err := other.Login(context.Background(), models.LoginRequest{Username: "x", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(login.AccessToken)
	require.Error(t, err)
}
