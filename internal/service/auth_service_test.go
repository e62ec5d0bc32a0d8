package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/wallet-service/internal/config"
	"github.com/spec-kit/wallet-service/internal/domain"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		SigningSecret:         "test-secret",
		AccessTokenTTLMinutes: 60,
		RefreshTokenTTLHours:  7 * 24,
		BcryptCost:            4,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	users := &fakeUserRepo{}
	svc := NewAuthService(testAuthConfig(), users, nil)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "mario", "mario@test.com", "password123"))

	user, pair, err := svc.Login(ctx, "mario@test.com", "password123")
	require.NoError(t, err)
	require.Equal(t, "mario", user.Username)
	require.Equal(t, domain.RoleRegular, user.Role)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	// Login persists the refresh token for later revocation.
	stored, err := users.GetByEmail(ctx, "mario@test.com")
	require.NoError(t, err)
	require.NotNil(t, stored.RefreshToken)
	require.Equal(t, pair.RefreshToken, *stored.RefreshToken)
}

func TestRegisterAdminRole(t *testing.T) {
	users := &fakeUserRepo{}
	svc := NewAuthService(testAuthConfig(), users, nil)
	ctx := context.Background()

	require.NoError(t, svc.RegisterAdmin(ctx, "peach", "peach@test.com", "password123"))

	stored, err := users.GetByEmail(ctx, "peach@test.com")
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, stored.Role)
}

func TestRegisterDuplicate(t *testing.T) {
	users := &fakeUserRepo{}
	svc := NewAuthService(testAuthConfig(), users, nil)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "mario", "mario@test.com", "password123"))

	require.ErrorIs(t, svc.Register(ctx, "mario", "other@test.com", "password123"), ErrUserExists)
	require.ErrorIs(t, svc.Register(ctx, "other", "mario@test.com", "password123"), ErrUserExists)
}

func TestLoginFailures(t *testing.T) {
	users := &fakeUserRepo{}
	svc := NewAuthService(testAuthConfig(), users, nil)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "mario", "mario@test.com", "password123"))

	_, _, err := svc.Login(ctx, "nobody@test.com", "password123")
	require.ErrorIs(t, err, ErrUnknownUser)

	_, _, err = svc.Login(ctx, "mario@test.com", "wrong-password")
	require.ErrorIs(t, err, ErrWrongCredential)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	users := &fakeUserRepo{}
	svc := NewAuthService(testAuthConfig(), users, nil)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "mario", "mario@test.com", "password123"))
	_, pair, err := svc.Login(ctx, "mario@test.com", "password123")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, pair.RefreshToken))

	stored, err := users.GetByEmail(ctx, "mario@test.com")
	require.NoError(t, err)
	require.Nil(t, stored.RefreshToken)

	// A second logout has no session to match.
	require.ErrorIs(t, svc.Logout(ctx, pair.RefreshToken), ErrUnknownRefreshUser)
}

func TestCallerEmail(t *testing.T) {
	users := &fakeUserRepo{}
	svc := NewAuthService(testAuthConfig(), users, nil)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "mario", "mario@test.com", "password123"))
	_, pair, err := svc.Login(ctx, "mario@test.com", "password123")
	require.NoError(t, err)

	email, err := svc.CallerEmail(pair.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, "mario@test.com", email)

	_, err = svc.CallerEmail("garbage")
	require.Error(t, err)
}
