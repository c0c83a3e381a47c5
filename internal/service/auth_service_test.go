package service

import (
	"context"
	"testing"
	"time"

	"fitcollab/fitness-app/internal/domain"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret"

func newAuthFixture() (AuthService, *memUserRepo) {
	users := newMemUserRepo()
	return NewAuthService(users, testJWTSecret, time.Hour), users
}

func TestRegister_HashesPasswordAndStripsIt(t *testing.T) {
	svc, users := newAuthFixture()
	ctx := context.Background()

	user, err := svc.Register(ctx, "Ana", "ana@example.com", "secret123", domain.RoleStudent)
	require.NoError(t, err)
	assert.False(t, user.ID.IsZero())
	assert.Empty(t, user.PasswordHash)

	stored, err := users.GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, stored.PasswordHash)
	assert.NotEqual(t, "secret123", stored.PasswordHash)
}

func TestRegister_DuplicateEmailFails(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, "Ana", "ana@example.com", "secret123", domain.RoleStudent)
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Ana Again", "ana@example.com", "other456", domain.RoleStudent)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestRegister_AdminRoleCannotSelfRegister(t *testing.T) {
	svc, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), "Root", "root@example.com", "secret123", domain.RoleAdmin)
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestLogin_ReturnsTokenWithUserClaims(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	registered, err := svc.Register(ctx, "Rui", "rui@example.com", "secret123", domain.RoleTrainer)
	require.NoError(t, err)

	token, user, err := svc.Login(ctx, "rui@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.Empty(t, user.PasswordHash)

	claims := &jwtClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, registered.ID.Hex(), claims.UserID)
	assert.Equal(t, domain.RoleTrainer, claims.Role)
}

func TestLogin_WrongPasswordFails(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, "Rui", "rui@example.com", "secret123", domain.RoleTrainer)
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "rui@example.com", "wrong")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	// An unknown email maps to the same failure.
	_, _, err = svc.Login(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}
