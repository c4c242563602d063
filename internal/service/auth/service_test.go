package auth

import (
	"context"
	"testing"

	"github.com/cinetrack/attendance-backend-go/internal/domain/auth"
	"github.com/cinetrack/attendance-backend-go/internal/domain/user"
	"github.com/cinetrack/attendance-backend-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	byEmail map[string]user.User
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	if u, ok := r.byEmail[email]; ok {
		return u, nil
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *fakeUserRepo) Create(_ context.Context, u user.User) (user.User, error) {
	r.byEmail[u.Email] = u
	return u, nil
}

func newTestService(t *testing.T) auth.Service {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &fakeUserRepo{byEmail: map[string]user.User{
		"manager@example.com": {
			ID:           "user-1",
			Email:        "manager@example.com",
			Name:         "Robin Vance",
			PasswordHash: string(hash),
			Role:         user.RoleManager,
		},
	}}
	return NewAuthService(repo, jwt.NewJWTService("test-secret-key", "1h"))
}

func TestAuthService_Login_Success(t *testing.T) {
	svc := newTestService(t)

	resp, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "manager@example.com",
		Password: "correct-horse",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Greater(t, resp.ExpiresAt, int64(0))
	assert.Equal(t, "manager", resp.Role)
	assert.Equal(t, "Robin Vance", resp.Name)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "manager@example.com",
		Password: "wrong",
	})

	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "nobody@example.com",
		Password: "correct-horse",
	})

	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthService_Login_InvalidRequest(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "not-an-email",
		Password: "",
	})

	assert.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)
}
