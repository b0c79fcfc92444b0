package auth

import (
	"context"
	"testing"

	domain "github.com/incubase/attendance-backend-go/internal/domain/auth"
	"github.com/incubase/attendance-backend-go/internal/domain/user"
	"github.com/incubase/attendance-backend-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	users map[string]user.User
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func newTestAuthService(t *testing.T) *AuthServiceImpl {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2!"), bcrypt.MinCost)
	require.NoError(t, err)

	morning := "Morning"
	repo := &fakeUserRepo{users: map[string]user.User{
		"user-1": {
			ID:           "user-1",
			Email:        "fatima@incubase.pk",
			PasswordHash: string(hash),
			FullName:     "Fatima Noor",
			Shift:        &morning,
		},
	}}

	jwtService := jwt.NewJWTService("test-secret-key-for-jwt", "1h")
	return NewAuthService(repo, jwtService)
}

func TestLoginSuccess(t *testing.T) {
	svc := newTestAuthService(t)

	resp, err := svc.Login(context.Background(), domain.LoginRequest{
		Email:    "fatima@incubase.pk",
		Password: "hunter2!",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "user-1", resp.UserID)
	assert.Equal(t, "Fatima Noor", resp.FullName)
	require.NotNil(t, resp.Shift)
	assert.Equal(t, "Morning", *resp.Shift)
	assert.Greater(t, resp.AccessTokenExpiresAt, int64(0))
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Login(context.Background(), domain.LoginRequest{
		Email:    "fatima@incubase.pk",
		Password: "not-the-password",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginUnknownEmailIsIndistinguishable(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Login(context.Background(), domain.LoginRequest{
		Email:    "nobody@incubase.pk",
		Password: "hunter2!",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginValidation(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Login(context.Background(), domain.LoginRequest{})
	assert.Error(t, err)

	_, err = svc.Login(context.Background(), domain.LoginRequest{Email: "not-an-email", Password: "x"})
	assert.Error(t, err)
}
