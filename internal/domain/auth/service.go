package auth

import "context"

// AuthService authenticates users and issues access tokens.
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
}
