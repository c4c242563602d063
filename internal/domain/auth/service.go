package auth

import "context"

type Service interface {
	// Login verifies back-office credentials and issues an access token.
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
}
