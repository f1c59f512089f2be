package auth

import "context"

// Service defines the interface for authentication-related business logic.
type Service interface {
	// Login checks credentials and returns a signed access token.
	Login(ctx context.Context, email, password string) (string, error)
}
