package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/georgemunganga/marketplace-backend/internal/common"
	"github.com/georgemunganga/marketplace-backend/internal/modules/user"
	"golang.org/x/crypto/bcrypt"
)

type service struct {
	userRepo user.Repository
	secret   []byte
	ttl      time.Duration
}

// NewService creates a new auth service.
func NewService(userRepo user.Repository, secret []byte, ttl time.Duration) Service {
	return &service{userRepo: userRepo, secret: secret, ttl: ttl}
}

func (s *service) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.userRepo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrUnauthorized
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", common.ErrUnauthorized
	}

	return GenerateToken(u.ID, s.secret, s.ttl)
}
