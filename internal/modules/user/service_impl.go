package user

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/georgemunganga/marketplace-backend/internal/common"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	maxNameLength     = 100
)

type service struct {
	repo Repository
}

// NewService creates a new user service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) RegisterUser(ctx context.Context, email, password, firstName, lastName string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email", common.ErrValidation)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", common.ErrValidation, minPasswordLength)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hashedPassword),
		FirstName:    firstName,
		LastName:     lastName,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetUserByID(ctx, id)
}

func (s *service) UpdateProfile(ctx context.Context, id uuid.UUID, in ProfileUpdate) (*User, error) {
	current, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	firstName, lastName := current.FirstName, current.LastName
	if in.FirstName != nil {
		firstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		lastName = strings.TrimSpace(*in.LastName)
	}
	if len(firstName) > maxNameLength || len(lastName) > maxNameLength {
		return nil, fmt.Errorf("%w: names are limited to %d characters", common.ErrValidation, maxNameLength)
	}

	return s.repo.UpdateProfile(ctx, id, firstName, lastName)
}
