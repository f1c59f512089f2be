package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for user data storage.
type Repository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	// UpdateProfile stores the user's names and returns the updated row.
	UpdateProfile(ctx context.Context, id uuid.UUID, firstName, lastName string) (*User, error)
}
