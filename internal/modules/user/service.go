package user

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the interface for user-related business logic.
type Service interface {
	RegisterUser(ctx context.Context, email, password, firstName, lastName string) (*User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	// UpdateProfile changes the names of user id. Nil fields keep their
	// current value.
	UpdateProfile(ctx context.Context, id uuid.UUID, in ProfileUpdate) (*User, error)
}

// ProfileUpdate carries the profile fields a user may change on their own
// account.
type ProfileUpdate struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}
