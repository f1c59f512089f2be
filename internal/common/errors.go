// Package common defines the sentinel errors shared by every marketplace
// module. Callers should match them with errors.Is; services wrap them with
// context using %w.
package common

import (
	"errors"
	"fmt"
)

var (
	// Lookup errors.
	ErrNotFound = errors.New("not found")

	// Authorization errors.
	ErrNoRole        = errors.New("user has no role for this vendor")
	ErrForbidden     = errors.New("forbidden")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrInvalidToken  = errors.New("invalid token")
	ErrTokenExpired  = errors.New("token expired")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")

	// Catalog and order errors.
	ErrCrossVendorCart   = errors.New("cart contains products from another vendor")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrDuplicateProduct  = errors.New("product with this name already exists for vendor")
	ErrIllegalTransition = errors.New("illegal order status transition")

	// ErrDuplicateRoleConflict means more than one role row exists for a
	// (user, vendor) pair. Upserts make this impossible, so seeing it points at
	// a storage bug.
	ErrDuplicateRoleConflict = errors.New("duplicate role rows for user and vendor")

	// ErrConflict is returned when a write could not be applied because of a
	// concurrent change and retries were exhausted.
	ErrConflict = errors.New("conflict")

	ErrProductInUse = fmt.Errorf("product is referenced by order items: %w", ErrConflict)
)
