// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"qbank/internal/domain/entity"

	"github.com/google/uuid"
)

var (
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateEmail is returned when the unique email constraint rejects a write.
	ErrDuplicateEmail = errors.New("email already exists")
)

// UserFilter narrows a user listing.
type UserFilter struct {
	// ExcludeDeleted drops soft-deleted users from the result.
	ExcludeDeleted bool
}

// UserRepository defines the standard operations for user persistence.
// The application layer will depend on this interface, not the concrete implementation.
type UserRepository interface {
	// FindByID retrieves a single user by id, soft-deleted or not.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail retrieves a single user by email, soft-deleted or not.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByIDs retrieves the users matching ids. Unknown ids are skipped.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.User, error)

	// List returns users matching the filter, oldest first.
	List(ctx context.Context, filter UserFilter) ([]*entity.User, error)

	// Create persists a new user. It assigns the id when the entity has none
	// and returns ErrDuplicateEmail when the email is already registered.
	Create(ctx context.Context, user *entity.User) error

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error

	// MarkDeleted sets the soft-delete flag. The record itself is kept.
	MarkDeleted(ctx context.Context, id uuid.UUID) error
}
