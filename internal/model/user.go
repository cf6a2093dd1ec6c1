package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UpdateFunc computes the next snapshot from the current one. Returning
// an error aborts the update and leaves the stored state untouched.
type UpdateFunc func(Progression) (Progression, error)

// UserStore defines persistence operations for users. Update is the only
// write path for progression state and must serialize read-modify-write
// cycles per user: two concurrent updates for the same user may not
// interleave. Updates for different users are independent.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	Create(ctx context.Context, user User) (User, error)
	Update(ctx context.Context, id uuid.UUID, fn UpdateFunc) (Progression, error)
}

// User represents a stored user with credentials and progression state.
type User struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Progression  Progression
}
