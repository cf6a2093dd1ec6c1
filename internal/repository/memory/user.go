// Package memory implements model.UserStore in process memory. It is the
// backend for tests and single-node development runs. Per-user write
// serialization is a mutex held for the whole read-modify-write cycle.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/checkmate-app/progression-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

type userEntry struct {
	mu   sync.Mutex
	user model.User
}

// UserRepository is an in-memory user store.
type UserRepository struct {
	mu         sync.RWMutex
	users      map[uuid.UUID]*userEntry
	byUsername map[string]uuid.UUID
}

// NewUserRepository creates an empty in-memory user store.
func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:      make(map[uuid.UUID]*userEntry),
		byUsername: make(map[string]uuid.UUID),
	}
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	r.mu.RLock()
	entry, ok := r.users[id]
	r.mu.RUnlock()
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return cloneUser(entry.user), nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (model.User, error) {
	r.mu.RLock()
	id, ok := r.byUsername[username]
	r.mu.RUnlock()
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUsername[user.Username]; ok {
		return model.User{}, model.ErrUsernameTaken
	}
	if _, ok := r.users[user.ID]; ok {
		return model.User{}, model.ErrUsernameTaken
	}

	stored := cloneUser(user)
	r.users[user.ID] = &userEntry{user: stored}
	r.byUsername[user.Username] = user.ID

	return cloneUser(stored), nil
}

// Update runs fn under the user's lock so concurrent updates for the same
// user never interleave. The stored state is replaced only when fn
// succeeds.
func (r *UserRepository) Update(ctx context.Context, id uuid.UUID, fn model.UpdateFunc) (model.Progression, error) {
	r.mu.RLock()
	entry, ok := r.users[id]
	r.mu.RUnlock()
	if !ok {
		return model.Progression{}, model.ErrUserNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return model.Progression{}, err
	}

	next, err := fn(entry.user.Progression.Clone())
	if err != nil {
		return model.Progression{}, err
	}

	entry.user.Progression = next.Clone()
	return next, nil
}

func cloneUser(u model.User) model.User {
	c := u
	c.Progression = u.Progression.Clone()
	return c
}
