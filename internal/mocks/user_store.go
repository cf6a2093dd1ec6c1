// Package mocks provides testify mocks for the store interfaces.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/checkmate-app/progression-server/internal/model"
)

// UserStore is a testify mock for model.UserStore.
type UserStore struct {
	mock.Mock
}

func (m *UserStore) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByUsername(ctx context.Context, username string) (model.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(model.User), args.Error(1)
}

// Update calls fn against the mock's configured snapshot: set it with
// mock.On("Update", ...).Return(snapshot, nil) where snapshot is the
// stored state fn should receive; the mock returns fn's result.
func (m *UserStore) Update(ctx context.Context, id uuid.UUID, fn model.UpdateFunc) (model.Progression, error) {
	args := m.Called(ctx, id, fn)
	if err := args.Error(1); err != nil {
		return model.Progression{}, err
	}
	cur := args.Get(0).(model.Progression)
	return fn(cur.Clone())
}
