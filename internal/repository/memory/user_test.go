package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/checkmate-app/progression-server/internal/model"
)

func newUser(username string) model.User {
	return model.User{
		ID:          uuid.New(),
		Username:    username,
		Progression: model.NewProgression(time.Now()),
	}
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	user := newUser("alice")
	created, err := repo.Create(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, user.ID, created.ID)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	byName, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)
}

func TestUserRepository_NotFound(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	_, err := repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, model.ErrUserNotFound)

	_, err = repo.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, model.ErrUserNotFound)

	_, err = repo.Update(ctx, uuid.New(), func(p model.Progression) (model.Progression, error) {
		return p, nil
	})
	assert.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestUserRepository_Create_UsernameTaken(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	_, err := repo.Create(ctx, newUser("alice"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newUser("alice"))
	assert.ErrorIs(t, err, model.ErrUsernameTaken)
}

func TestUserRepository_Update(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	user := newUser("alice")
	_, err := repo.Create(ctx, user)
	require.NoError(t, err)

	p, err := repo.Update(ctx, user.ID, func(cur model.Progression) (model.Progression, error) {
		next := cur.Clone()
		next.CheckCoins += 5
		return next, nil
	})
	require.NoError(t, err)
	assert.Equal(t, model.SignupCoins+5, p.CheckCoins)

	stored, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SignupCoins+5, stored.Progression.CheckCoins)
}

func TestUserRepository_Update_ErrorLeavesStateUntouched(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	user := newUser("alice")
	_, err := repo.Create(ctx, user)
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = repo.Update(ctx, user.ID, func(cur model.Progression) (model.Progression, error) {
		next := cur.Clone()
		next.CheckCoins = 0
		return next, boom
	})
	assert.ErrorIs(t, err, boom)

	stored, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SignupCoins, stored.Progression.CheckCoins)
}

func TestUserRepository_Update_ConcurrentIncrements(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	user := newUser("alice")
	user.Progression.CheckCoins = 0
	_, err := repo.Create(ctx, user)
	require.NoError(t, err)

	const workers = 16
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Update(ctx, user.ID, func(cur model.Progression) (model.Progression, error) {
				next := cur.Clone()
				next.CheckCoins++
				return next, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, workers, stored.Progression.CheckCoins)
}

func TestUserRepository_Update_CancelledContext(t *testing.T) {
	repo := NewUserRepository()

	user := newUser("alice")
	_, err := repo.Create(context.Background(), user)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = repo.Update(ctx, user.ID, func(cur model.Progression) (model.Progression, error) {
		return cur, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUserRepository_GetReturnsClone(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	user := newUser("alice")
	_, err := repo.Create(ctx, user)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	got.Progression.Inventory.Add("cozy")

	again, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, again.Progression.Inventory.Has("cozy"))
}
