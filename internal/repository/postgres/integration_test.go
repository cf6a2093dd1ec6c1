//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/checkmate-app/progression-server/internal/model"
	repo "github.com/checkmate-app/progression-server/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "progression_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/progression_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func newUser(username string) model.User {
	now := time.Now()
	return model.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: "$2a$10$fakefakefakefakefakefakefakefakefakefakefakefakefake",
		CreatedAt:    now,
		UpdatedAt:    now,
		Progression:  model.NewProgression(now),
	}
}

func TestUserRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ur := repo.NewUserRepository(conn)

	u := newUser("alice")
	saved, err := ur.Create(ctx, u)
	require.NoError(t, err)
	require.Equal(t, u.ID, saved.ID)
	require.Equal(t, model.SignupCoins, saved.Progression.CheckCoins)
	require.Equal(t, "default", saved.Progression.Theme)

	byName, err := ur.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, u.ID, byName.ID)

	byID, err := ur.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", byID.Username)
	require.Equal(t, 1, byID.Progression.LoginStreak)

	_, err = ur.GetByID(ctx, uuid.New())
	require.ErrorIs(t, err, model.ErrUserNotFound)

	_, err = ur.GetByUsername(ctx, "nobody")
	require.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestUserRepository_Update(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ur := repo.NewUserRepository(conn)

	u := newUser("bob")
	_, err = ur.Create(ctx, u)
	require.NoError(t, err)

	next, err := ur.Update(ctx, u.ID, func(cur model.Progression) (model.Progression, error) {
		out := cur.Clone()
		out.CheckCoins += 40
		out.Inventory.Add("cozy")
		out.Titles.Add("completionist")
		return out, nil
	})
	require.NoError(t, err)
	require.Equal(t, model.SignupCoins+40, next.CheckCoins)

	stored, err := ur.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, model.SignupCoins+40, stored.Progression.CheckCoins)
	require.True(t, stored.Progression.Inventory.Has("cozy"))
	require.True(t, stored.Progression.Titles.Has("completionist"))

	_, err = ur.Update(ctx, uuid.New(), func(cur model.Progression) (model.Progression, error) {
		return cur, nil
	})
	require.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestUserRepository_Update_RollbackOnError(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ur := repo.NewUserRepository(conn)

	u := newUser("carol")
	_, err = ur.Create(ctx, u)
	require.NoError(t, err)

	_, err = ur.Update(ctx, u.ID, func(cur model.Progression) (model.Progression, error) {
		out := cur.Clone()
		out.CheckCoins = 0
		return out, model.ErrInsufficientFunds
	})
	require.ErrorIs(t, err, model.ErrInsufficientFunds)

	stored, err := ur.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, model.SignupCoins, stored.Progression.CheckCoins)
}

func TestUserRepository_Update_ConcurrentIncrements(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ur := repo.NewUserRepository(conn)

	u := newUser("dave")
	u.Progression.CheckCoins = 0
	_, err = ur.Create(ctx, u)
	require.NoError(t, err)

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ur.Update(ctx, u.ID, func(cur model.Progression) (model.Progression, error) {
				out := cur.Clone()
				out.CheckCoins++
				return out, nil
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	stored, err := ur.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, workers, stored.Progression.CheckCoins)
}

func TestUserRepository_DefensiveDecode(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ur := repo.NewUserRepository(conn)

	u := newUser("erin")
	_, err = ur.Create(ctx, u)
	require.NoError(t, err)

	// Write blobs that predate the current schema shape.
	_, err = conn.Exec(ctx,
		`UPDATE users SET inventory = '{"legacy":true}', ui_state = '{"tab":"lists"}' WHERE id = $1`, u.ID)
	require.NoError(t, err)

	stored, err := ur.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, 0, stored.Progression.Inventory.Len(), "non-array inventory decodes to empty set")
	require.JSONEq(t, `{"tab":"lists"}`, string(stored.Progression.UIState))
}
