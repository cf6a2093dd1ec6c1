package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/checkmate-app/progression-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

// opTimeout bounds every store operation. A store that cannot answer in
// time surfaces model.ErrStoreUnavailable instead of blocking the caller.
const opTimeout = 5 * time.Second

const userColumns = `id, username, password_hash,
	login_streak, login_best, last_login,
	tasks_total, tasks_today, tasks_date,
	xp, level, rank, check_coins,
	theme, view, ui_state, inventory, titles, current_title, goals,
	created_at, updated_at`

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrUserNotFound
		}
		return model.User{}, wrapStoreErr("get user by id", err)
	}

	return user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrUserNotFound
		}
		return model.User{}, wrapStoreErr("get user by username", err)
	}

	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	query := `INSERT INTO users (` + userColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
			  RETURNING ` + userColumns

	p := user.Progression
	inventory, titles := encodeSets(p)
	saved, err := scanUser(r.db.QueryRow(ctx, query,
		user.ID, user.Username, user.PasswordHash,
		p.LoginStreak, p.LoginBest, p.LastLogin,
		p.TasksTotal, p.TasksToday, p.TasksDate,
		p.XP, p.Level, string(p.Rank), p.CheckCoins,
		p.Theme, p.View, model.DecodeUIState(p.UIState), inventory, titles, p.CurrentTitle, p.Goals,
		user.CreatedAt, user.UpdatedAt,
	))
	if err != nil {
		return model.User{}, wrapStoreErr("create user", err)
	}

	return saved, nil
}

// Update runs fn between SELECT ... FOR UPDATE and UPDATE in a single
// transaction. The row lock serializes concurrent read-modify-write
// cycles for the same user; a failing fn rolls the transaction back and
// leaves the stored state untouched.
func (r *UserRepository) Update(ctx context.Context, id uuid.UUID, fn model.UpdateFunc) (model.Progression, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return model.Progression{}, wrapStoreErr("begin update", err)
	}
	defer tx.Rollback(ctx)

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`
	user, err := scanUser(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Progression{}, model.ErrUserNotFound
		}
		return model.Progression{}, wrapStoreErr("lock user row", err)
	}

	next, err := fn(user.Progression)
	if err != nil {
		return model.Progression{}, err
	}

	inventory, titles := encodeSets(next)
	_, err = tx.Exec(ctx, `UPDATE users SET
			login_streak = $2, login_best = $3, last_login = $4,
			tasks_total = $5, tasks_today = $6, tasks_date = $7,
			xp = $8, level = $9, rank = $10, check_coins = $11,
			theme = $12, view = $13, ui_state = $14,
			inventory = $15, titles = $16, current_title = $17, goals = $18,
			updated_at = now()
		WHERE id = $1`,
		id,
		next.LoginStreak, next.LoginBest, next.LastLogin,
		next.TasksTotal, next.TasksToday, next.TasksDate,
		next.XP, next.Level, string(next.Rank), next.CheckCoins,
		next.Theme, next.View, model.DecodeUIState(next.UIState),
		inventory, titles, next.CurrentTitle, next.Goals,
	)
	if err != nil {
		return model.Progression{}, wrapStoreErr("write user row", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Progression{}, wrapStoreErr("commit update", err)
	}

	return next, nil
}

func scanUser(row pgx.Row) (model.User, error) {
	var (
		user      model.User
		rank      string
		uiState   []byte
		inventory []byte
		titles    []byte
	)

	err := row.Scan(
		&user.ID, &user.Username, &user.PasswordHash,
		&user.Progression.LoginStreak, &user.Progression.LoginBest, &user.Progression.LastLogin,
		&user.Progression.TasksTotal, &user.Progression.TasksToday, &user.Progression.TasksDate,
		&user.Progression.XP, &user.Progression.Level, &rank, &user.Progression.CheckCoins,
		&user.Progression.Theme, &user.Progression.View, &uiState,
		&inventory, &titles, &user.Progression.CurrentTitle, &user.Progression.Goals,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return model.User{}, err
	}

	// Stored blobs are decoded defensively: a malformed payload becomes
	// an empty collection, never a read error.
	user.Progression.Rank = model.Rank(rank)
	user.Progression.UIState = model.DecodeUIState(uiState)
	user.Progression.Inventory = model.DecodeStringSet(inventory)
	user.Progression.Titles = model.DecodeStringSet(titles)

	return user, nil
}

func encodeSets(p model.Progression) (inventory, titles []byte) {
	inventory, _ = json.Marshal(p.Inventory)
	titles, _ = json.Marshal(p.Titles)
	return inventory, titles
}

func wrapStoreErr(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("failed to %s: %w: %w", op, model.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
