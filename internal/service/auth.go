package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/checkmate-app/progression-server/internal/logger"
	"github.com/checkmate-app/progression-server/internal/model"
)

// Auth handles signup and login. Session management is the caller's
// concern; this service only creates accounts, compares password hashes
// and fires the login transition.
type Auth struct {
	store       model.UserStore
	progression *Progression
	logger      *logger.Logger
	now         func() time.Time
}

// NewAuth creates a new Auth service.
func NewAuth(store model.UserStore, progression *Progression, logger *logger.Logger) *Auth {
	return &Auth{
		store:       store,
		progression: progression,
		logger:      logger,
		now:         time.Now,
	}
}

// Register creates a user with the fixed signup-time progression
// defaults.
func (a *Auth) Register(ctx context.Context, username, password string) (model.User, error) {
	a.logger.Debug("Auth service: starting user registration",
		"username", username)

	_, err := a.store.GetByUsername(ctx, username)
	if err == nil {
		a.logger.Info("Auth service: username already taken",
			"username", username)
		return model.User{}, model.ErrUsernameTaken
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return model.User{}, fmt.Errorf("failed to get user by username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := a.now()
	user := model.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
		Progression:  model.NewProgression(now),
	}

	created, err := a.store.Create(ctx, user)
	if err != nil {
		a.logger.Error("Auth service: failed to create user",
			"username", username,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	a.logger.Info("Auth service: user registered",
		"username", username,
		"user_id", created.ID)

	return created, nil
}

// Login verifies the password and applies the daily login transition.
// It returns the user with the updated snapshot and the coin reward
// granted for the login.
func (a *Auth) Login(ctx context.Context, username, password string) (model.User, int, error) {
	user, err := a.store.GetByUsername(ctx, username)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.User{}, 0, model.ErrInvalidCredentials
	}
	if err != nil {
		return model.User{}, 0, fmt.Errorf("failed to get user by username: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		a.logger.Info("Auth service: password mismatch",
			"username", username)
		return model.User{}, 0, model.ErrInvalidCredentials
	}

	p, reward, err := a.progression.ApplyLogin(ctx, user.ID)
	if err != nil {
		return model.User{}, 0, err
	}
	user.Progression = p

	return user, reward, nil
}
