package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/checkmate-app/progression-server/internal/catalog"
	"github.com/checkmate-app/progression-server/internal/economy"
	"github.com/checkmate-app/progression-server/internal/logger"
	"github.com/checkmate-app/progression-server/internal/model"
	"github.com/checkmate-app/progression-server/internal/progression"
)

// Progression orchestrates progression and economy transitions. Each
// operation is a single atomic read-modify-write against one user's
// snapshot through UserStore.Update; the pure transition runs inside the
// store's per-user critical section.
type Progression struct {
	store  model.UserStore
	logger *logger.Logger
	now    func() time.Time
}

// NewProgression creates a new Progression service.
func NewProgression(store model.UserStore, logger *logger.Logger) *Progression {
	return &Progression{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// ApplyLogin resolves a login event for the user and returns the updated
// snapshot and the coin reward granted.
func (s *Progression) ApplyLogin(ctx context.Context, userID uuid.UUID) (model.Progression, int, error) {
	var reward int
	p, err := s.store.Update(ctx, userID, func(cur model.Progression) (model.Progression, error) {
		next, r := progression.ApplyLogin(cur, s.now())
		reward = r
		return progression.SynchronizeUnlocks(next), nil
	})
	if err != nil {
		return model.Progression{}, 0, fmt.Errorf("failed to apply login: %w", err)
	}

	s.logger.Info("Progression service: login applied",
		"user_id", userID,
		"streak", p.LoginStreak,
		"reward", reward)

	return p, reward, nil
}

// CompleteTasks credits amount task completions for the user. The caller
// fires this only on a false-to-true completion edge.
func (s *Progression) CompleteTasks(ctx context.Context, userID uuid.UUID, amount int) (model.Progression, error) {
	p, err := s.store.Update(ctx, userID, func(cur model.Progression) (model.Progression, error) {
		next := progression.ApplyTaskCompletion(cur, amount, s.now())
		return progression.SynchronizeUnlocks(next), nil
	})
	if err != nil {
		return model.Progression{}, fmt.Errorf("failed to complete tasks: %w", err)
	}

	s.logger.Debug("Progression service: tasks completed",
		"user_id", userID,
		"amount", amount,
		"level", p.Level,
		"xp", p.XP)

	return p, nil
}

// Purchase buys a title or cosmetic item for the user.
func (s *Progression) Purchase(ctx context.Context, userID uuid.UUID, itemKey string, price int) (model.Progression, error) {
	p, err := s.store.Update(ctx, userID, func(cur model.Progression) (model.Progression, error) {
		return economy.Purchase(cur, itemKey, price)
	})
	if err != nil {
		return model.Progression{}, fmt.Errorf("failed to purchase %q: %w", itemKey, err)
	}

	s.logger.Info("Progression service: purchase completed",
		"user_id", userID,
		"item", itemKey,
		"balance", p.CheckCoins)

	return p, nil
}

// EquipTitle sets the user's current title.
func (s *Progression) EquipTitle(ctx context.Context, userID uuid.UUID, titleKey string) (model.Progression, error) {
	p, err := s.store.Update(ctx, userID, func(cur model.Progression) (model.Progression, error) {
		return economy.EquipTitle(cur, titleKey)
	})
	if err != nil {
		return model.Progression{}, fmt.Errorf("failed to equip title %q: %w", titleKey, err)
	}

	return p, nil
}

// IncrementGoals bumps the user's goal counter by amount (clamped at
// zero) and returns the new total. Goal scoring has no unlock coupling.
func (s *Progression) IncrementGoals(ctx context.Context, userID uuid.UUID, amount int) (int, error) {
	p, err := s.store.Update(ctx, userID, func(cur model.Progression) (model.Progression, error) {
		next := cur.Clone()
		if amount > 0 {
			next.Goals += amount
		}
		return next, nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to increment goals: %w", err)
	}

	return p.Goals, nil
}

// SetTheme updates the user's theme and view preferences, validating both
// against the allow-lists, then synchronizes unlocks so the equipped
// theme is mirrored into the inventory.
func (s *Progression) SetTheme(ctx context.Context, userID uuid.UUID, theme, view string) (model.Progression, error) {
	if !catalog.IsAllowedTheme(theme) {
		return model.Progression{}, model.ErrInvalidTheme
	}
	if !catalog.IsAllowedView(view) {
		return model.Progression{}, model.ErrInvalidView
	}

	p, err := s.store.Update(ctx, userID, func(cur model.Progression) (model.Progression, error) {
		next := cur.Clone()
		next.Theme = theme
		next.View = view
		return progression.SynchronizeUnlocks(next), nil
	})
	if err != nil {
		return model.Progression{}, fmt.Errorf("failed to set theme: %w", err)
	}

	return p, nil
}

// SetUIState stores an opaque UI state blob for the user. Malformed
// payloads degrade to an empty object.
func (s *Progression) SetUIState(ctx context.Context, userID uuid.UUID, state []byte) (model.Progression, error) {
	p, err := s.store.Update(ctx, userID, func(cur model.Progression) (model.Progression, error) {
		next := cur.Clone()
		next.UIState = model.DecodeUIState(state)
		return next, nil
	})
	if err != nil {
		return model.Progression{}, fmt.Errorf("failed to set ui state: %w", err)
	}

	return p, nil
}

// GetStats returns the user's current snapshot.
func (s *Progression) GetStats(ctx context.Context, userID uuid.UUID) (model.User, error) {
	user, err := s.store.GetByID(ctx, userID)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}
