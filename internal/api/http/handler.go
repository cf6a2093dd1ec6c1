// Package httpapi is the thin HTTP glue over the progression engine.
// Handlers decode JSON, call one service method and encode the result;
// all rules live in the engine and services.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/checkmate-app/progression-server/internal/logger"
	"github.com/checkmate-app/progression-server/internal/model"
)

// ProgressionService defines the engine operations the API exposes.
type ProgressionService interface {
	CompleteTasks(ctx context.Context, userID uuid.UUID, amount int) (model.Progression, error)
	Purchase(ctx context.Context, userID uuid.UUID, itemKey string, price int) (model.Progression, error)
	EquipTitle(ctx context.Context, userID uuid.UUID, titleKey string) (model.Progression, error)
	IncrementGoals(ctx context.Context, userID uuid.UUID, amount int) (int, error)
	SetTheme(ctx context.Context, userID uuid.UUID, theme, view string) (model.Progression, error)
	SetUIState(ctx context.Context, userID uuid.UUID, state []byte) (model.Progression, error)
	GetStats(ctx context.Context, userID uuid.UUID) (model.User, error)
}

// AuthService defines signup and login operations.
type AuthService interface {
	Register(ctx context.Context, username, password string) (model.User, error)
	Login(ctx context.Context, username, password string) (model.User, int, error)
}

// Handler exposes the progression and auth services over HTTP.
type Handler struct {
	auth        AuthService
	progression ProgressionService
	logger      *logger.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(auth AuthService, progression ProgressionService, logger *logger.Logger) *Handler {
	return &Handler{
		auth:        auth,
		progression: progression,
		logger:      logger,
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type progressionResponse struct {
	UserID       string          `json:"user_id,omitempty"`
	Username     string          `json:"username,omitempty"`
	LoginStreak  int             `json:"login_streak"`
	LoginBest    int             `json:"login_best"`
	TasksTotal   int             `json:"tasks_checked_off"`
	TasksToday   int             `json:"tasks_checked_off_today"`
	XP           int             `json:"xp"`
	Level        int             `json:"level"`
	Rank         string          `json:"rank"`
	CheckCoins   int             `json:"check_coins"`
	Theme        string          `json:"theme"`
	View         string          `json:"view"`
	UIState      json.RawMessage `json:"ui_state"`
	Inventory    []string        `json:"inventory"`
	Titles       []string        `json:"titles"`
	CurrentTitle string          `json:"current_title"`
	Goals        int             `json:"goals"`
	Reward       int             `json:"reward,omitempty"`
}

func toResponse(p model.Progression) progressionResponse {
	return progressionResponse{
		LoginStreak:  p.LoginStreak,
		LoginBest:    p.LoginBest,
		TasksTotal:   p.TasksTotal,
		TasksToday:   p.TasksToday,
		XP:           p.XP,
		Level:        p.Level,
		Rank:         string(p.Rank),
		CheckCoins:   p.CheckCoins,
		Theme:        p.Theme,
		View:         p.View,
		UIState:      p.UIState,
		Inventory:    p.Inventory.Sorted(),
		Titles:       p.Titles.Sorted(),
		CurrentTitle: p.CurrentTitle,
		Goals:        p.Goals,
	}
}

// Signup creates a new account.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "username and password are required"})
		return
	}

	user, err := h.auth.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		h.logger.Error("HTTP: signup failed", "username", req.Username, "error", err.Error())
		writeError(w, err)
		return
	}

	resp := toResponse(user.Progression)
	resp.UserID = user.ID.String()
	resp.Username = user.Username
	writeJSON(w, http.StatusCreated, resp)
}

// Login verifies credentials and applies the daily login transition.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "username and password are required"})
		return
	}

	user, reward, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := toResponse(user.Progression)
	resp.UserID = user.ID.String()
	resp.Username = user.Username
	resp.Reward = reward
	writeJSON(w, http.StatusOK, resp)
}

// CompleteTasks credits task completions.
func (h *Handler) CompleteTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req struct {
		Amount int `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		req.Amount = 1
	}
	if req.Amount == 0 {
		req.Amount = 1
	}

	p, err := h.progression.CompleteTasks(r.Context(), userID, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(p))
}

// Purchase buys a title or cosmetic item.
func (h *Handler) Purchase(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req struct {
		ItemKey string `json:"item_key"`
		Price   int    `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ItemKey == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "item_key is required"})
		return
	}

	p, err := h.progression.Purchase(r.Context(), userID, req.ItemKey, req.Price)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(p))
}

// EquipTitle sets the current title.
func (h *Handler) EquipTitle(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req struct {
		TitleKey string `json:"title_key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	p, err := h.progression.EquipTitle(r.Context(), userID, req.TitleKey)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(p))
}

// IncrementGoals bumps the goal counter.
func (h *Handler) IncrementGoals(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req struct {
		Amount int `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		req.Amount = 1
	}
	if req.Amount == 0 {
		req.Amount = 1
	}

	total, err := h.progression.IncrementGoals(r.Context(), userID, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"goals": total})
}

// UpdateSettings changes theme, view and the opaque UI state.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req struct {
		Theme   string          `json:"theme"`
		View    string          `json:"view"`
		UIState json.RawMessage `json:"ui_state"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	p, err := h.progression.SetTheme(r.Context(), userID, req.Theme, req.View)
	if err != nil {
		writeError(w, err)
		return
	}
	if len(req.UIState) > 0 {
		p, err = h.progression.SetUIState(r.Context(), userID, req.UIState)
		if err != nil {
			writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, toResponse(p))
}

// GetStats returns the user's current progression snapshot.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	user, err := h.progression.GetStats(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := toResponse(user.Progression)
	resp.UserID = user.ID.String()
	resp.Username = user.Username
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user id"})
		return uuid.Nil, false
	}
	return id, true
}
