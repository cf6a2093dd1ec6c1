package model

import (
	"encoding/json"
	"time"
)

// DateLayout is the wire format for progression date stamps.
const DateLayout = "2006-01-02"

// Rank is a label derived from the user's level.
type Rank string

const (
	RankTaskTrainee      Rank = "Task Trainee"
	RankDailyDoer        Rank = "Daily Doer"
	RankReliableResolver Rank = "Reliable Resolver"
	RankEliteExecutor    Rank = "Elite Executor"
)

// RankForLevel maps a level to its rank label.
func RankForLevel(level int) Rank {
	switch {
	case level <= 2:
		return RankTaskTrainee
	case level <= 6:
		return RankDailyDoer
	case level <= 10:
		return RankReliableResolver
	default:
		return RankEliteExecutor
	}
}

// Progression is one user's full progression state at a point in time.
// It is treated as an immutable snapshot: transition functions clone it
// and return a new value, they never mutate their input.
type Progression struct {
	LoginStreak  int
	LoginBest    int
	LastLogin    string // DateLayout, empty until a login is recorded
	TasksTotal   int
	TasksToday   int
	TasksDate    string // DateLayout, empty until a task is completed
	XP           int    // 0..99
	Level        int    // >= 1
	Rank         Rank
	CheckCoins   int
	Theme        string
	View         string
	UIState      json.RawMessage
	Inventory    StringSet
	Titles       StringSet
	CurrentTitle string
	Goals        int
}

// SignupCoins is the coin balance granted once at account creation.
const SignupCoins = 10

// NewProgression returns the fixed signup-time snapshot. Signup counts as
// the user's first login of the day.
func NewProgression(today time.Time) Progression {
	day := today.UTC().Format(DateLayout)
	return Progression{
		LoginStreak: 1,
		LoginBest:   1,
		LastLogin:   day,
		TasksDate:   day,
		XP:          0,
		Level:       1,
		Rank:        RankTaskTrainee,
		CheckCoins:  SignupCoins,
		Theme:       "default",
		View:        "front",
		UIState:     json.RawMessage(`{}`),
		Inventory:   NewStringSet(),
		Titles:      NewStringSet(),
	}
}

// Clone returns a deep copy of the snapshot. Sets and the UI state blob
// are copied so mutations of the clone never leak into the original.
func (p Progression) Clone() Progression {
	c := p
	c.Inventory = p.Inventory.Clone()
	c.Titles = p.Titles.Clone()
	if p.UIState != nil {
		c.UIState = make(json.RawMessage, len(p.UIState))
		copy(c.UIState, p.UIState)
	}
	return c
}

// DecodeUIState decodes a stored UI state payload, degrading malformed
// input to an empty object.
func DecodeUIState(data []byte) json.RawMessage {
	if len(data) == 0 || !json.Valid(data) {
		return json.RawMessage(`{}`)
	}
	out := make(json.RawMessage, len(data))
	copy(out, data)
	return out
}
