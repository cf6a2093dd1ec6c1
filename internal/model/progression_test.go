package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRankForLevel(t *testing.T) {
	tests := []struct {
		level    int
		expected Rank
	}{
		{1, RankTaskTrainee},
		{2, RankTaskTrainee},
		{3, RankDailyDoer},
		{6, RankDailyDoer},
		{7, RankReliableResolver},
		{10, RankReliableResolver},
		{11, RankEliteExecutor},
		{42, RankEliteExecutor},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, RankForLevel(tt.level), "level %d", tt.level)
	}
}

func TestNewProgression(t *testing.T) {
	today := time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC)

	p := NewProgression(today)

	assert.Equal(t, 1, p.LoginStreak)
	assert.Equal(t, 1, p.LoginBest)
	assert.Equal(t, "2024-03-15", p.LastLogin)
	assert.Equal(t, "2024-03-15", p.TasksDate)
	assert.Equal(t, 0, p.XP)
	assert.Equal(t, 1, p.Level)
	assert.Equal(t, RankTaskTrainee, p.Rank)
	assert.Equal(t, SignupCoins, p.CheckCoins)
	assert.Equal(t, "default", p.Theme)
	assert.Equal(t, "front", p.View)
	assert.Equal(t, 0, p.Inventory.Len())
	assert.Equal(t, 0, p.Titles.Len())
}

func TestProgression_Clone_Independent(t *testing.T) {
	p := NewProgression(time.Now())
	p.Inventory.Add("cozy")
	p.UIState = json.RawMessage(`{"tab":"lists"}`)

	c := p.Clone()
	c.Inventory.Add("space")
	c.Titles.Add("collector")
	c.UIState[2] = 'x'

	assert.False(t, p.Inventory.Has("space"))
	assert.False(t, p.Titles.Has("collector"))
	assert.Equal(t, json.RawMessage(`{"tab":"lists"}`), p.UIState)
}

func TestDecodeUIState(t *testing.T) {
	assert.Equal(t, json.RawMessage(`{}`), DecodeUIState(nil))
	assert.Equal(t, json.RawMessage(`{}`), DecodeUIState([]byte(`{broken`)))
	assert.Equal(t, json.RawMessage(`{"a":1}`), DecodeUIState([]byte(`{"a":1}`)))
}
