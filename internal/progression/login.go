// Package progression implements the pure transition functions of the
// progression engine. Every function takes a snapshot and returns a new
// one; nothing here touches storage or mutates its input.
package progression

import (
	"time"

	"github.com/checkmate-app/progression-server/internal/model"
)

const (
	// DailyLoginReward is the flat coin reward for a daily login that
	// does not extend a streak (first login, or login after a gap).
	DailyLoginReward = 10

	// CoinsPerStreakDay is the coin reward per day of streak growth.
	CoinsPerStreakDay = 10
)

// streakBonuses are one-time rewards granted the first time a streak
// crosses each threshold.
var streakBonuses = []struct {
	Threshold int
	Bonus     int
}{
	{5, 20},
	{10, 50},
	{20, 100},
	{50, 300},
}

// ApplyLogin resolves a login on the given day against the prior snapshot
// and returns the new snapshot together with the coin reward granted.
//
// Same-day repeat logins are idempotent: the streak is unchanged and no
// reward is granted. A one-day gap extends the streak and pays per-day
// coins plus any milestone bonus. A longer gap resets the streak to 1 but
// still pays the flat daily reward. A missing or unparseable last-login
// stamp is treated as the first recorded login; the flat reward is only
// granted when the stored streak is 0, because signup already paid it.
func ApplyLogin(p model.Progression, today time.Time) (model.Progression, int) {
	next := p.Clone()
	day := today.UTC().Format(model.DateLayout)
	reward := 0

	last, ok := parseDay(p.LastLogin)
	if !ok {
		if next.LoginStreak == 0 {
			reward = DailyLoginReward
		}
	} else {
		switch gap := daysBetween(last, today); {
		case gap <= 0:
			// Same day; nothing to credit.
		case gap == 1:
			prev := next.LoginStreak
			next.LoginStreak = prev + 1
			reward = coinsForIncrement(prev, next.LoginStreak)
		default:
			next.LoginStreak = 1
			reward = DailyLoginReward
		}
	}

	if next.LoginStreak < 1 {
		next.LoginStreak = 1
	}
	if next.LoginBest < next.LoginStreak {
		next.LoginBest = next.LoginStreak
	}
	if next.LoginBest < 1 {
		next.LoginBest = 1
	}

	next.CheckCoins += reward
	next.LastLogin = day

	// Day rollover for the daily task counter is a side effect of login,
	// independent of the streak arithmetic.
	if next.TasksDate != day {
		next.TasksToday = 0
		next.TasksDate = day
	}

	return next, reward
}

// coinsForIncrement prices a streak extension from prev to next: per-day
// coins plus every milestone bonus whose threshold was crossed.
func coinsForIncrement(prev, next int) int {
	coins := CoinsPerStreakDay * (next - prev)
	for _, b := range streakBonuses {
		if prev < b.Threshold && b.Threshold <= next {
			coins += b.Bonus
		}
	}
	return coins
}

func parseDay(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// daysBetween counts whole calendar days from a to b, both truncated to
// UTC dates.
func daysBetween(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bu := b.UTC()
	bd := time.Date(bu.Year(), bu.Month(), bu.Day(), 0, 0, 0, 0, time.UTC)
	return int(bd.Sub(a).Hours() / 24)
}
