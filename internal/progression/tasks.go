package progression

import (
	"time"

	"github.com/checkmate-app/progression-server/internal/model"
)

const (
	// XPPerTask is the experience granted per completed task.
	XPPerTask = 10

	// XPPerLevel is the experience required to advance one level.
	XPPerLevel = 100
)

// ApplyTaskCompletion credits amount task completions on the given day.
// The caller only fires this on a false-to-true completion edge;
// re-completing an already-completed task is rejected upstream. Negative
// amounts are clamped to zero so counters stay monotonic.
func ApplyTaskCompletion(p model.Progression, amount int, today time.Time) model.Progression {
	next := p.Clone()
	if amount < 0 {
		amount = 0
	}

	day := today.UTC().Format(model.DateLayout)
	if next.TasksDate != day {
		next.TasksToday = 0
	}
	next.TasksDate = day
	next.TasksToday += amount
	next.TasksTotal += amount

	total := next.XP + amount*XPPerTask
	next.Level += total / XPPerLevel
	next.XP = total % XPPerLevel
	next.Rank = model.RankForLevel(next.Level)

	return next
}
