package progression

import (
	"github.com/checkmate-app/progression-server/internal/catalog"
	"github.com/checkmate-app/progression-server/internal/model"
)

// SynchronizeUnlocks reconciles the snapshot against the catalog and
// grants everything currently eligible: titles whose level or
// inventory-size bound is met, the equipped non-default theme, and every
// theme whose unlock level is reached. The pass is idempotent and safe to
// invoke redundantly; running it on an already-synchronized snapshot
// returns an equal snapshot.
func SynchronizeUnlocks(p model.Progression) model.Progression {
	next := p.Clone()

	if next.Theme != "" && next.Theme != catalog.DefaultTheme {
		next.Inventory.Add(next.Theme)
	}
	for _, theme := range catalog.Themes() {
		if theme.UnlockLevel > 0 && next.Level >= theme.UnlockLevel {
			next.Inventory.Add(theme.Key)
		}
	}

	// Granted titles grow the inventory, which can make further
	// inventory-size bounds eligible, so scan until a full pass grants
	// nothing. This keeps the result independent of catalog order.
	for granted := true; granted; {
		granted = false
		for _, title := range catalog.Titles() {
			if next.Titles.Has(title.Key) {
				continue
			}
			if !titleEligible(title, next) {
				continue
			}
			next.Titles.Add(title.Key)
			next.Inventory.Add(catalog.TitlePrefix + title.Key)
			granted = true
		}
	}

	return next
}

func titleEligible(e catalog.Entry, p model.Progression) bool {
	if e.UnlockLevel > 0 && p.Level >= e.UnlockLevel {
		return true
	}
	if e.UnlockInventorySize > 0 && p.Inventory.Len() >= e.UnlockInventorySize {
		return true
	}
	return false
}
