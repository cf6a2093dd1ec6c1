// Package economy implements the pure purchase and equip transitions of
// the virtual-currency ledger. Validation failures return the prior
// snapshot unchanged together with a sentinel error from the model
// package.
package economy

import (
	"strings"

	"github.com/checkmate-app/progression-server/internal/catalog"
	"github.com/checkmate-app/progression-server/internal/model"
	"github.com/checkmate-app/progression-server/internal/progression"
)

// Purchase applies a purchase of itemKey to the snapshot. Keys prefixed
// with "title:" are title purchases priced by the catalog; everything
// else is a generic cosmetic purchase priced by the caller. Successful
// purchases debit the balance and run the unlock synchronizer.
func Purchase(p model.Progression, itemKey string, price int) (model.Progression, error) {
	if key, ok := strings.CutPrefix(itemKey, catalog.TitlePrefix); ok {
		return purchaseTitle(p, key)
	}
	return purchaseItem(p, itemKey, price)
}

func purchaseTitle(p model.Progression, key string) (model.Progression, error) {
	entry, ok := catalog.TitleByKey(key)
	if !ok || !entry.Purchasable {
		return p, model.ErrInvalidItem
	}
	if p.Titles.Has(key) {
		return p, model.ErrAlreadyOwned
	}
	if entry.Price <= 0 {
		return p, model.ErrInvalidPrice
	}
	if p.CheckCoins < entry.Price {
		return p, model.ErrInsufficientFunds
	}

	next := p.Clone()
	next.CheckCoins -= entry.Price
	next.Titles.Add(key)
	next.Inventory.Add(catalog.TitlePrefix + key)
	return progression.SynchronizeUnlocks(next), nil
}

func purchaseItem(p model.Progression, itemKey string, price int) (model.Progression, error) {
	if price <= 0 {
		return p, model.ErrInvalidPrice
	}
	if p.CheckCoins < price {
		return p, model.ErrInsufficientFunds
	}

	next := p.Clone()
	next.CheckCoins -= price
	next.Inventory.Add(itemKey)
	return progression.SynchronizeUnlocks(next), nil
}

// EquipTitle sets the current title. The snapshot is synchronized first
// so a freshly earned title is equip-eligible in the same call. The empty
// key always succeeds and clears the title.
func EquipTitle(p model.Progression, titleKey string) (model.Progression, error) {
	next := progression.SynchronizeUnlocks(p)
	if titleKey != "" && !next.Titles.Has(titleKey) {
		return p, model.ErrNotOwned
	}
	next.CurrentTitle = titleKey
	return next, nil
}
