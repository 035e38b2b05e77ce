// Package pricing computes the price of a configured catalog item.
//
// Default options are already included in the item's base price. Selecting a
// non-default option adds its price; deselecting a default option subtracts it.
// Amounts are never rounded here; round for display only.
package pricing

import (
	"github.com/angelmondragon/ordering-engine/internal/catalog"
	"github.com/shopspring/decimal"
)

// Selections maps a group id to the set of selected option ids.
type Selections map[string]map[string]struct{}

// Has reports whether optionID is selected in groupID.
func (s Selections) Has(groupID, optionID string) bool {
	opts, ok := s[groupID]
	if !ok {
		return false
	}
	_, ok = opts[optionID]
	return ok
}

// Clone returns a deep copy.
func (s Selections) Clone() Selections {
	out := make(Selections, len(s))
	for groupID, opts := range s {
		copied := make(map[string]struct{}, len(opts))
		for optionID := range opts {
			copied[optionID] = struct{}{}
		}
		out[groupID] = copied
	}
	return out
}

// DefaultSelections returns the catalog's pre-selected state for item.
func DefaultSelections(item *catalog.Item) Selections {
	out := make(Selections, len(item.Params))
	for _, group := range item.Params {
		opts := map[string]struct{}{}
		for _, optionID := range group.DefaultOptionIDs() {
			opts[optionID] = struct{}{}
		}
		out[group.ID] = opts
	}
	return out
}

// UnitPrice returns the per-unit price of item under selections.
func UnitPrice(item *catalog.Item, selections Selections) decimal.Decimal {
	price := item.BasePrice
	for _, group := range item.Params {
		for _, opt := range group.Options {
			selected := selections.Has(group.ID, opt.ID)
			switch {
			case selected && !opt.Default:
				price = price.Add(opt.Price)
			case !selected && opt.Default:
				price = price.Sub(opt.Price)
			}
		}
	}
	return price
}

// Price returns the total price of qty units of item under selections.
func Price(item *catalog.Item, selections Selections, qty int) decimal.Decimal {
	return UnitPrice(item, selections).Mul(decimal.NewFromInt(int64(qty)))
}
