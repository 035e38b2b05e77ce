// Package configuration holds the editable state of one product being configured
// and freezes it into the summary the cart consumes.
package configuration

import (
	"fmt"

	"github.com/angelmondragon/ordering-engine/internal/catalog"
	"github.com/angelmondragon/ordering-engine/internal/events"
	"github.com/angelmondragon/ordering-engine/internal/pricing"
	"github.com/angelmondragon/ordering-engine/internal/quantity"
	"github.com/shopspring/decimal"
)

type State string

const (
	StateEditing State = "editing"
	StateFrozen  State = "frozen"
)

// Changed carries the freshly computed price after a mutation.
type Changed struct {
	ConfigurationID string
	ProductID       string
	Quantity        int
	UnitPrice       decimal.Decimal
	TotalPrice      decimal.Decimal
}

// Configuration is the in-progress edit of one catalog item. Prices are
// recomputed eagerly on every accepted mutation. Once finalized it rejects
// further edits; start a new Configuration instead of reusing it.
type Configuration struct {
	id         string
	item       *catalog.Item
	selections pricing.Selections
	qty        *quantity.Bounded
	unitPrice  decimal.Decimal
	totalPrice decimal.Decimal
	state      State
	changed    events.Feed[Changed]
}

// New starts a configuration of item preselected with the catalog defaults.
func New(id string, item *catalog.Item, initialQty int, bounds quantity.Bounds) (*Configuration, error) {
	if item == nil {
		return nil, fmt.Errorf("%w: nil item", ErrInvalidReference)
	}
	qty, err := quantity.New(initialQty, bounds)
	if err != nil {
		return nil, err
	}
	c := &Configuration{
		id:         id,
		item:       item,
		selections: pricing.DefaultSelections(item),
		qty:        qty,
		state:      StateEditing,
	}
	c.recompute()
	qty.OnChange(func(quantity.Changed) {
		c.recompute()
		c.publish()
	})
	return c, nil
}

func (c *Configuration) ID() string {
	return c.id
}

func (c *Configuration) Item() *catalog.Item {
	return c.item
}

func (c *Configuration) State() State {
	return c.state
}

// SetSelection marks optionID in groupID as selected or not. Unknown references
// fail with ErrInvalidReference; a finalized configuration fails with ErrFrozen.
func (c *Configuration) SetSelection(groupID, optionID string, selected bool) error {
	if c.state == StateFrozen {
		return ErrFrozen
	}
	group, ok := c.item.Group(groupID)
	if !ok {
		return &ReferenceError{ProductID: c.item.ID, GroupID: groupID}
	}
	if _, ok := group.Option(optionID); !ok {
		return &ReferenceError{ProductID: c.item.ID, GroupID: groupID, OptionID: optionID}
	}
	if c.selections.Has(groupID, optionID) == selected {
		return nil
	}

	opts, ok := c.selections[groupID]
	if !ok {
		opts = map[string]struct{}{}
		c.selections[groupID] = opts
	}
	if selected {
		opts[optionID] = struct{}{}
	} else {
		delete(opts, optionID)
	}

	c.recompute()
	c.publish()
	return nil
}

// SetQuantity forwards n to the bounded quantity. It reports whether the value
// changed; rejected or frozen updates are ignored.
func (c *Configuration) SetQuantity(n int) bool {
	if c.state == StateFrozen {
		return false
	}
	return c.qty.SetValue(n)
}

// SetQuantityInput is SetQuantity for raw user text.
func (c *Configuration) SetQuantityInput(raw string) bool {
	if c.state == StateFrozen {
		return false
	}
	return c.qty.SetFromInput(raw)
}

func (c *Configuration) Increment() bool {
	return c.SetQuantity(c.qty.Value() + 1)
}

func (c *Configuration) Decrement() bool {
	return c.SetQuantity(c.qty.Value() - 1)
}

func (c *Configuration) Quantity() int {
	return c.qty.Value()
}

func (c *Configuration) QuantityBounds() quantity.Bounds {
	return c.qty.Bounds()
}

func (c *Configuration) UnitPrice() decimal.Decimal {
	return c.unitPrice
}

// CurrentPrice returns the total computed by the last mutation.
func (c *Configuration) CurrentPrice() decimal.Decimal {
	return c.totalPrice
}

// Selections returns a copy of the current selection set.
func (c *Configuration) Selections() pricing.Selections {
	return c.selections.Clone()
}

// SelectedOptions lists, for every group of the item in catalog order, the ids
// of the selected options in catalog order.
func (c *Configuration) SelectedOptions() []GroupSelection {
	out := make([]GroupSelection, 0, len(c.item.Params))
	for _, group := range c.item.Params {
		ids := []string{}
		for _, opt := range group.Options {
			if c.selections.Has(group.ID, opt.ID) {
				ids = append(ids, opt.ID)
			}
		}
		out = append(out, GroupSelection{GroupID: group.ID, OptionIDs: ids})
	}
	return out
}

// GroupSelection is the selected option set of one group.
type GroupSelection struct {
	GroupID   string
	OptionIDs []string
}

// OnChange subscribes fn to price changes.
func (c *Configuration) OnChange(fn func(Changed)) (unsubscribe func()) {
	return c.changed.Subscribe(fn)
}

// Finalize checks required groups and freezes the configuration, returning a
// summary that shares no state with it.
func (c *Configuration) Finalize() (Summary, error) {
	if c.state == StateFrozen {
		return Summary{}, ErrFrozen
	}

	var missing []string
	for _, group := range c.item.Params {
		if group.Required && len(c.selections[group.ID]) == 0 {
			missing = append(missing, group.ID)
		}
	}
	if len(missing) > 0 {
		return Summary{}, &IncompleteError{ProductID: c.item.ID, MissingGroups: missing}
	}

	summary := Summary{
		ProductID: c.item.ID,
		Name:      c.item.Name,
		Quantity:  c.qty.Value(),
		UnitPrice: c.unitPrice,
		BasePrice: c.item.BasePrice,
		LineTotal: c.totalPrice,
		Params:    make([]ParamSummary, 0, len(c.item.Params)),
	}
	for _, group := range c.item.Params {
		param := ParamSummary{GroupID: group.ID, Label: group.Label, Options: []OptionLabel{}}
		for _, opt := range group.Options {
			if c.selections.Has(group.ID, opt.ID) {
				param.Options = append(param.Options, OptionLabel{ID: opt.ID, Label: opt.Label})
			}
		}
		summary.Params = append(summary.Params, param)
	}

	c.state = StateFrozen
	return summary, nil
}

func (c *Configuration) recompute() {
	c.unitPrice = pricing.UnitPrice(c.item, c.selections)
	c.totalPrice = c.unitPrice.Mul(decimal.NewFromInt(int64(c.qty.Value())))
}

func (c *Configuration) publish() {
	c.changed.Publish(Changed{
		ConfigurationID: c.id,
		ProductID:       c.item.ID,
		Quantity:        c.qty.Value(),
		UnitPrice:       c.unitPrice,
		TotalPrice:      c.totalPrice,
	})
}
