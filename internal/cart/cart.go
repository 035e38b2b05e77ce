// Package cart aggregates finalized configurations into an order.
package cart

import (
	"github.com/angelmondragon/ordering-engine/internal/configuration"
	"github.com/angelmondragon/ordering-engine/internal/events"
	"github.com/angelmondragon/ordering-engine/internal/quantity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Totals are the aggregates derived from the lines.
type Totals struct {
	ItemCount   int
	Subtotal    decimal.Decimal
	DeliveryFee decimal.Decimal
	Total       decimal.Decimal
}

type (
	LineAdded     struct{ Line Line }
	LineRemoved   struct{ Line Line }
	LineUpdated   struct{ Line Line }
	TotalsChanged struct{ Totals Totals }
)

// Option customizes a Cart.
type Option func(*Cart)

// WithIDGenerator overrides how line ids are minted.
func WithIDGenerator(fn func() string) Option {
	return func(c *Cart) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// Cart is an ordered list of lines with running totals. It is not safe for
// concurrent use.
type Cart struct {
	deliveryFee decimal.Decimal
	bounds      quantity.Bounds
	newID       func() string

	lines  []*line
	totals Totals

	added         events.Feed[LineAdded]
	removed       events.Feed[LineRemoved]
	updated       events.Feed[LineUpdated]
	totalsChanged events.Feed[TotalsChanged]
}

// New returns an empty cart charging deliveryFee on non-empty orders. Line
// quantities are kept within bounds.
func New(deliveryFee decimal.Decimal, bounds quantity.Bounds, opts ...Option) *Cart {
	c := &Cart{
		deliveryFee: deliveryFee,
		bounds:      bounds,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.totals = c.compute()
	return c
}

// Add appends summary as a new line and recomputes the totals. It fails when
// the summary quantity is outside the line bounds.
func (c *Cart) Add(summary configuration.Summary) (Line, error) {
	l, err := newLine(c.newID(), summary, c.bounds)
	if err != nil {
		return Line{}, err
	}
	l.qty.OnChange(func(quantity.Changed) {
		l.rederive()
		c.updated.Publish(LineUpdated{Line: l.view()})
		c.RecomputeTotals()
	})
	c.lines = append(c.lines, l)

	view := l.view()
	c.added.Publish(LineAdded{Line: view})
	c.RecomputeTotals()
	return view, nil
}

// Remove drops the line with lineID. Unknown ids are ignored.
func (c *Cart) Remove(lineID string) (Line, bool) {
	idx := c.indexOf(lineID)
	if idx < 0 {
		return Line{}, false
	}
	view := c.lines[idx].view()
	c.lines = append(c.lines[:idx:idx], c.lines[idx+1:]...)

	c.removed.Publish(LineRemoved{Line: view})
	c.RecomputeTotals()
	return view, true
}

// UpdateLineQuantity forwards n to the line's quantity and reports whether it
// changed. Unknown ids and rejected values are ignored.
func (c *Cart) UpdateLineQuantity(lineID string, n int) bool {
	l := c.find(lineID)
	if l == nil {
		return false
	}
	return l.qty.SetValue(n)
}

// UpdateLineQuantityInput is UpdateLineQuantity for raw user text.
func (c *Cart) UpdateLineQuantityInput(lineID, raw string) bool {
	l := c.find(lineID)
	if l == nil {
		return false
	}
	return l.qty.SetFromInput(raw)
}

// RecomputeTotals rescans every line, stores and publishes the result.
func (c *Cart) RecomputeTotals() Totals {
	c.totals = c.compute()
	c.totalsChanged.Publish(TotalsChanged{Totals: c.totals})
	return c.totals
}

func (c *Cart) Totals() Totals {
	return c.totals
}

func (c *Cart) DeliveryFee() decimal.Decimal {
	return c.deliveryFee
}

// LineBounds returns the quantity bounds every line is kept within.
func (c *Cart) LineBounds() quantity.Bounds {
	return c.bounds
}

func (c *Cart) Len() int {
	return len(c.lines)
}

// Line returns the line with lineID.
func (c *Cart) Line(lineID string) (Line, bool) {
	l := c.find(lineID)
	if l == nil {
		return Line{}, false
	}
	return l.view(), true
}

// Lines returns the lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, 0, len(c.lines))
	for _, l := range c.lines {
		out = append(out, l.view())
	}
	return out
}

func (c *Cart) OnLineAdded(fn func(LineAdded)) (unsubscribe func()) {
	return c.added.Subscribe(fn)
}

func (c *Cart) OnLineRemoved(fn func(LineRemoved)) (unsubscribe func()) {
	return c.removed.Subscribe(fn)
}

func (c *Cart) OnLineUpdated(fn func(LineUpdated)) (unsubscribe func()) {
	return c.updated.Subscribe(fn)
}

func (c *Cart) OnTotalsChanged(fn func(TotalsChanged)) (unsubscribe func()) {
	return c.totalsChanged.Subscribe(fn)
}

func (c *Cart) compute() Totals {
	totals := Totals{Subtotal: decimal.Zero, DeliveryFee: c.deliveryFee, Total: decimal.Zero}
	for _, l := range c.lines {
		totals.ItemCount += l.qty.Value()
		totals.Subtotal = totals.Subtotal.Add(l.lineTotal)
	}
	if totals.ItemCount > 0 {
		totals.Total = totals.Subtotal.Add(c.deliveryFee)
	}
	return totals
}

func (c *Cart) find(lineID string) *line {
	if idx := c.indexOf(lineID); idx >= 0 {
		return c.lines[idx]
	}
	return nil
}

func (c *Cart) indexOf(lineID string) int {
	for i, l := range c.lines {
		if l.id == lineID {
			return i
		}
	}
	return -1
}
