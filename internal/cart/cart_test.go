package cart

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/angelmondragon/ordering-engine/internal/configuration"
	"github.com/angelmondragon/ordering-engine/internal/quantity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lineBounds = quantity.Bounds{Min: 1, Max: 9}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("line-%d", n)
	}
}

func newCart(opts ...Option) *Cart {
	opts = append([]Option{WithIDGenerator(sequentialIDs())}, opts...)
	return New(d("20"), lineBounds, opts...)
}

func summary(productID string, qty int, unit string) configuration.Summary {
	unitPrice := d(unit)
	return configuration.Summary{
		ProductID: productID,
		Name:      productID,
		Quantity:  qty,
		UnitPrice: unitPrice,
		BasePrice: d("30"),
		LineTotal: unitPrice.Mul(decimal.NewFromInt(int64(qty))),
		Params: []configuration.ParamSummary{{
			GroupID: "size",
			Label:   "Size",
			Options: []configuration.OptionLabel{{ID: "large", Label: "Large"}},
		}},
	}
}

func assertTotalsConsistent(t *testing.T, c *Cart) {
	t.Helper()
	count := 0
	subtotal := decimal.Zero
	for _, l := range c.Lines() {
		count += l.Quantity
		subtotal = subtotal.Add(l.LineTotal)
		assert.True(t, l.LineTotal.Equal(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))))
	}
	totals := c.Totals()
	assert.Equal(t, count, totals.ItemCount)
	assert.True(t, totals.Subtotal.Equal(subtotal))
	if count > 0 {
		assert.True(t, totals.Total.Equal(subtotal.Add(d("20"))))
	} else {
		assert.True(t, totals.Total.IsZero())
	}
}

func TestEmptyCart(t *testing.T) {
	c := newCart()
	totals := c.Totals()

	assert.Equal(t, 0, totals.ItemCount)
	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.Total.IsZero())
	assert.True(t, totals.DeliveryFee.Equal(d("20")))
	assert.Empty(t, c.Lines())
}

func TestScenarioAddSizedPizza(t *testing.T) {
	c := newCart()

	line, err := c.Add(summary("pizza", 2, "35"))
	require.NoError(t, err)

	assert.Equal(t, "line-1", line.ID)
	assert.True(t, line.LineTotal.Equal(d("70")))
	totals := c.Totals()
	assert.Equal(t, 2, totals.ItemCount)
	assert.True(t, totals.Subtotal.Equal(d("70")))
	assert.True(t, totals.Total.Equal(d("90")))
}

func TestScenarioRemoveOnlyLine(t *testing.T) {
	c := newCart()
	s := summary("pizza", 3, "23.333333")
	s.LineTotal = d("70")
	line, err := c.Add(s)
	require.NoError(t, err)

	removed, ok := c.Remove(line.ID)
	require.True(t, ok)
	assert.Equal(t, line.ID, removed.ID)

	totals := c.Totals()
	assert.Equal(t, 0, totals.ItemCount)
	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.Total.IsZero())
}

func TestAddRejectsOutOfBoundsQuantity(t *testing.T) {
	c := newCart()
	_, err := c.Add(summary("pizza", 12, "10"))
	require.ErrorIs(t, err, quantity.ErrOutOfRange)
	assert.Equal(t, 0, c.Len())
}

func TestLinesKeepInsertionOrderAndIndependence(t *testing.T) {
	c := newCart()
	s := summary("pizza", 1, "35")
	first, err := c.Add(s)
	require.NoError(t, err)
	second, err := c.Add(s)
	require.NoError(t, err)
	_, err = c.Add(summary("salad", 2, "9"))
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	require.True(t, c.UpdateLineQuantity(second.ID, 4))

	lines := c.Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"pizza", "pizza", "salad"}, []string{lines[0].ProductID, lines[1].ProductID, lines[2].ProductID})
	assert.Equal(t, 1, lines[0].Quantity)
	assert.Equal(t, 4, lines[1].Quantity)
	assert.True(t, lines[1].LineTotal.Equal(d("140")))
	assertTotalsConsistent(t, c)
}

func TestRemoveUnknownIsNoop(t *testing.T) {
	c := newCart()
	line, err := c.Add(summary("pizza", 2, "35"))
	require.NoError(t, err)

	var totalsEvents int
	c.OnTotalsChanged(func(TotalsChanged) { totalsEvents++ })

	_, ok := c.Remove("nope")
	assert.False(t, ok)
	_, ok = c.Remove(line.ID)
	assert.True(t, ok)
	_, ok = c.Remove(line.ID)
	assert.False(t, ok)

	assert.Equal(t, 1, totalsEvents)
	assert.Equal(t, 0, c.Len())
}

func TestUpdateLineQuantity(t *testing.T) {
	c := newCart()
	line, err := c.Add(summary("pizza", 2, "35"))
	require.NoError(t, err)

	var updated []LineUpdated
	c.OnLineUpdated(func(ev LineUpdated) { updated = append(updated, ev) })

	assert.False(t, c.UpdateLineQuantity(line.ID, 15))
	assert.False(t, c.UpdateLineQuantity(line.ID, 2))
	assert.False(t, c.UpdateLineQuantity("nope", 3))
	assert.False(t, c.UpdateLineQuantityInput(line.ID, "x"))
	assert.True(t, c.UpdateLineQuantityInput(line.ID, "3"))

	require.Len(t, updated, 1)
	assert.Equal(t, 3, updated[0].Line.Quantity)
	assert.True(t, updated[0].Line.LineTotal.Equal(d("105")))

	got, ok := c.Line(line.ID)
	require.True(t, ok)
	assert.True(t, got.LineTotal.Equal(d("105")))
	assert.True(t, c.Totals().Total.Equal(d("125")))
}

func TestEventsCarryNewState(t *testing.T) {
	c := newCart()
	var log []string
	var lastTotals Totals
	c.OnLineAdded(func(ev LineAdded) { log = append(log, "added:"+ev.Line.ID) })
	c.OnLineRemoved(func(ev LineRemoved) { log = append(log, "removed:"+ev.Line.ID) })
	c.OnTotalsChanged(func(ev TotalsChanged) {
		log = append(log, "totals")
		lastTotals = ev.Totals
		assert.Equal(t, ev.Totals, c.Totals())
	})

	line, err := c.Add(summary("pizza", 2, "35"))
	require.NoError(t, err)
	assert.True(t, lastTotals.Total.Equal(d("90")))
	c.Remove(line.ID)

	assert.Equal(t, []string{"added:line-1", "totals", "removed:line-1", "totals"}, log)
	assert.True(t, lastTotals.Total.IsZero())
}

func TestRecomputeTotalsIsIdempotent(t *testing.T) {
	c := newCart()
	_, err := c.Add(summary("pizza", 2, "35.10"))
	require.NoError(t, err)

	first := c.RecomputeTotals()
	second := c.RecomputeTotals()
	assert.Equal(t, first, second)
}

func TestTotalsStayConsistentUnderRandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	c := newCart()
	units := []string{"35", "12.5", "0.1", "9.99"}

	for step := 0; step < 300; step++ {
		lines := c.Lines()
		switch op := rng.Intn(3); {
		case op == 0 || len(lines) == 0:
			_, err := c.Add(summary("p", 1+rng.Intn(9), units[rng.Intn(len(units))]))
			require.NoError(t, err)
		case op == 1:
			c.Remove(lines[rng.Intn(len(lines))].ID)
		default:
			c.UpdateLineQuantity(lines[rng.Intn(len(lines))].ID, rng.Intn(12))
		}
		assertTotalsConsistent(t, c)
	}
}

func TestLineViewsAreCopies(t *testing.T) {
	c := newCart()
	line, err := c.Add(summary("pizza", 1, "35"))
	require.NoError(t, err)

	line.Params[0].Options[0].Label = "changed"

	got, _ := c.Line(line.ID)
	assert.Equal(t, "Large", got.Params[0].Options[0].Label)
}

func TestToOrderPayload(t *testing.T) {
	c := newCart()
	_, err := c.Add(summary("pizza", 2, "35"))
	require.NoError(t, err)

	payload := c.ToOrderPayload(Contact{Address: "Main St 1", Phone: "555-0100"})

	assert.Equal(t, "Main St 1", payload.Address)
	assert.Equal(t, "555-0100", payload.Phone)
	assert.Equal(t, 90.0, payload.TotalPrice)
	assert.Equal(t, 70.0, payload.SubtotalPrice)
	assert.Equal(t, 2, payload.TotalNumber)
	assert.Equal(t, 20.0, payload.DeliveryFee)
	require.Len(t, payload.Products, 1)

	product := payload.Products[0]
	assert.Equal(t, "line-1", product.LineID)
	assert.Equal(t, "pizza", product.ID)
	assert.Equal(t, 2, product.Amount)
	assert.Equal(t, 70.0, product.Price)
	assert.Equal(t, 30.0, product.PriceSingle)
	assert.Equal(t, ParamPayload{Label: "Size", Options: map[string]string{"large": "Large"}}, product.Params["size"])
}

func TestToOrderPayloadEmptyCart(t *testing.T) {
	payload := newCart().ToOrderPayload(Contact{})

	assert.Zero(t, payload.TotalPrice)
	assert.Zero(t, payload.DeliveryFee)
	assert.Zero(t, payload.TotalNumber)
	assert.NotNil(t, payload.Products)
	assert.Empty(t, payload.Products)
}
