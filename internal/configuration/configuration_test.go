package configuration

import (
	"errors"
	"testing"

	"github.com/angelmondragon/ordering-engine/internal/catalog"
	"github.com/angelmondragon/ordering-engine/internal/quantity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var widgetBounds = quantity.Bounds{Min: 1, Max: 9}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func pizza(t *testing.T, requiredCrust bool) *catalog.Item {
	t.Helper()
	cat, err := catalog.New([]*catalog.Item{{
		ID:        "pizza",
		Name:      "Pizza",
		BasePrice: d("30"),
		Params: []catalog.ParamGroup{{
			ID:    "size",
			Label: "Size",
			Type:  "radios",
			Options: []catalog.Option{
				{ID: "small", Label: "Small", Price: d("0"), Default: true},
				{ID: "large", Label: "Large", Price: d("5")},
			},
		}, {
			ID:    "toppings",
			Label: "Toppings",
			Type:  "checkboxes",
			Options: []catalog.Option{
				{ID: "olives", Label: "Olives", Price: d("2"), Default: true},
				{ID: "salami", Label: "Salami", Price: d("3")},
			},
		}, {
			ID:       "crust",
			Label:    "Crust",
			Required: requiredCrust,
			Options: []catalog.Option{
				{ID: "thin", Label: "Thin", Price: d("1")},
			},
		}},
	}})
	require.NoError(t, err)
	item, _ := cat.Item("pizza")
	return item
}

func newConfig(t *testing.T, item *catalog.Item) *Configuration {
	t.Helper()
	c, err := New("cfg-1", item, 1, widgetBounds)
	require.NoError(t, err)
	return c
}

func TestNewStartsFromDefaults(t *testing.T) {
	c := newConfig(t, pizza(t, false))

	assert.Equal(t, StateEditing, c.State())
	assert.Equal(t, 1, c.Quantity())
	assert.True(t, c.UnitPrice().Equal(d("30")))
	assert.True(t, c.CurrentPrice().Equal(d("30")))
	assert.True(t, c.Selections().Has("size", "small"))
	assert.True(t, c.Selections().Has("toppings", "olives"))
}

func TestNewRejectsInvalidInput(t *testing.T) {
	_, err := New("cfg", nil, 1, widgetBounds)
	require.ErrorIs(t, err, ErrInvalidReference)

	_, err = New("cfg", pizza(t, false), 0, widgetBounds)
	require.ErrorIs(t, err, quantity.ErrOutOfRange)
}

func TestScenarioLargeTimesTwo(t *testing.T) {
	c := newConfig(t, pizza(t, false))

	require.NoError(t, c.SetSelection("size", "small", false))
	require.NoError(t, c.SetSelection("size", "large", true))
	assert.True(t, c.CurrentPrice().Equal(d("35")), c.CurrentPrice().String())

	assert.True(t, c.SetQuantity(2))
	assert.True(t, c.CurrentPrice().Equal(d("70")), c.CurrentPrice().String())
	assert.True(t, c.UnitPrice().Equal(d("35")))
}

func TestSetSelectionDeltas(t *testing.T) {
	tests := []struct {
		name     string
		group    string
		option   string
		selected bool
		want     string
	}{
		{name: "deselect default subtracts", group: "toppings", option: "olives", selected: false, want: "28"},
		{name: "select extra adds", group: "toppings", option: "salami", selected: true, want: "33"},
		{name: "reselect default is free", group: "size", option: "small", selected: true, want: "30"},
		{name: "deselect absent is free", group: "crust", option: "thin", selected: false, want: "30"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newConfig(t, pizza(t, false))
			require.NoError(t, c.SetSelection(tc.group, tc.option, tc.selected))
			assert.True(t, c.CurrentPrice().Equal(d(tc.want)), c.CurrentPrice().String())
		})
	}
}

func TestSetSelectionInvalidReference(t *testing.T) {
	c := newConfig(t, pizza(t, false))

	err := c.SetSelection("sauce", "bbq", true)
	require.ErrorIs(t, err, ErrInvalidReference)
	var refErr *ReferenceError
	require.True(t, errors.As(err, &refErr))
	assert.Equal(t, "sauce", refErr.GroupID)
	assert.Empty(t, refErr.OptionID)

	err = c.SetSelection("size", "huge", true)
	require.ErrorIs(t, err, ErrInvalidReference)
	require.True(t, errors.As(err, &refErr))
	assert.Equal(t, "huge", refErr.OptionID)

	assert.True(t, c.CurrentPrice().Equal(d("30")))
}

func TestChangedEvents(t *testing.T) {
	c := newConfig(t, pizza(t, false))
	var got []Changed
	c.OnChange(func(ev Changed) { got = append(got, ev) })

	require.NoError(t, c.SetSelection("toppings", "salami", true))
	require.NoError(t, c.SetSelection("toppings", "salami", true))
	assert.False(t, c.SetQuantity(15))
	assert.True(t, c.SetQuantity(3))
	assert.False(t, c.SetQuantityInput("abc"))

	require.Len(t, got, 2)
	assert.Equal(t, "cfg-1", got[0].ConfigurationID)
	assert.Equal(t, "pizza", got[0].ProductID)
	assert.True(t, got[0].TotalPrice.Equal(d("33")))
	assert.Equal(t, 3, got[1].Quantity)
	assert.True(t, got[1].UnitPrice.Equal(d("33")))
	assert.True(t, got[1].TotalPrice.Equal(d("99")))
}

func TestQuantityHelpers(t *testing.T) {
	c := newConfig(t, pizza(t, false))

	assert.False(t, c.Decrement())
	assert.True(t, c.Increment())
	assert.True(t, c.SetQuantityInput(" 9 "))
	assert.False(t, c.Increment())
	assert.Equal(t, 9, c.Quantity())
	assert.Equal(t, widgetBounds, c.QuantityBounds())
	assert.True(t, c.CurrentPrice().Equal(d("270")))
}

func TestSelectedOptionsKeepsCatalogOrder(t *testing.T) {
	c := newConfig(t, pizza(t, false))
	require.NoError(t, c.SetSelection("toppings", "salami", true))

	got := c.SelectedOptions()
	require.Len(t, got, 3)
	assert.Equal(t, GroupSelection{GroupID: "size", OptionIDs: []string{"small"}}, got[0])
	assert.Equal(t, GroupSelection{GroupID: "toppings", OptionIDs: []string{"olives", "salami"}}, got[1])
	assert.Equal(t, GroupSelection{GroupID: "crust", OptionIDs: []string{}}, got[2])
}

func TestFinalizeSummary(t *testing.T) {
	c := newConfig(t, pizza(t, false))
	require.NoError(t, c.SetSelection("toppings", "salami", true))
	require.True(t, c.SetQuantity(2))

	summary, err := c.Finalize()
	require.NoError(t, err)

	assert.Equal(t, StateFrozen, c.State())
	assert.Equal(t, "pizza", summary.ProductID)
	assert.Equal(t, "Pizza", summary.Name)
	assert.Equal(t, 2, summary.Quantity)
	assert.True(t, summary.UnitPrice.Equal(d("33")))
	assert.True(t, summary.BasePrice.Equal(d("30")))
	assert.True(t, summary.LineTotal.Equal(d("66")))
	require.Len(t, summary.Params, 3)
	assert.Equal(t, "Toppings", summary.Params[1].Label)
	assert.Equal(t, []OptionLabel{{ID: "olives", Label: "Olives"}, {ID: "salami", Label: "Salami"}}, summary.Params[1].Options)
	assert.Empty(t, summary.Params[2].Options)
}

func TestFinalizeFreezes(t *testing.T) {
	c := newConfig(t, pizza(t, false))
	_, err := c.Finalize()
	require.NoError(t, err)

	require.ErrorIs(t, c.SetSelection("toppings", "salami", true), ErrFrozen)
	assert.False(t, c.SetQuantity(2))
	assert.False(t, c.SetQuantityInput("3"))
	assert.False(t, c.Increment())
	assert.Equal(t, 1, c.Quantity())

	_, err = c.Finalize()
	require.ErrorIs(t, err, ErrFrozen)
}

func TestFinalizeRequiredGroup(t *testing.T) {
	c := newConfig(t, pizza(t, true))

	_, err := c.Finalize()
	require.ErrorIs(t, err, ErrIncompleteConfiguration)
	var incomplete *IncompleteError
	require.True(t, errors.As(err, &incomplete))
	assert.Equal(t, []string{"crust"}, incomplete.MissingGroups)
	assert.Equal(t, StateEditing, c.State())

	require.NoError(t, c.SetSelection("crust", "thin", true))
	summary, err := c.Finalize()
	require.NoError(t, err)
	assert.True(t, summary.LineTotal.Equal(d("31")))
}

func TestSummaryCloneIsDeep(t *testing.T) {
	c := newConfig(t, pizza(t, false))
	summary, err := c.Finalize()
	require.NoError(t, err)

	clone := summary.Clone()
	clone.Params[0].Options[0].Label = "changed"
	clone.Params[0].Label = "changed"

	assert.Equal(t, "Small", summary.Params[0].Options[0].Label)
	assert.Equal(t, "Size", summary.Params[0].Label)
}
