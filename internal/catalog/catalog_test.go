package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	pkgerrors "github.com/angelmondragon/ordering-engine/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeKeepsDocumentOrder(t *testing.T) {
	data, err := os.ReadFile("testdata/catalog.json")
	require.NoError(t, err)

	cat, err := Decode(data)
	require.NoError(t, err)

	ids := []string{}
	for _, item := range cat.Items() {
		ids = append(ids, item.ID)
	}
	assert.Equal(t, []string{"cake", "breakfast", "pizza", "salad"}, ids)

	pizza, ok := cat.Item("pizza")
	require.True(t, ok)
	assert.Equal(t, "Nonno Alberto's Pizza", pizza.Name)
	assert.True(t, pizza.BasePrice.Equal(decimal.NewFromInt(20)))
	require.Len(t, pizza.Params, 3)
	assert.Equal(t, "sauce", pizza.Params[0].ID)
	assert.Equal(t, "toppings", pizza.Params[1].ID)
	assert.Equal(t, "crust", pizza.Params[2].ID)

	toppings, ok := pizza.Group("toppings")
	require.True(t, ok)
	assert.Equal(t, "checkboxes", toppings.Type)
	assert.Equal(t, []string{"olives", "redPeppers", "greenPeppers", "mushrooms", "basil"}, toppings.DefaultOptionIDs())

	salami, ok := toppings.Option("salami")
	require.True(t, ok)
	assert.False(t, salami.Default)
	assert.True(t, salami.Price.Equal(decimal.NewFromInt(3)))

	_, ok = toppings.Option("pineapple")
	assert.False(t, ok)
	_, ok = pizza.Group("dessert")
	assert.False(t, ok)
}

func TestDecodeYAMLWithRequiredGroup(t *testing.T) {
	data, err := os.ReadFile("testdata/catalog.yaml")
	require.NoError(t, err)

	cat, err := Decode(data)
	require.NoError(t, err)

	soup, ok := cat.Item("soup")
	require.True(t, ok)
	assert.True(t, soup.BasePrice.Equal(decimal.RequireFromString("12.5")))

	size, ok := soup.Group("size")
	require.True(t, ok)
	assert.True(t, size.Required)
	large, ok := size.Option("large")
	require.True(t, ok)
	assert.Equal(t, "4.25", large.Price.String())
}

func TestDecodeEmptyDocument(t *testing.T) {
	for _, doc := range []string{"", "{}", "null"} {
		cat, err := Decode([]byte(doc))
		require.NoError(t, err, doc)
		assert.Equal(t, 0, cat.Len())
	}
}

func TestDecodeRejectsMalformedData(t *testing.T) {
	tests := map[string]string{
		"not an object":      `[1, 2]`,
		"params not object":  `{"a": {"name": "A", "price": 1, "params": []}}`,
		"price not a number": `{"a": {"name": "A", "price": "cheap"}}`,
		"bad option default": `{"a": {"name": "A", "price": 1, "params": {"g": {"label": "G", "options": {"o": {"label": "O", "price": 1, "default": "maybe"}}}}}}`,
		"syntax":             `{"a": `,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidCatalog)
		})
	}
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	doc := `{
	  "a": {"name": "", "price": -1, "params": {
	    "g": {"label": "G", "type": "slider", "options": {
	      "o": {"label": "", "price": -2},
	      "o": {"label": "Dup", "price": 1}
	    }}
	  }}
	}`
	_, err := Decode([]byte(doc))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidCatalog)

	msg := err.Error()
	assert.Contains(t, msg, `item "a": Name failed required`)
	assert.Contains(t, msg, `item "a": price must be non-negative`)
	assert.Contains(t, msg, `Type failed oneof`)
	assert.Contains(t, msg, `option "o": Label failed required`)
	assert.Contains(t, msg, `option "o": price must be non-negative`)
	assert.Contains(t, msg, `option "o": duplicate id`)
}

func TestNewRejectsDuplicateItems(t *testing.T) {
	_, err := New([]*Item{
		{ID: "a", Name: "A"},
		{ID: "a", Name: "Again"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate id")
}

func TestFileSource(t *testing.T) {
	cat, err := FileSource{Path: "testdata/catalog.json"}.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, cat.Len())

	_, err = FileSource{Path: "testdata/missing.json"}.Load(context.Background())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())
}

func TestHTTPSourceLoad(t *testing.T) {
	data, err := os.ReadFile("testdata/catalog.json")
	require.NoError(t, err)

	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	}))
	defer server.Close()

	source, err := NewHTTPSource(server.URL+"/", WithProductsPath("/products/"))
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/products", source.URL())

	cat, err := source.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/products", gotPath)
	assert.Equal(t, 4, cat.Len())
}

func TestHTTPSourceFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken/products" {
			_, _ = w.Write([]byte(`{"a": `))
			return
		}
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	source, err := NewHTTPSource(server.URL)
	require.NoError(t, err)
	_, err = source.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog request failed")
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())

	broken, err := NewHTTPSource(server.URL + "/broken")
	require.NoError(t, err)
	_, err = broken.Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidCatalog))

	_, err = NewHTTPSource("  ")
	assert.ErrorIs(t, err, errBaseURLRequired)
}
