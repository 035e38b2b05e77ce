// Package catalog holds the read-only product definitions an order is configured from.
package catalog

import (
	"github.com/shopspring/decimal"
)

// Option is one selectable choice inside a param group.
type Option struct {
	ID      string          `json:"id"`
	Label   string          `json:"label"`
	Price   decimal.Decimal `json:"price"`
	Default bool            `json:"default"`
}

// ParamGroup is an ordered set of options keyed by id.
type ParamGroup struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Type     string   `json:"type,omitempty"`
	Required bool     `json:"required,omitempty"`
	Options  []Option `json:"options"`

	optionIndex map[string]int
}

// Option looks up an option by id.
func (g *ParamGroup) Option(id string) (*Option, bool) {
	if g == nil {
		return nil, false
	}
	idx, ok := g.optionIndex[id]
	if !ok {
		return nil, false
	}
	return &g.Options[idx], true
}

// DefaultOptionIDs lists the ids of options pre-selected by the catalog, in catalog order.
func (g *ParamGroup) DefaultOptionIDs() []string {
	ids := []string{}
	for _, opt := range g.Options {
		if opt.Default {
			ids = append(ids, opt.ID)
		}
	}
	return ids
}

// Item is a purchasable catalog entry.
type Item struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Images      []string        `json:"images,omitempty"`
	BasePrice   decimal.Decimal `json:"price"`
	Params      []ParamGroup    `json:"params"`

	groupIndex map[string]int
}

// Group looks up a param group by id.
func (i *Item) Group(id string) (*ParamGroup, bool) {
	if i == nil {
		return nil, false
	}
	idx, ok := i.groupIndex[id]
	if !ok {
		return nil, false
	}
	return &i.Params[idx], true
}

// Catalog is the ordered set of item definitions. It is read-only once built.
type Catalog struct {
	items []*Item
	index map[string]int
}

// New builds a catalog from items, indexing groups and options. Items keep the given order.
func New(items []*Item) (*Catalog, error) {
	c := &Catalog{
		items: make([]*Item, 0, len(items)),
		index: make(map[string]int, len(items)),
	}
	for _, item := range items {
		if item == nil {
			continue
		}
		item.reindex()
		c.index[item.ID] = len(c.items)
		c.items = append(c.items, item)
	}
	if err := Validate(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Item returns the definition with the given id.
func (c *Catalog) Item(id string) (*Item, bool) {
	if c == nil {
		return nil, false
	}
	idx, ok := c.index[id]
	if !ok {
		return nil, false
	}
	return c.items[idx], true
}

// Items returns the definitions in catalog order.
func (c *Catalog) Items() []*Item {
	if c == nil {
		return nil
	}
	out := make([]*Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

func (i *Item) reindex() {
	i.groupIndex = make(map[string]int, len(i.Params))
	for gi := range i.Params {
		group := &i.Params[gi]
		if _, dup := i.groupIndex[group.ID]; !dup {
			i.groupIndex[group.ID] = gi
		}
		group.optionIndex = make(map[string]int, len(group.Options))
		for oi, opt := range group.Options {
			if _, dup := group.optionIndex[opt.ID]; !dup {
				group.optionIndex[opt.ID] = oi
			}
		}
	}
}
