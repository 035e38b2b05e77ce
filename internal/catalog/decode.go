package catalog

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Decode parses a catalog document of the form
//
//	{productId: {name, price, description, images, params: {groupId: {label, type, required, options: {optionId: {label, price, default}}}}}}
//
// JSON is accepted as the YAML subset it is. Mapping order is kept, so groups
// and options iterate in document order.
func Decode(data []byte) (*Catalog, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parse: %v", ErrInvalidCatalog, err)
	}
	root := &doc
	if root.Kind == 0 {
		return New(nil)
	}
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return New(nil)
		}
		root = root.Content[0]
	}
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return New(nil)
	}

	pairs, err := mappingPairs(root, "catalog")
	if err != nil {
		return nil, err
	}
	items := make([]*Item, 0, len(pairs))
	for _, pair := range pairs {
		item, err := decodeItem(pair.key, pair.value)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return New(items)
}

type nodePair struct {
	key   string
	value *yaml.Node
}

func mappingPairs(n *yaml.Node, scope string) ([]nodePair, error) {
	if n == nil {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: %s must be an object", ErrInvalidCatalog, scope)
	}
	pairs := make([]nodePair, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		pairs = append(pairs, nodePair{key: n.Content[i].Value, value: n.Content[i+1]})
	}
	return pairs, nil
}

func decodeItem(id string, n *yaml.Node) (*Item, error) {
	scope := fmt.Sprintf("item %q", id)
	pairs, err := mappingPairs(n, scope)
	if err != nil {
		return nil, err
	}
	item := &Item{ID: id, BasePrice: decimal.Zero}
	for _, pair := range pairs {
		switch pair.key {
		case "name":
			err = decodeScalar(pair.value, &item.Name, scope+" name")
		case "description":
			err = decodeScalar(pair.value, &item.Description, scope+" description")
		case "price":
			item.BasePrice, err = decodeAmount(pair.value, scope+" price")
		case "images":
			item.Images, err = decodeImages(pair.value, scope+" images")
		case "params":
			item.Params, err = decodeGroups(pair.value, scope)
		}
		if err != nil {
			return nil, err
		}
	}
	return item, nil
}

func decodeGroups(n *yaml.Node, itemScope string) ([]ParamGroup, error) {
	pairs, err := mappingPairs(n, itemScope+" params")
	if err != nil {
		return nil, err
	}
	groups := make([]ParamGroup, 0, len(pairs))
	for _, pair := range pairs {
		scope := fmt.Sprintf("%s group %q", itemScope, pair.key)
		fields, err := mappingPairs(pair.value, scope)
		if err != nil {
			return nil, err
		}
		group := ParamGroup{ID: pair.key, Options: []Option{}}
		for _, field := range fields {
			switch field.key {
			case "label":
				err = decodeScalar(field.value, &group.Label, scope+" label")
			case "type":
				err = decodeScalar(field.value, &group.Type, scope+" type")
			case "required":
				err = decodeScalar(field.value, &group.Required, scope+" required")
			case "options":
				group.Options, err = decodeOptions(field.value, scope)
			}
			if err != nil {
				return nil, err
			}
		}
		groups = append(groups, group)
	}
	return groups, nil
}

func decodeOptions(n *yaml.Node, groupScope string) ([]Option, error) {
	pairs, err := mappingPairs(n, groupScope+" options")
	if err != nil {
		return nil, err
	}
	options := make([]Option, 0, len(pairs))
	for _, pair := range pairs {
		scope := fmt.Sprintf("%s option %q", groupScope, pair.key)
		fields, err := mappingPairs(pair.value, scope)
		if err != nil {
			return nil, err
		}
		opt := Option{ID: pair.key, Price: decimal.Zero}
		for _, field := range fields {
			switch field.key {
			case "label":
				err = decodeScalar(field.value, &opt.Label, scope+" label")
			case "price":
				opt.Price, err = decodeAmount(field.value, scope+" price")
			case "default":
				err = decodeScalar(field.value, &opt.Default, scope+" default")
			}
			if err != nil {
				return nil, err
			}
		}
		options = append(options, opt)
	}
	return options, nil
}

func decodeImages(n *yaml.Node, scope string) ([]string, error) {
	switch n.Kind {
	case yaml.SequenceNode:
		var images []string
		if err := n.Decode(&images); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidCatalog, scope, err)
		}
		return images, nil
	case yaml.ScalarNode:
		if strings.TrimSpace(n.Value) == "" {
			return nil, nil
		}
		return []string{n.Value}, nil
	}
	return nil, fmt.Errorf("%w: %s must be a list", ErrInvalidCatalog, scope)
}

func decodeScalar(n *yaml.Node, dest any, scope string) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: %s must be a scalar", ErrInvalidCatalog, scope)
	}
	if err := n.Decode(dest); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidCatalog, scope, err)
	}
	return nil
}

func decodeAmount(n *yaml.Node, scope string) (decimal.Decimal, error) {
	if n.Kind != yaml.ScalarNode || n.Tag == "!!null" {
		return decimal.Zero, fmt.Errorf("%w: %s must be a number", ErrInvalidCatalog, scope)
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(n.Value))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s: %v", ErrInvalidCatalog, scope, err)
	}
	return amount, nil
}
