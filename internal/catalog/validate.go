package catalog

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"
)

// ErrInvalidCatalog marks catalog data that violates the definition rules.
var ErrInvalidCatalog = errors.New("invalid catalog")

var validate = validator.New()

type itemRules struct {
	ID   string `validate:"required"`
	Name string `validate:"required"`
}

type groupRules struct {
	ID    string `validate:"required"`
	Label string `validate:"required"`
	Type  string `validate:"omitempty,oneof=checkboxes radios select"`
}

type optionRules struct {
	ID    string `validate:"required"`
	Label string `validate:"required"`
}

// Validate reports every rule violation in c at once.
func Validate(c *Catalog) error {
	if c == nil {
		return fmt.Errorf("%w: catalog is nil", ErrInvalidCatalog)
	}
	var errs error
	seenItems := map[string]struct{}{}
	for _, item := range c.items {
		if _, dup := seenItems[item.ID]; dup {
			errs = multierr.Append(errs, invalidf("item %q: duplicate id", item.ID))
		}
		seenItems[item.ID] = struct{}{}
		errs = multierr.Append(errs, validateItem(item))
	}
	return errs
}

func validateItem(item *Item) error {
	var errs error
	if err := validate.Struct(itemRules{ID: item.ID, Name: item.Name}); err != nil {
		errs = multierr.Append(errs, fieldErrors(fmt.Sprintf("item %q", item.ID), err))
	}
	if item.BasePrice.IsNegative() {
		errs = multierr.Append(errs, invalidf("item %q: price must be non-negative", item.ID))
	}

	seenGroups := map[string]struct{}{}
	for _, group := range item.Params {
		scope := fmt.Sprintf("item %q group %q", item.ID, group.ID)
		if _, dup := seenGroups[group.ID]; dup {
			errs = multierr.Append(errs, invalidf("%s: duplicate id", scope))
		}
		seenGroups[group.ID] = struct{}{}

		if err := validate.Struct(groupRules{ID: group.ID, Label: group.Label, Type: group.Type}); err != nil {
			errs = multierr.Append(errs, fieldErrors(scope, err))
		}

		seenOptions := map[string]struct{}{}
		for _, opt := range group.Options {
			optScope := fmt.Sprintf("%s option %q", scope, opt.ID)
			if _, dup := seenOptions[opt.ID]; dup {
				errs = multierr.Append(errs, invalidf("%s: duplicate id", optScope))
			}
			seenOptions[opt.ID] = struct{}{}

			if err := validate.Struct(optionRules{ID: opt.ID, Label: opt.Label}); err != nil {
				errs = multierr.Append(errs, fieldErrors(optScope, err))
			}
			if opt.Price.IsNegative() {
				errs = multierr.Append(errs, invalidf("%s: price must be non-negative", optScope))
			}
		}
	}
	return errs
}

func fieldErrors(scope string, err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %s: %v", ErrInvalidCatalog, scope, err)
	}
	var errs error
	for _, fe := range fieldErrs {
		errs = multierr.Append(errs, invalidf("%s: %s failed %s", scope, fe.Field(), fe.Tag()))
	}
	return errs
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidCatalog, fmt.Sprintf(format, args...))
}
