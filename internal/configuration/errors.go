package configuration

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidReference        = errors.New("invalid reference")
	ErrIncompleteConfiguration = errors.New("incomplete configuration")
	ErrFrozen                  = errors.New("configuration already finalized")
)

// ReferenceError names the unknown group or option a selection pointed at.
type ReferenceError struct {
	ProductID string
	GroupID   string
	OptionID  string
}

func (e *ReferenceError) Error() string {
	if e.OptionID == "" {
		return fmt.Sprintf("%s: product %q has no group %q", ErrInvalidReference, e.ProductID, e.GroupID)
	}
	return fmt.Sprintf("%s: product %q group %q has no option %q", ErrInvalidReference, e.ProductID, e.GroupID, e.OptionID)
}

func (e *ReferenceError) Unwrap() error {
	return ErrInvalidReference
}

// IncompleteError lists the required groups left without a selection.
type IncompleteError struct {
	ProductID     string
	MissingGroups []string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("%s: product %q requires a selection in %s", ErrIncompleteConfiguration, e.ProductID, strings.Join(e.MissingGroups, ", "))
}

func (e *IncompleteError) Unwrap() error {
	return ErrIncompleteConfiguration
}
