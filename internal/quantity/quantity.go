// Package quantity implements the bounded integer amount shared by product
// configuration and cart line editing.
package quantity

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/angelmondragon/ordering-engine/internal/events"
)

// ErrOutOfRange is returned by New when the initial value violates the bounds.
var ErrOutOfRange = errors.New("quantity out of range")

// Bounds captures the inclusive range a quantity may take.
type Bounds struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether v lies within the bounds.
func (b Bounds) Contains(v int) bool {
	return v >= b.Min && v <= b.Max
}

// Changed is published after every accepted update.
type Changed struct {
	Previous int
	Value    int
}

// Bounded is an integer kept within [Min, Max]. Rejected updates leave the
// value untouched and publish nothing.
type Bounded struct {
	value   int
	bounds  Bounds
	changed events.Feed[Changed]
}

// New builds a quantity seeded with initial. It fails instead of clamping.
func New(initial int, bounds Bounds) (*Bounded, error) {
	if bounds.Min > bounds.Max {
		return nil, fmt.Errorf("%w: min %d exceeds max %d", ErrOutOfRange, bounds.Min, bounds.Max)
	}
	if !bounds.Contains(initial) {
		return nil, fmt.Errorf("%w: %d not within [%d, %d]", ErrOutOfRange, initial, bounds.Min, bounds.Max)
	}
	return &Bounded{value: initial, bounds: bounds}, nil
}

func (q *Bounded) Value() int {
	return q.value
}

func (q *Bounded) Bounds() Bounds {
	return q.bounds
}

// SetValue applies candidate and reports whether the value changed. Equal or
// out-of-range candidates are ignored.
func (q *Bounded) SetValue(candidate int) bool {
	if candidate == q.value || !q.bounds.Contains(candidate) {
		return false
	}
	previous := q.value
	q.value = candidate
	q.changed.Publish(Changed{Previous: previous, Value: candidate})
	return true
}

// SetFromInput parses raw user input as a base-10 integer before applying it.
// Unparseable input is ignored.
func (q *Bounded) SetFromInput(raw string) bool {
	candidate, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return q.SetValue(candidate)
}

func (q *Bounded) Increment() bool {
	return q.SetValue(q.value + 1)
}

func (q *Bounded) Decrement() bool {
	return q.SetValue(q.value - 1)
}

// OnChange subscribes fn to accepted updates.
func (q *Bounded) OnChange(fn func(Changed)) (unsubscribe func()) {
	return q.changed.Subscribe(fn)
}
