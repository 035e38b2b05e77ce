// Package session serializes access to one customer's cart and in-progress
// configurations so the core can be driven from concurrent HTTP handlers.
package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/angelmondragon/ordering-engine/internal/cart"
	"github.com/angelmondragon/ordering-engine/internal/catalog"
	"github.com/angelmondragon/ordering-engine/internal/configuration"
	"github.com/angelmondragon/ordering-engine/internal/ordering"
	"github.com/angelmondragon/ordering-engine/internal/quantity"
	pkgerrors "github.com/angelmondragon/ordering-engine/pkg/errors"
	"github.com/angelmondragon/ordering-engine/pkg/logger"
	"github.com/angelmondragon/ordering-engine/pkg/metrics"
	"github.com/shopspring/decimal"
)

// Settings are the widget defaults applied to every session.
type Settings struct {
	DeliveryFee     decimal.Decimal
	Bounds          quantity.Bounds
	DefaultQuantity int
}

// ConfigurationView is a snapshot of an in-progress configuration.
type ConfigurationView struct {
	ID         string
	ProductID  string
	Name       string
	State      configuration.State
	Quantity   int
	Bounds     quantity.Bounds
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
	Selections []configuration.GroupSelection
}

// CartView is a snapshot of the cart.
type CartView struct {
	Lines  []cart.Line
	Totals cart.Totals
}

// Session owns one cart and the configurations started in it.
type Session struct {
	id        string
	createdAt time.Time
	seenAt    atomic.Int64

	mu        sync.Mutex
	catalog   *catalog.Catalog
	settings  Settings
	cart      *cart.Cart
	configs   map[string]*configuration.Configuration
	newID     func() string
	submitter ordering.Submitter
	sink      string
	logg      *logger.Logger
	metrics   *metrics.OrderingMetrics
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Session) touch(now time.Time) {
	s.seenAt.Store(now.UnixNano())
}

func (s *Session) lastAccess() time.Time {
	return time.Unix(0, s.seenAt.Load())
}

// StartConfiguration opens a new configuration of productID seeded with the
// catalog defaults.
func (s *Session) StartConfiguration(productID string) (ConfigurationView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.catalog.Item(productID)
	if !ok {
		return ConfigurationView{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
			WithDetails(map[string]string{"productId": productID})
	}
	cfg, err := configuration.New(s.newID(), item, s.settings.DefaultQuantity, s.settings.Bounds)
	if err != nil {
		return ConfigurationView{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "start configuration")
	}
	s.configs[cfg.ID()] = cfg
	return viewOf(cfg), nil
}

// Configuration returns the configuration with configID.
func (s *Session) Configuration(configID string) (ConfigurationView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.configuration(configID)
	if err != nil {
		return ConfigurationView{}, err
	}
	return viewOf(cfg), nil
}

// DiscardConfiguration drops an in-progress configuration. Unknown ids are ignored.
func (s *Session) DiscardConfiguration(configID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.configs, configID)
}

// SetSelection toggles one option of a configuration.
func (s *Session) SetSelection(configID, groupID, optionID string, selected bool) (ConfigurationView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.configuration(configID)
	if err != nil {
		return ConfigurationView{}, err
	}
	if err := cfg.SetSelection(groupID, optionID, selected); err != nil {
		return ConfigurationView{}, translate(err)
	}
	return viewOf(cfg), nil
}

// SetQuantity applies raw user input to a configuration quantity and reports
// whether it was accepted.
func (s *Session) SetQuantity(configID, raw string) (ConfigurationView, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.configuration(configID)
	if err != nil {
		return ConfigurationView{}, false, err
	}
	changed := cfg.SetQuantityInput(raw)
	return viewOf(cfg), changed, nil
}

// AddToCart finalizes a configuration and appends it to the cart. The
// configuration is dropped from the session once it is in the cart.
func (s *Session) AddToCart(configID string) (cart.Line, cart.Totals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.configuration(configID)
	if err != nil {
		return cart.Line{}, cart.Totals{}, err
	}
	if bounds := s.cart.LineBounds(); !bounds.Contains(cfg.Quantity()) {
		return cart.Line{}, cart.Totals{}, pkgerrors.New(pkgerrors.CodeStateConflict, "quantity outside cart line bounds").
			WithDetails(map[string]any{"quantity": cfg.Quantity(), "min": bounds.Min, "max": bounds.Max})
	}
	summary, err := cfg.Finalize()
	if err != nil {
		return cart.Line{}, cart.Totals{}, translate(err)
	}

	line, err := s.cart.Add(summary)
	if err != nil {
		return cart.Line{}, cart.Totals{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add line")
	}
	delete(s.configs, configID)
	s.logg.Debug(s.logg.WithConfiguration(s.logg.WithSessionID(context.Background(), s.id), configID, summary.ProductID), "configuration.finalized")
	return line, s.cart.Totals(), nil
}

// RemoveLine drops a cart line. Unknown ids leave the cart untouched.
func (s *Session) RemoveLine(lineID string) (bool, cart.Totals) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, removed := s.cart.Remove(lineID)
	return removed, s.cart.Totals()
}

// UpdateLineQuantity applies raw user input to a cart line quantity and
// reports whether it was accepted.
func (s *Session) UpdateLineQuantity(lineID, raw string) (cart.Line, cart.Totals, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cart.Line(lineID); !ok {
		return cart.Line{}, cart.Totals{}, false, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found").
			WithDetails(map[string]string{"lineId": lineID})
	}
	changed := s.cart.UpdateLineQuantityInput(lineID, raw)
	line, _ := s.cart.Line(lineID)
	return line, s.cart.Totals(), changed, nil
}

func (s *Session) Cart() CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return CartView{Lines: s.cart.Lines(), Totals: s.cart.Totals()}
}

// Submit sends the current cart as an order. The cart is never modified here,
// whatever the outcome.
func (s *Session) Submit(ctx context.Context, contact cart.Contact) (ordering.Receipt, cart.OrderPayload, error) {
	s.mu.Lock()
	empty := s.cart.Len() == 0
	payload := s.cart.ToOrderPayload(contact)
	s.mu.Unlock()

	if empty {
		return ordering.Receipt{}, payload, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		logger.FieldSessionID: s.id,
		"sink":                s.sink,
		"total_number":        payload.TotalNumber,
	})
	start := time.Now()
	receipt, err := s.submitter.Submit(ctx, payload)
	s.metrics.ObserveSubmission(s.sink, time.Since(start), err)
	if err != nil {
		s.logg.Error(ctx, "order.submit_failed", err)
		if !ordering.IsSubmissionFailure(err) {
			err = pkgerrors.Wrap(pkgerrors.CodeSubmission, err, "order submission failed")
		}
		return ordering.Receipt{}, payload, err
	}
	s.logg.Info(s.logg.WithField(ctx, "reference", receipt.Reference), "order.submitted")
	return receipt, payload, nil
}

func (s *Session) configuration(configID string) (*configuration.Configuration, error) {
	cfg, ok := s.configs[configID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "configuration not found").
			WithDetails(map[string]string{"configurationId": configID})
	}
	return cfg, nil
}

func (s *Session) observeCart() {
	ctx := s.logg.WithSessionID(context.Background(), s.id)
	s.cart.OnLineAdded(func(ev cart.LineAdded) {
		s.metrics.IncCartEvent(metrics.EventLineAdded)
		s.logg.Debug(s.logg.WithField(s.logg.WithLineID(ctx, ev.Line.ID), logger.FieldProductID, ev.Line.ProductID), "cart.line_added")
	})
	s.cart.OnLineRemoved(func(ev cart.LineRemoved) {
		s.metrics.IncCartEvent(metrics.EventLineRemoved)
		s.logg.Debug(s.logg.WithLineID(ctx, ev.Line.ID), "cart.line_removed")
	})
	s.cart.OnLineUpdated(func(ev cart.LineUpdated) {
		s.metrics.IncCartEvent(metrics.EventLineUpdated)
		s.logg.Debug(s.logg.WithField(s.logg.WithLineID(ctx, ev.Line.ID), "quantity", ev.Line.Quantity), "cart.line_updated")
	})
}

func viewOf(cfg *configuration.Configuration) ConfigurationView {
	item := cfg.Item()
	return ConfigurationView{
		ID:         cfg.ID(),
		ProductID:  item.ID,
		Name:       item.Name,
		State:      cfg.State(),
		Quantity:   cfg.Quantity(),
		Bounds:     cfg.QuantityBounds(),
		UnitPrice:  cfg.UnitPrice(),
		TotalPrice: cfg.CurrentPrice(),
		Selections: cfg.SelectedOptions(),
	}
}

func translate(err error) error {
	var refErr *configuration.ReferenceError
	var incomplete *configuration.IncompleteError
	switch {
	case errors.As(err, &refErr):
		details := map[string]string{"groupId": refErr.GroupID}
		if refErr.OptionID != "" {
			details["optionId"] = refErr.OptionID
		}
		return pkgerrors.Wrap(pkgerrors.CodeInvalidReference, err, "unknown param group or option").WithDetails(details)
	case errors.As(err, &incomplete):
		return pkgerrors.Wrap(pkgerrors.CodeIncompleteConfiguration, err, "required param groups have no selection").
			WithDetails(map[string][]string{"missingGroups": incomplete.MissingGroups})
	case errors.Is(err, configuration.ErrFrozen):
		return pkgerrors.Wrap(pkgerrors.CodeStateConflict, err, "configuration already added to cart")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "configuration update failed")
	}
}
