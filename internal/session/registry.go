package session

import (
	"context"
	"sync"
	"time"

	"github.com/angelmondragon/ordering-engine/internal/cart"
	"github.com/angelmondragon/ordering-engine/internal/catalog"
	"github.com/angelmondragon/ordering-engine/internal/configuration"
	"github.com/angelmondragon/ordering-engine/internal/ordering"
	pkgerrors "github.com/angelmondragon/ordering-engine/pkg/errors"
	"github.com/angelmondragon/ordering-engine/pkg/logger"
	"github.com/angelmondragon/ordering-engine/pkg/metrics"
	"github.com/google/uuid"
)

// RegistryParams wires the collaborators shared by every session.
type RegistryParams struct {
	Catalog   *catalog.Catalog
	Settings  Settings
	Submitter ordering.Submitter
	Sink      string
	Logger    *logger.Logger
	Metrics   *metrics.OrderingMetrics
	NewID     func() string
	Now       func() time.Time
	// IdleTTL evicts sessions not accessed for that long. Zero keeps them
	// until they are closed.
	IdleTTL time.Duration
	// SweepInterval bounds how often Create sweeps idle sessions. Defaults to IdleTTL.
	SweepInterval time.Duration
}

// Registry keeps the open sessions in memory.
type Registry struct {
	params RegistryParams

	mu        sync.RWMutex
	sessions  map[string]*Session
	lastSweep time.Time
}

func NewRegistry(params RegistryParams) (*Registry, error) {
	if params.Catalog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "catalog required")
	}
	if params.Submitter == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order submitter required")
	}
	if !params.Settings.Bounds.Contains(params.Settings.DefaultQuantity) {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "default quantity outside bounds")
	}
	if params.Logger == nil {
		params.Logger = logger.Nop()
	}
	if params.NewID == nil {
		params.NewID = uuid.NewString
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	if params.IdleTTL < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session idle ttl must not be negative")
	}
	if params.SweepInterval <= 0 {
		params.SweepInterval = params.IdleTTL
	}
	return &Registry{params: params, sessions: map[string]*Session{}, lastSweep: params.Now()}, nil
}

// Catalog returns the catalog every session configures from.
func (r *Registry) Catalog() *catalog.Catalog {
	return r.params.Catalog
}

// Create opens a session with an empty cart. Idle sessions are swept first
// once SweepInterval has passed since the previous sweep.
func (r *Registry) Create() *Session {
	p := r.params
	now := p.Now()
	r.sweepIfDue(now)

	s := &Session{
		id:        p.NewID(),
		createdAt: now.UTC(),
		catalog:   p.Catalog,
		settings:  p.Settings,
		cart:      cart.New(p.Settings.DeliveryFee, p.Settings.Bounds, cart.WithIDGenerator(p.NewID)),
		configs:   map[string]*configuration.Configuration{},
		newID:     p.NewID,
		submitter: p.Submitter,
		sink:      p.Sink,
		logg:      p.Logger,
		metrics:   p.Metrics,
	}
	s.observeCart()
	s.touch(now)

	r.mu.Lock()
	r.sessions[s.id] = s
	r.mu.Unlock()

	p.Metrics.SessionOpened()
	return s
}

// Get returns the session with id and marks it as accessed. A session idle
// past IdleTTL is evicted and reported as not found.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()

	now := r.params.Now()
	if ok && r.expired(s, now) {
		r.evict(s)
		ok = false
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "session not found").
			WithDetails(map[string]string{"sessionId": id})
	}
	s.touch(now)
	return s, nil
}

// Close forgets the session with id and reports whether it existed.
func (r *Registry) Close(id string) bool {
	r.mu.Lock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if ok {
		r.params.Metrics.SessionClosed()
	}
	return ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep evicts every session idle past IdleTTL and returns how many were dropped.
func (r *Registry) Sweep() int {
	now := r.params.Now()
	r.mu.Lock()
	r.lastSweep = now
	r.mu.Unlock()
	return r.sweep(now)
}

// Run sweeps idle sessions every SweepInterval until ctx is done.
func (r *Registry) Run(ctx context.Context) {
	if r.params.IdleTTL <= 0 {
		return
	}
	ticker := time.NewTicker(r.params.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.params.Logger.Info(r.params.Logger.WithField(ctx, "evicted", n), "sessions.swept")
			}
		}
	}
}

func (r *Registry) sweepIfDue(now time.Time) {
	if r.params.IdleTTL <= 0 {
		return
	}
	r.mu.Lock()
	due := now.Sub(r.lastSweep) >= r.params.SweepInterval
	if due {
		r.lastSweep = now
	}
	r.mu.Unlock()
	if due {
		r.sweep(now)
	}
}

func (r *Registry) sweep(now time.Time) int {
	if r.params.IdleTTL <= 0 {
		return 0
	}
	r.mu.Lock()
	var idle []*Session
	for id, s := range r.sessions {
		if r.expired(s, now) {
			idle = append(idle, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for range idle {
		r.params.Metrics.SessionClosed()
	}
	return len(idle)
}

func (r *Registry) expired(s *Session, now time.Time) bool {
	return r.params.IdleTTL > 0 && now.Sub(s.lastAccess()) >= r.params.IdleTTL
}

// evict drops s only if it is still the registered session under its id.
func (r *Registry) evict(s *Session) {
	r.mu.Lock()
	current, ok := r.sessions[s.id]
	if ok && current == s {
		delete(r.sessions, s.id)
	}
	r.mu.Unlock()
	if ok && current == s {
		r.params.Metrics.SessionClosed()
	}
}
