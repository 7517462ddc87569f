package focus

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/bnema/focuscore/internal/application/port"
	"github.com/bnema/focuscore/internal/domain/entity"
	"github.com/bnema/focuscore/internal/logging"
)

// Factory builds the default manager of a context.
type Factory func(ctxID entity.ContextID) (*Manager, error)

// Registry maps isolation contexts to their focus managers. Managers are
// created on first use.
type Registry struct {
	mu       sync.Mutex
	managers map[entity.ContextID]*Manager
	factory  Factory
	auth     port.Authorizer
}

// NewRegistry creates a registry building managers with factory. auth may be nil.
func NewRegistry(factory Factory, auth port.Authorizer) *Registry {
	return &Registry{
		managers: make(map[entity.ContextID]*Manager),
		factory:  factory,
		auth:     auth,
	}
}

// Get returns the manager of ctxID, creating it if needed.
func (r *Registry) Get(ctxID entity.ContextID) (*Manager, error) {
	if ctxID == "" {
		ctxID = entity.DefaultContext
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.managers[ctxID]; ok {
		return m, nil
	}
	m, err := r.factory(ctxID)
	if err != nil {
		return nil, fmt.Errorf("create focus manager for %s: %w", ctxID, err)
	}
	r.managers[ctxID] = m
	return m, nil
}

// Install replaces the manager of ctxID with m, or with a fresh default
// manager when m is nil. The replaced manager announces it stopped managing
// focus and is disposed; m announces it took over.
func (r *Registry) Install(ctx context.Context, ctxID entity.ContextID, m *Manager) error {
	if ctxID == "" {
		ctxID = entity.DefaultContext
	}
	if r.auth != nil {
		if err := r.auth.Authorize(ctx, port.ActionInstallManager); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrUnauthorized, port.ActionInstallManager, err)
		}
	}
	if m == nil {
		var err error
		if m, err = r.factory(ctxID); err != nil {
			return fmt.Errorf("create focus manager for %s: %w", ctxID, err)
		}
	}

	r.mu.Lock()
	old := r.managers[ctxID]
	r.managers[ctxID] = m
	r.mu.Unlock()

	if old == m {
		return nil
	}
	ctx = logging.WithContextID(ctx, ctxID)
	if old != nil {
		old.State().SetManagingFocus(ctx, false)
		old.Dispose()
	}
	m.State().SetManagingFocus(ctx, true)
	logging.FromContext(ctx).Info().Msg("focus manager installed")
	return nil
}

// Remove disposes the manager of ctxID and forgets the context.
func (r *Registry) Remove(ctx context.Context, ctxID entity.ContextID) bool {
	r.mu.Lock()
	m, ok := r.managers[ctxID]
	delete(r.managers, ctxID)
	r.mu.Unlock()

	if !ok {
		return false
	}
	m.State().SetManagingFocus(ctx, false)
	m.Dispose()
	return true
}

// Contexts lists the contexts that have a manager, sorted.
func (r *Registry) Contexts() []entity.ContextID {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]entity.ContextID, 0, len(r.managers))
	for id := range r.managers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
