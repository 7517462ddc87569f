// Package bootstrap wires the focus core to its collaborators.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/bnema/focuscore/internal/application/port"
	"github.com/bnema/focuscore/internal/domain/entity"
	"github.com/bnema/focuscore/internal/infrastructure/config"
	"github.com/bnema/focuscore/internal/infrastructure/headless"
	"github.com/bnema/focuscore/internal/logging"
	"github.com/bnema/focuscore/internal/ui/focus"
	"github.com/bnema/focuscore/internal/ui/input"
	"github.com/bnema/focuscore/internal/ui/mainloop"
)

// NewLogger builds the process logger from the logging section. When a log
// directory is configured the returned closer releases the log file.
func NewLogger(cfg config.LoggingConfig, out io.Writer) (zerolog.Logger, io.Closer, error) {
	lc := logging.DefaultConfig()
	lc.Level = logging.ParseLevel(cfg.Level)
	lc.Format = string(cfg.Format)
	lc.Output = out

	var closer io.Closer = nopCloser{}
	if cfg.FileDir != "" {
		rot, err := logging.NewRotator(logging.RotatorConfig{
			Dir:        cfg.FileDir,
			MaxSizeMB:  cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAgeDays: cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		})
		if err != nil {
			return zerolog.Nop(), nil, err
		}
		lc.File = rot
		closer = rot
	}
	return logging.New(lc), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// FocusOptions maps the focus section onto manager options.
func FocusOptions(cfg config.FocusConfig, post func(func()), clock func() time.Time) focus.Options {
	opts := focus.DefaultOptions(post)
	opts.AutoFocusTransfer = cfg.AutoFocusTransfer
	opts.SyncLightweightRequests = cfg.SyncLightweightRequests
	opts.RepairSweepThreshold = cfg.RepairSweepThreshold
	opts.Clock = clock
	return opts
}

// HeadlessInput configures NewHeadless.
type HeadlessInput struct {
	Config     *config.Config
	Metrics    port.FocusMetrics
	Authorizer port.Authorizer
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Headless is a focus manager registry running on the in-memory toolkit.
type Headless struct {
	Tree     *headless.Tree
	Peer     *headless.Peer
	Sink     *headless.Sink
	Pump     *headless.Pump
	Keys     *input.TypeAhead
	Registry *focus.Registry
	Timer    *PhaseTimer
}

// NewHeadless wires the toolkit, the type-ahead queue and the registry. All
// isolation contexts share the toolkit; the pump feeds the default context.
func NewHeadless(ctx context.Context, in HeadlessInput) (*Headless, error) {
	cfg := in.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	clock := in.Clock
	if clock == nil {
		clock = time.Now
	}

	timer := NewPhaseTimer()
	loop := mainloop.NewQueue()
	pump := headless.NewPump(loop)
	tree := headless.NewTree()
	h := &Headless{
		Tree:  tree,
		Peer:  headless.NewPeer(tree, pump, clock),
		Sink:  headless.NewSink(cfg.Headless.EventBuffer),
		Pump:  pump,
		Timer: timer,
		Keys: input.NewTypeAhead(ctx,
			input.WithTimeout(cfg.Focus.TypeAheadTimeout()),
			input.WithClock(clock),
		),
	}
	timer.Mark("toolkit")

	opts := FocusOptions(cfg.Focus, pump.Post, clock)
	h.Registry = focus.NewRegistry(func(ctxID entity.ContextID) (*focus.Manager, error) {
		return focus.NewManager(ctxID, focus.Deps{
			Tree:       h.Tree,
			Peer:       h.Peer,
			Keys:       h.Keys,
			Sink:       h.Sink,
			Poster:     h.Pump,
			Authorizer: in.Authorizer,
			Metrics:    in.Metrics,
		}, opts)
	}, in.Authorizer)

	m, err := h.Registry.Get(entity.DefaultContext)
	if err != nil {
		return nil, fmt.Errorf("create default focus manager: %w", err)
	}
	m.State().SetManagingFocus(ctx, true)
	pump.Bind(defaultContext{h.Registry})
	timer.Mark("focus")
	timer.Log(ctx, "headless toolkit ready")
	return h, nil
}

// Manager returns the default context's manager.
func (h *Headless) Manager() *focus.Manager {
	m, _ := h.Registry.Get(entity.DefaultContext)
	return m
}

// Settle runs queued events and main-loop tasks until the toolkit is idle.
func (h *Headless) Settle() int {
	return h.Pump.Drain()
}

// RemoveElement removes id and its subtree from the tree and tells the
// native layer and the focus manager about every removed element.
func (h *Headless) RemoveElement(ctx context.Context, id entity.ElementID) error {
	removed, err := h.Tree.Remove(id)
	if err != nil {
		return err
	}
	h.Peer.Forget(ctx, removed...)
	m := h.Manager()
	for _, r := range removed {
		if err := m.ElementDestroyed(ctx, r); err != nil {
			return fmt.Errorf("remove %s: %w", r, err)
		}
	}
	return nil
}

// defaultContext routes pumped events to whichever manager currently serves
// the default context.
type defaultContext struct {
	registry *focus.Registry
}

func (d defaultContext) Dispatch(ctx context.Context, ev entity.Event) error {
	m, err := d.registry.Get(entity.DefaultContext)
	if err != nil {
		return err
	}
	return m.Dispatch(ctx, ev)
}
