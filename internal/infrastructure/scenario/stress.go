package scenario

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bnema/focuscore/internal/application/port"
	"github.com/bnema/focuscore/internal/bootstrap"
	"github.com/bnema/focuscore/internal/domain/entity"
	"github.com/bnema/focuscore/internal/infrastructure/config"
	"github.com/bnema/focuscore/internal/infrastructure/headless"
	"github.com/bnema/focuscore/internal/logging"
	"github.com/bnema/focuscore/internal/ui/focus"
)

// StressOptions configures Stress.
type StressOptions struct {
	Windows    int
	Components int // lightweights per window
	Drivers    int
	Ops        int // per driver
	Seed       uint64
	Metrics    port.FocusMetrics
	// OnProgress is called after every operation with the running total.
	OnProgress func(done int)
}

// DefaultStressOptions returns a small but contended setup.
func DefaultStressOptions() StressOptions {
	return StressOptions{
		Windows:    3,
		Components: 4,
		Drivers:    8,
		Ops:        500,
		Seed:       1,
	}
}

// StressResult summarizes a stress run.
type StressResult struct {
	Operations int
	Granted    int
	Denied     int
	Errors     int
	Stats      headless.Stats
	Final      focus.Snapshot
	Elapsed    time.Duration
	// Violations lists focus state inconsistencies found once the toolkit
	// settled. Empty on success.
	Violations []string
}

type stressCounters struct {
	done, granted, denied, errs atomic.Int64
}

// Stress drives one headless manager from concurrent goroutines issuing
// random focus requests, activations, traversal and key strokes while the
// event pump runs, then settles the toolkit and checks the focus state.
func Stress(ctx context.Context, cfg *config.Config, opts StressOptions) (*StressResult, error) {
	if opts.Windows < 1 || opts.Components < 1 || opts.Drivers < 1 || opts.Ops < 0 {
		return nil, fmt.Errorf("stress: windows, components and drivers must be positive")
	}
	ctx = logging.WithComponent(ctx, "stress")
	log := logging.FromContext(ctx)
	start := time.Now()

	h, err := bootstrap.NewHeadless(ctx, bootstrap.HeadlessInput{Config: cfg, Metrics: opts.Metrics})
	if err != nil {
		return nil, err
	}
	defer h.Pump.Close()

	targets, windows, err := buildStressTree(h.Tree, opts.Windows, opts.Components)
	if err != nil {
		return nil, err
	}

	pumpCtx, stopPump := context.WithCancel(ctx)
	pumpDone := make(chan error, 1)
	go func() { pumpDone <- h.Pump.Run(pumpCtx) }()

	var c stressCounters
	g, gctx := errgroup.WithContext(ctx)
	for i := range opts.Drivers {
		rng := rand.New(rand.NewPCG(opts.Seed, uint64(i)))
		g.Go(func() error {
			for range opts.Ops {
				if err := gctx.Err(); err != nil {
					return err
				}
				stressOp(gctx, h, rng, targets, windows, &c)
				if opts.OnProgress != nil {
					opts.OnProgress(int(c.done.Load()))
				}
			}
			return nil
		})
	}
	driveErr := g.Wait()

	stopPump()
	if err := <-pumpDone; err != nil && !errors.Is(err, context.Canceled) {
		return nil, err
	}
	if driveErr != nil {
		return nil, driveErr
	}
	h.Settle()

	res := &StressResult{
		Operations: int(c.done.Load()),
		Granted:    int(c.granted.Load()),
		Denied:     int(c.denied.Load()),
		Errors:     int(c.errs.Load()),
		Stats:      h.Pump.Stats(),
		Final:      h.Manager().State().Snapshot(),
		Elapsed:    time.Since(start),
	}
	res.Violations = checkSettled(h)
	log.Info().
		Int("ops", res.Operations).
		Int("granted", res.Granted).
		Int("violations", len(res.Violations)).
		Dur("elapsed", res.Elapsed).
		Msg("stress finished")
	return res, nil
}

// buildStressTree creates windows W<i>, each holding a heavyweight P<i> with
// the lightweights C<i>.<j>.
func buildStressTree(tree *headless.Tree, windows, components int) ([]entity.ElementID, []entity.ElementID, error) {
	var targets, ws []entity.ElementID
	for i := range windows {
		w := entity.ElementID(fmt.Sprintf("W%d", i))
		p := entity.ElementID(fmt.Sprintf("P%d", i))
		specs := []headless.Spec{
			{ID: w, Kind: headless.KindFrame},
			{ID: p, Parent: w, Kind: headless.KindHeavyweight},
		}
		for j := range components {
			specs = append(specs, headless.Spec{
				ID:     entity.ElementID(fmt.Sprintf("C%d.%d", i, j)),
				Parent: p,
				Kind:   headless.KindLightweight,
			})
		}
		for _, s := range specs {
			if err := tree.Add(s); err != nil {
				return nil, nil, err
			}
			if s.Kind != headless.KindFrame {
				targets = append(targets, s.ID)
			}
		}
		ws = append(ws, w)
	}
	return targets, ws, nil
}

func stressOp(ctx context.Context, h *bootstrap.Headless, rng *rand.Rand, targets, windows []entity.ElementID, c *stressCounters) {
	defer c.done.Add(1)
	m := h.Manager()

	var (
		ok  = true
		err error
	)
	switch n := rng.IntN(100); {
	case n < 55:
		ok, err = m.RequestFocus(ctx, targets[rng.IntN(len(targets))], focus.RequestOptions{})
	case n < 70:
		ok, err = m.RequestFocus(ctx, targets[rng.IntN(len(targets))], focus.RequestOptions{
			Temporary:           rng.IntN(2) == 0,
			WindowChangeAllowed: true,
		})
	case n < 78:
		err = h.Peer.Activate(ctx, windows[rng.IntN(len(windows))])
	case n < 90:
		h.Peer.Type(ctx, 'a'+rng.IntN(26), rune('a'+rng.IntN(26)))
	case n < 96:
		ok, err = m.FocusNextComponent(ctx, entity.None)
	default:
		err = m.ClearGlobalFocusOwner(ctx)
	}

	switch {
	case err != nil:
		c.errs.Add(1)
	case ok:
		c.granted.Add(1)
	default:
		c.denied.Add(1)
	}
}

// checkSettled reports focus state that is inconsistent once no events are
// pending.
func checkSettled(h *bootstrap.Headless) []string {
	var out []string
	m := h.Manager()
	snap := m.State().Snapshot()

	if n := m.Queue().Len(); n != 0 {
		out = append(out, fmt.Sprintf("%d focus requests still awaiting confirmation", n))
	}
	if owner := snap.FocusOwner; !owner.IsNone() {
		if !h.Tree.IsFocusable(owner) {
			out = append(out, fmt.Sprintf("focus owner %s is not focusable", owner))
		}
		if top := h.Tree.TopLevel(owner); top != snap.FocusedWindow {
			out = append(out, fmt.Sprintf("focus owner %s lives in %s, focused window is %s", owner, top, snap.FocusedWindow))
		}
	}
	if fw := snap.FocusedWindow; !fw.IsNone() && h.Tree.ActivatableWindow(fw) != snap.ActiveWindow {
		out = append(out, fmt.Sprintf("focused window %s is not owned by active window %s", fw, snap.ActiveWindow))
	}
	if held := h.Keys.Held(); held != 0 {
		out = append(out, fmt.Sprintf("%d key events still held", held))
	}
	return out
}
