package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/focuscore/internal/domain/entity"
	"github.com/bnema/focuscore/internal/infrastructure/config"
	"github.com/bnema/focuscore/internal/infrastructure/headless"
	"github.com/bnema/focuscore/internal/infrastructure/metrics"
	"github.com/bnema/focuscore/internal/ui/focus"
)

func newTestHeadless(t *testing.T, cfg *config.Config) *Headless {
	t.Helper()
	h, err := NewHeadless(context.Background(), HeadlessInput{Config: cfg})
	require.NoError(t, err)
	t.Cleanup(h.Pump.Close)

	for _, spec := range []headless.Spec{
		{ID: "W", Kind: headless.KindFrame},
		{ID: "P", Parent: "W", Kind: headless.KindHeavyweight},
		{ID: "A", Parent: "P", Kind: headless.KindLightweight},
		{ID: "B", Parent: "W", Kind: headless.KindLightweight},
	} {
		require.NoError(t, h.Tree.Add(spec))
	}
	return h
}

func TestNewHeadless_RejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Focus.RepairSweepThreshold = 0

	_, err := NewHeadless(context.Background(), HeadlessInput{Config: cfg})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "focus.repair_sweep_threshold")
}

func TestNewHeadless_ActivationFocusesDefaultComponent(t *testing.T) {
	ctx := context.Background()
	h := newTestHeadless(t, nil)
	m := h.Manager()
	assert.Same(t, m, h.Manager())

	require.NoError(t, h.Peer.Activate(ctx, "W"))
	assert.Positive(t, h.Settle())

	snap := m.State().Snapshot()
	assert.Equal(t, entity.ElementID("P"), snap.FocusOwner)
	assert.Equal(t, entity.ElementID("W"), snap.FocusedWindow)
	assert.Equal(t, entity.ElementID("W"), snap.ActiveWindow)
	assert.Zero(t, m.Queue().Len())
	assert.Equal(t, []string{"toolkit", "focus"}, h.Timer.Phases())
}

func TestHeadless_RemoveElementClearsOwner(t *testing.T) {
	ctx := context.Background()
	h := newTestHeadless(t, nil)
	m := h.Manager()

	require.NoError(t, h.Peer.Activate(ctx, "W"))
	h.Settle()
	ok, err := m.RequestFocus(ctx, "A", focus.RequestOptions{})
	require.NoError(t, err)
	require.True(t, ok)
	h.Settle()
	require.Equal(t, entity.ElementID("A"), m.State().Snapshot().FocusOwner)

	require.NoError(t, h.RemoveElement(ctx, "P"))
	h.Settle()
	assert.True(t, m.State().Snapshot().FocusOwner.IsNone())
	_, found := h.Tree.Lookup("A")
	assert.False(t, found)

	assert.ErrorIs(t, h.RemoveElement(ctx, "P"), headless.ErrUnknownElement)
}

func TestHeadless_ClearThenRequestSettles(t *testing.T) {
	ctx := context.Background()
	h := newTestHeadless(t, nil)
	m := h.Manager()

	require.NoError(t, h.Peer.Activate(ctx, "W"))
	h.Settle()
	require.Equal(t, entity.ElementID("P"), m.State().Snapshot().FocusOwner)

	require.NoError(t, m.ClearGlobalFocusOwner(ctx))
	assert.True(t, h.Peer.NativeFocusOwner().IsNone())
	ok, err := m.RequestFocus(ctx, "A", focus.RequestOptions{})
	require.NoError(t, err)
	require.True(t, ok)
	h.Settle()

	assert.Equal(t, entity.ElementID("A"), m.State().Snapshot().FocusOwner)
	assert.Equal(t, entity.ElementID("P"), h.Peer.NativeFocusOwner())
	assert.Zero(t, m.Queue().Len())
}

func TestHeadless_RestoreDuringReplayDrainsQueue(t *testing.T) {
	ctx := context.Background()
	h, err := NewHeadless(ctx, HeadlessInput{})
	require.NoError(t, err)
	t.Cleanup(h.Pump.Close)
	for _, spec := range []headless.Spec{
		{ID: "W", Kind: headless.KindFrame},
		{ID: "P", Parent: "W", Kind: headless.KindHeavyweight},
		{ID: "C1", Parent: "P", Kind: headless.KindLightweight},
		{ID: "C2", Parent: "P", Kind: headless.KindLightweight},
		{ID: "Q", Parent: "W", Kind: headless.KindHeavyweight},
	} {
		require.NoError(t, h.Tree.Add(spec))
	}
	m := h.Manager()

	require.NoError(t, h.Peer.Activate(ctx, "W"))
	h.Settle()
	ok, err := m.RequestFocus(ctx, "Q", focus.RequestOptions{})
	require.NoError(t, err)
	require.True(t, ok)
	h.Settle()
	require.Equal(t, entity.ElementID("Q"), m.State().Snapshot().FocusOwner)

	remove := m.OnVetoableChange(focus.PropFocusOwner, func(_ context.Context, c focus.PropertyChange) error {
		if c.New == entity.ElementID("C2") {
			return errors.New("C2 is locked")
		}
		return nil
	})

	// C2 rides on C1's native request and is replayed; its veto restores C1
	// from inside the replay.
	for _, id := range []entity.ElementID{"C1", "C2"} {
		ok, err := m.RequestFocus(ctx, id, focus.RequestOptions{})
		require.NoError(t, err)
		require.True(t, ok)
	}
	h.Settle()
	assert.Zero(t, m.Queue().Len())
	assert.NotEqual(t, entity.ElementID("C2"), m.State().Snapshot().FocusOwner)

	remove()
	ok, err = m.RequestFocus(ctx, "C2", focus.RequestOptions{})
	require.NoError(t, err)
	require.True(t, ok)
	h.Settle()
	assert.Equal(t, entity.ElementID("C2"), m.State().Snapshot().FocusOwner)
	assert.Zero(t, m.Queue().Len())
}

func TestNewHeadless_RecordsMetrics(t *testing.T) {
	ctx := context.Background()
	fm := metrics.New()
	h, err := NewHeadless(ctx, HeadlessInput{Metrics: fm})
	require.NoError(t, err)
	t.Cleanup(h.Pump.Close)
	require.NoError(t, h.Tree.Add(headless.Spec{ID: "W", Kind: headless.KindFrame}))
	require.NoError(t, h.Tree.Add(headless.Spec{ID: "A", Parent: "W", Kind: headless.KindLightweight}))

	require.NoError(t, h.Peer.Activate(ctx, "W"))
	h.Settle()

	families, err := fm.Registry().Gather()
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["focuscore_retarget_events_total"])
}

func TestFocusOptions(t *testing.T) {
	now := time.Unix(42, 0)
	cfg := config.FocusConfig{
		AutoFocusTransfer:       false,
		SyncLightweightRequests: true,
		RepairSweepThreshold:    7,
	}

	opts := FocusOptions(cfg, func(func()) {}, func() time.Time { return now })
	assert.False(t, opts.AutoFocusTransfer)
	assert.True(t, opts.SyncLightweightRequests)
	assert.Equal(t, 7, opts.RepairSweepThreshold)
	assert.Equal(t, now, opts.Clock())
}

func TestNewLogger(t *testing.T) {
	t.Run("json to writer", func(t *testing.T) {
		var buf bytes.Buffer
		logger, closer, err := NewLogger(config.LoggingConfig{Level: "warn", Format: config.LogFormatJSON}, &buf)
		require.NoError(t, err)
		defer closer.Close()

		logger.Info().Msg("quiet")
		logger.Warn().Msg("loud")
		assert.NotContains(t, buf.String(), "quiet")
		assert.Contains(t, buf.String(), `"message":"loud"`)
	})

	t.Run("with log file", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "logs")
		var buf bytes.Buffer
		logger, closer, err := NewLogger(config.LoggingConfig{
			Level:     "info",
			Format:    config.LogFormatConsole,
			FileDir:   dir,
			MaxSizeMB: 1,
		}, &buf)
		require.NoError(t, err)

		logger.Info().Msg("to both")
		require.NoError(t, closer.Close())

		data, err := os.ReadFile(filepath.Join(dir, "focuscore.log"))
		require.NoError(t, err)
		assert.Contains(t, string(data), `"message":"to both"`)
		assert.Contains(t, buf.String(), "to both")
	})
}

func TestPhaseTimer(t *testing.T) {
	timer := NewPhaseTimer()
	timer.Mark("load")
	timer.Mark("wire")
	timer.Mark("load")

	assert.Equal(t, []string{"load", "wire"}, timer.Phases())
	assert.GreaterOrEqual(t, timer.Total(), time.Duration(0))
	assert.NotPanics(t, func() { timer.Log(context.Background(), "done") })
}
