package focus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/focuscore/internal/application/port"
	"github.com/bnema/focuscore/internal/application/port/mocks"
	"github.com/bnema/focuscore/internal/domain/entity"
)

func testFactory(t *testing.T) (Factory, *int) {
	t.Helper()
	created := 0
	return func(ctxID entity.ContextID) (*Manager, error) {
		created++
		tree := singleWindow()
		return NewManager(ctxID, Deps{
			Tree:   tree,
			Peer:   &fakePeer{tree: tree},
			Sink:   &recordingSink{},
			Poster: port.EventPosterFunc(func(context.Context, entity.Event) {}),
		}, DefaultOptions(func(func()) {}))
	}, &created
}

func TestRegistry_GetCreatesOnce(t *testing.T) {
	factory, created := testFactory(t)
	r := NewRegistry(factory, nil)

	a, err := r.Get("")
	require.NoError(t, err)
	b, err := r.Get(entity.DefaultContext)
	require.NoError(t, err)
	c, err := r.Get("applet-1")
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, 2, *created)
	assert.Equal(t, entity.ContextID("applet-1"), c.ContextID())
	assert.Equal(t, []entity.ContextID{"applet-1", entity.DefaultContext}, r.Contexts())
}

func TestRegistry_GetPropagatesFactoryError(t *testing.T) {
	r := NewRegistry(func(entity.ContextID) (*Manager, error) {
		return nil, errors.New("no display")
	}, nil)

	_, err := r.Get("x")
	assert.ErrorContains(t, err, "no display")
	assert.Empty(t, r.Contexts())
}

func TestRegistry_InstallHandsOverFocusManagement(t *testing.T) {
	ctx := context.Background()
	factory, _ := testFactory(t)
	r := NewRegistry(factory, nil)

	old, err := r.Get("")
	require.NoError(t, err)
	var oldManaging []any
	old.OnChange(PropManagingFocus, func(_ context.Context, c PropertyChange) {
		oldManaging = append(oldManaging, c.New)
	})

	replacement, err := factory(entity.DefaultContext)
	require.NoError(t, err)
	var newManaging []any
	replacement.OnChange(PropManagingFocus, func(_ context.Context, c PropertyChange) {
		newManaging = append(newManaging, c.New)
	})

	require.NoError(t, r.Install(ctx, "", replacement))

	current, err := r.Get("")
	require.NoError(t, err)
	assert.Same(t, replacement, current)
	assert.Equal(t, []any{false}, oldManaging)
	assert.Equal(t, []any{true}, newManaging)
	assert.True(t, old.Disposed())
	assert.False(t, replacement.Disposed())

	require.NoError(t, r.Install(ctx, "", replacement), "reinstalling the same manager is a no-op")
	assert.Equal(t, []any{true}, newManaging)
}

func TestRegistry_InstallNilUsesFactory(t *testing.T) {
	factory, created := testFactory(t)
	r := NewRegistry(factory, nil)

	require.NoError(t, r.Install(context.Background(), "ctx", nil))

	assert.Equal(t, 1, *created)
	assert.Equal(t, []entity.ContextID{"ctx"}, r.Contexts())
}

func TestRegistry_InstallRequiresAuthorization(t *testing.T) {
	auth := mocks.NewMockAuthorizer(t)
	auth.EXPECT().Authorize(mock.Anything, port.ActionInstallManager).Return(errors.New("denied")).Once()
	factory, created := testFactory(t)
	r := NewRegistry(factory, auth)

	err := r.Install(context.Background(), "ctx", nil)

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Zero(t, *created)
	assert.Empty(t, r.Contexts())
}

func TestRegistry_Remove(t *testing.T) {
	factory, _ := testFactory(t)
	r := NewRegistry(factory, nil)
	m, err := r.Get("ctx")
	require.NoError(t, err)

	assert.True(t, r.Remove(context.Background(), "ctx"))
	assert.True(t, m.Disposed())
	assert.False(t, r.Remove(context.Background(), "ctx"))
	assert.Empty(t, r.Contexts())
}
