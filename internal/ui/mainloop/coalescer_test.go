package mainloop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type taskKey uint8

const (
	replayKey taskKey = iota + 1
	activateKey
)

func newTestCoalescer() (*Coalescer[taskKey], *[]func()) {
	scheduled := make([]func(), 0, 8)
	return NewCoalescer[taskKey](func(fn func()) { scheduled = append(scheduled, fn) }), &scheduled
}

func TestCoalescer_MergesBurstIntoLatestCallback(t *testing.T) {
	c, scheduled := newTestCoalescer()

	value := 0
	for i := 1; i <= 5; i++ {
		c.Post(replayKey, func() { value = i })
	}
	require.Len(t, *scheduled, 1)
	assert.Equal(t, uint64(4), c.Merged())
	assert.True(t, c.Pending(replayKey))

	(*scheduled)[0]()
	assert.Equal(t, 5, value)
	assert.False(t, c.Pending(replayKey))

	assert.True(t, c.Post(replayKey, func() {}), "a new burst schedules again")
	assert.Len(t, *scheduled, 2)
}

func TestCoalescer_KeysAreIndependent(t *testing.T) {
	c, scheduled := newTestCoalescer()

	var ran []taskKey
	assert.True(t, c.Post(replayKey, func() { ran = append(ran, replayKey) }))
	assert.True(t, c.Post(activateKey, func() { ran = append(ran, activateKey) }))
	for _, fn := range *scheduled {
		fn()
	}
	assert.Equal(t, []taskKey{replayKey, activateKey}, ran)
}

func TestCoalescer_RejectsZeroKeyAndNilPost(t *testing.T) {
	c, scheduled := newTestCoalescer()
	assert.False(t, c.Post(0, func() {}))
	assert.Empty(t, *scheduled)

	assert.True(t, c.Post(replayKey, nil), "nil callbacks are allowed")
	(*scheduled)[0]()

	assert.Panics(t, func() { NewCoalescer[taskKey](nil) })
}

func TestCoalescer_DestroyDropsWork(t *testing.T) {
	c, scheduled := newTestCoalescer()

	ran := false
	c.Post(replayKey, func() { ran = true })
	c.Destroy()
	require.Len(t, *scheduled, 1)
	(*scheduled)[0]()
	assert.False(t, ran)

	assert.False(t, c.Post(replayKey, func() { ran = true }))
	assert.Len(t, *scheduled, 1)
	assert.False(t, c.Pending(replayKey))
}
