package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRotator(t *testing.T, cfg RotatorConfig) *Rotator {
	t.Helper()
	cfg.Dir = filepath.Join(t.TempDir(), "logs")
	r, err := NewRotator(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	// Distinct, increasing backup names.
	now := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	r.now = func() time.Time {
		now = now.Add(time.Second)
		return now
	}
	return r
}

func TestNewRotator_RequiresDir(t *testing.T) {
	_, err := NewRotator(RotatorConfig{})
	assert.Error(t, err)
}

func TestRotator_WritesActiveFile(t *testing.T) {
	r := newTestRotator(t, RotatorConfig{})

	_, err := r.Write([]byte("one\n"))
	require.NoError(t, err)
	assert.Equal(t, "focuscore.log", filepath.Base(r.Path()))

	data, err := os.ReadFile(r.Path())
	require.NoError(t, err)
	assert.Equal(t, "one\n", string(data))
	assert.Empty(t, r.Backups())
}

func TestRotator_RotatesBySize(t *testing.T) {
	r := newTestRotator(t, RotatorConfig{MaxSizeMB: 1, MaxBackups: 2})
	chunk := []byte(strings.Repeat("x", 700*1024))

	for range 4 {
		_, err := r.Write(chunk)
		require.NoError(t, err)
	}

	backups := r.Backups()
	assert.Len(t, backups, 2, "oldest backup pruned")
	for _, b := range backups {
		assert.True(t, strings.HasPrefix(b, "focuscore.log.2000-01-01-"), b)
	}
	info, err := os.Stat(r.Path())
	require.NoError(t, err)
	assert.Equal(t, int64(len(chunk)), info.Size())
}

func TestRotator_CompressesBackups(t *testing.T) {
	r := newTestRotator(t, RotatorConfig{MaxSizeMB: 1, Compress: true, FileName: "trace.log"})
	chunk := []byte(strings.Repeat("y", 800*1024))

	for range 2 {
		_, err := r.Write(chunk)
		require.NoError(t, err)
	}

	backups := r.Backups()
	require.Len(t, backups, 1)
	assert.True(t, strings.HasSuffix(backups[0], ".gz"), backups[0])
	assert.Equal(t, "trace.log", filepath.Base(r.Path()))
}

func TestRotator_WriteAfterCloseReopens(t *testing.T) {
	r := newTestRotator(t, RotatorConfig{})
	_, err := r.Write([]byte("a\n"))
	require.NoError(t, err)
	require.NoError(t, r.Close())
	require.NoError(t, r.Close())

	_, err = r.Write([]byte("b\n"))
	require.NoError(t, err)

	data, err := os.ReadFile(r.Path())
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", string(data))
}

func TestRunID(t *testing.T) {
	id := NewRunID(time.Date(2025, 12, 17, 20, 51, 6, 0, time.UTC))
	assert.Regexp(t, `^20251217_205106_[0-9a-f]{4}$`, id)
	assert.Equal(t, id[len(id)-4:], ShortRunID(id))
	assert.Equal(t, "ab", ShortRunID("ab"))
}
