package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteConfigOrdered(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := DefaultConfig()
	cfg.Focus.SyncLightweightRequests = true

	require.NoError(t, WriteConfigOrdered(cfg, path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var sections []string
	for _, line := range strings.Split(string(content), "\n") {
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			sections = append(sections, line)
		}
	}
	assert.Equal(t, []string{"[focus]", "[headless]", "[logging]", "[metrics]"}, sections)

	var back Config
	require.NoError(t, toml.Unmarshal(content, &back))
	assert.Equal(t, *cfg, back)

	mgr, err := NewManager(path)
	require.NoError(t, err)
	require.NoError(t, mgr.Load())
	assert.Equal(t, cfg, mgr.Get())
}

func TestWriteConfigOrdered_NilConfig(t *testing.T) {
	assert.Error(t, WriteConfigOrdered(nil, filepath.Join(t.TempDir(), "x.toml")))
}

func TestSortTOMLSections(t *testing.T) {
	input := `title = 'x'

[zeta]
  a = 1

[alpha]
  b = 2
`
	want := `title = 'x'

[alpha]
  b = 2

[zeta]
  a = 1
`
	assert.Equal(t, want, sortTOMLSections(input))
}
