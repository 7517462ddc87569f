package styles_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/focuscore/internal/cli/styles"
	"github.com/bnema/focuscore/internal/domain/entity"
)

func testTheme() *styles.Theme {
	return styles.NewTheme()
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestConfirmModel(t *testing.T) {
	tests := []struct {
		name       string
		keys       []tea.KeyMsg
		wantDone   bool
		wantResult bool
	}{
		{name: "defaults to no", keys: []tea.KeyMsg{{Type: tea.KeyEnter}}, wantDone: true},
		{name: "yes then enter", keys: []tea.KeyMsg{runes("y"), {Type: tea.KeyEnter}}, wantDone: true, wantResult: true},
		{name: "toggle twice", keys: []tea.KeyMsg{{Type: tea.KeyTab}, {Type: tea.KeyTab}, {Type: tea.KeyEnter}}, wantDone: true},
		{name: "escape cancels a yes", keys: []tea.KeyMsg{runes("y"), {Type: tea.KeyEsc}}, wantDone: true},
		{name: "no key pressed yet", keys: []tea.KeyMsg{runes("y")}, wantDone: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m tea.Model = styles.NewConfirm(testTheme(), "Replace config.toml?")
			var cmd tea.Cmd
			for _, k := range tt.keys {
				m, cmd = m.Update(k)
			}
			confirm := m.(styles.ConfirmModel)
			assert.Equal(t, tt.wantDone, confirm.Done())
			assert.Equal(t, tt.wantResult, confirm.Result())
			if tt.wantDone {
				require.NotNil(t, cmd)
				assert.Empty(t, confirm.View())
			} else {
				assert.Contains(t, confirm.View(), "Replace config.toml?")
			}
		})
	}
}

func TestProgressModel(t *testing.T) {
	var m tea.Model = styles.NewProgress(testTheme(), "starting")
	require.NotNil(t, m.Init())

	m, _ = m.Update(styles.ProgressMsg("120/500 operations"))
	assert.Contains(t, m.View(), "120/500 operations")

	boom := errors.New("boom")
	m, cmd := m.Update(styles.DoneMsg{Err: boom})
	require.NotNil(t, cmd)
	progress := m.(styles.ProgressModel)
	assert.ErrorIs(t, progress.Err, boom)
	assert.Empty(t, progress.View())
}

func TestConfigRenderer(t *testing.T) {
	r := styles.NewConfigRenderer(testTheme())

	out := r.RenderConfig("", []byte("[focus]\nrepair_sweep_threshold = 3\n"))
	assert.Contains(t, out, "defaults (no config file)")
	assert.Contains(t, out, "[focus]")
	assert.Contains(t, out, "repair_sweep_threshold = 3")

	assert.Contains(t, r.RenderWritten("schema", "/tmp/x/config.schema.json"), "Wrote schema to")
	assert.Contains(t, r.RenderKept("/tmp/x/config.toml"), "Kept existing")
	assert.Contains(t, r.RenderError(errors.New("bad toml")), "bad toml")
}

func TestConfigSchemaRenderer(t *testing.T) {
	r := styles.NewConfigSchemaRenderer(testTheme())
	keys := []entity.ConfigKeyInfo{
		{Key: "focus.typeahead_timeout_ms", Type: "int", Default: "0", Description: "marker timeout", Range: ">=0", Section: "Focus"},
		{Key: "logging.format", Type: "string", Default: "console", Description: "encoder", Values: []string{"console", "json"}, Section: "Logging"},
		{Key: "logging.file_dir", Type: "string", Description: "log dir", Section: "Logging"},
	}

	out := r.Render(keys)
	for _, want := range []string{"Focus", "Logging", "Range: >=0", "Values: console, json", `""`} {
		assert.Contains(t, out, want)
	}
	assert.Less(t, strings.Index(out, "Focus"), strings.Index(out, "Logging"), "sections keep first-seen order")
	assert.Contains(t, r.Render(nil), "No configuration keys found")

	js, err := r.RenderJSON(keys)
	require.NoError(t, err)
	assert.Contains(t, js, `"key": "logging.format"`)
	assert.NotContains(t, js, `"range": ""`)
}

func TestStressRenderer(t *testing.T) {
	r := styles.NewStressRenderer(testTheme())
	rep := styles.StressReport{Drivers: 2, Operations: 50, Granted: 30, Elapsed: time.Second, Owner: "C0.1"}

	out := r.Render(rep)
	assert.Contains(t, out, "C0.1")
	assert.Contains(t, out, "focus state consistent")

	rep.Violations = []string{"2 requests still pending"}
	out = r.Render(rep)
	assert.Contains(t, out, "2 requests still pending")
	assert.NotContains(t, out, "focus state consistent")
}

