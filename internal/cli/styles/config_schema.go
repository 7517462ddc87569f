package styles

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/focuscore/internal/domain/entity"
)

// ConfigSchemaRenderer renders the documented configuration keys.
type ConfigSchemaRenderer struct {
	theme *Theme
}

// NewConfigSchemaRenderer creates a new ConfigSchemaRenderer.
func NewConfigSchemaRenderer(theme *Theme) *ConfigSchemaRenderer {
	return &ConfigSchemaRenderer{theme: theme}
}

// Render groups keys by section, in the order sections first appear.
func (r *ConfigSchemaRenderer) Render(keys []entity.ConfigKeyInfo) string {
	if len(keys) == 0 {
		return r.theme.Subtle.Render("No configuration keys found") + "\n"
	}

	var order []string
	sections := make(map[string][]entity.ConfigKeyInfo)
	for _, key := range keys {
		if _, seen := sections[key.Section]; !seen {
			order = append(order, key.Section)
		}
		sections[key.Section] = append(sections[key.Section], key)
	}

	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Accent)
	parts := []string{
		fmt.Sprintf("%s %s", iconStyle.Render(IconConfig), r.theme.Title.Render("Config Keys")),
		"",
	}
	for _, name := range order {
		parts = append(parts, r.renderSection(name, sections[name]), "")
	}
	return strings.Join(parts, "\n")
}

// RenderJSON renders the keys as indented JSON.
func (*ConfigSchemaRenderer) RenderJSON(keys []entity.ConfigKeyInfo) (string, error) {
	data, err := json.MarshalIndent(keys, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal config keys: %w", err)
	}
	return string(data) + "\n", nil
}

func (r *ConfigSchemaRenderer) renderSection(name string, keys []entity.ConfigKeyInfo) string {
	lines := []string{r.theme.Highlight.Render(name)}
	for _, key := range keys {
		lines = append(lines, r.renderKey(key))
	}
	return r.theme.Box.PaddingTop(0).Render(strings.Join(lines, "\n"))
}

func (r *ConfigSchemaRenderer) renderKey(key entity.ConfigKeyInfo) string {
	def := key.Default
	if def == "" {
		def = `""`
	}
	head := fmt.Sprintf("%s  %s  %s",
		r.theme.Normal.Bold(true).Render(key.Key),
		r.theme.Subtle.Render(key.Type),
		lipgloss.NewStyle().Foreground(r.theme.Accent).Render(def),
	)
	out := head + "\n  " + r.theme.Subtle.Render(key.Description)
	switch {
	case len(key.Values) > 0:
		out += "\n  " + r.theme.Normal.Render("Values: "+strings.Join(key.Values, ", "))
	case key.Range != "":
		out += "\n  " + r.theme.Normal.Render("Range: "+key.Range)
	}
	return out
}
