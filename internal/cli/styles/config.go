package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ConfigRenderer renders config command output.
type ConfigRenderer struct {
	theme *Theme
}

// NewConfigRenderer creates a new config renderer with the given theme.
func NewConfigRenderer(theme *Theme) *ConfigRenderer {
	return &ConfigRenderer{theme: theme}
}

// RenderConfig renders the effective configuration. An empty path means
// no file was found and only defaults and environment apply.
func (r *ConfigRenderer) RenderConfig(path string, body []byte) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Accent)
	source := path
	if source == "" {
		source = "defaults (no config file)"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n  %s Config %s\n\n", iconStyle.Render(IconConfig), r.theme.Subtle.Render(source))
	for _, line := range strings.Split(strings.TrimRight(string(body), "\n"), "\n") {
		switch {
		case strings.HasPrefix(strings.TrimSpace(line), "["):
			sb.WriteString("  " + r.theme.Highlight.Render(line) + "\n")
		case line == "":
			sb.WriteString("\n")
		default:
			sb.WriteString("  " + r.theme.Normal.Render(line) + "\n")
		}
	}
	return sb.String()
}

// RenderWritten renders the success message after writing a file.
func (r *ConfigRenderer) RenderWritten(what, path string) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Success)
	return fmt.Sprintf("\n  %s Wrote %s to %s\n", iconStyle.Render(IconCheck), what, r.theme.Subtle.Render(path))
}

// RenderKept renders the message when an existing file was left alone.
func (r *ConfigRenderer) RenderKept(path string) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Warning)
	return fmt.Sprintf("\n  %s Kept existing %s\n", iconStyle.Render(IconInfo), r.theme.Subtle.Render(path))
}

// RenderError renders an error message.
func (r *ConfigRenderer) RenderError(err error) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Error)
	return fmt.Sprintf("\n  %s Config error: %v\n", iconStyle.Render(IconX), err)
}
