package styles

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/bnema/focuscore/internal/domain/entity"
	"github.com/bnema/focuscore/internal/infrastructure/headless"
	"github.com/bnema/focuscore/internal/infrastructure/scenario"
)

// ScenarioRenderer renders scenario results.
type ScenarioRenderer struct {
	theme *Theme
}

// NewScenarioRenderer creates a new scenario renderer with the given theme.
func NewScenarioRenderer(theme *Theme) *ScenarioRenderer {
	return &ScenarioRenderer{theme: theme}
}

// StatusBadge renders PASS or FAIL.
func (r *ScenarioRenderer) StatusBadge(passed bool) string {
	style := r.theme.Badge.Background(r.theme.Success)
	text := "PASS"
	if !passed {
		style = r.theme.Badge.Background(r.theme.Error)
		text = "FAIL"
	}
	return style.Render(text)
}

// RenderResult renders the outcome of one run: a status line, the failures
// and the final focus state.
func (r *ScenarioRenderer) RenderResult(res *scenario.Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\n  %s %s %s\n",
		r.StatusBadge(res.Passed()),
		r.theme.Title.Render(res.Name),
		r.theme.Subtle.Render(fmt.Sprintf("%d steps in %s (run %s)",
			res.Steps, res.Elapsed.Round(time.Microsecond), res.RunID)),
	)

	failIcon := lipgloss.NewStyle().Foreground(r.theme.Error).Render(IconX)
	for _, f := range res.Failures {
		fmt.Fprintf(&sb, "    %s %s %s\n",
			failIcon,
			r.theme.Subtle.Render(fmt.Sprintf("step %d (%s)", f.Step, f.Action)),
			r.theme.ErrorStyle.Render(f.Message),
		)
	}

	snap := res.Final
	fmt.Fprintf(&sb, "    %s %s  %s  %s  %s\n",
		lipgloss.NewStyle().Foreground(r.theme.Accent).Render(IconWindow),
		r.field("owner", snap.FocusOwner),
		r.field("permanent", snap.PermanentFocusOwner),
		r.field("window", snap.FocusedWindow),
		r.field("active", snap.ActiveWindow),
	)
	fmt.Fprintf(&sb, "    %s %s\n",
		lipgloss.NewStyle().Foreground(r.theme.Accent).Render(IconBolt),
		r.theme.Subtle.Render(fmt.Sprintf("%d posted, %d dispatched, %d listener failures",
			res.Stats.Posted, res.Stats.Dispatched, res.Stats.Failures)),
	)
	return sb.String()
}

func (r *ScenarioRenderer) field(name string, id entity.ElementID) string {
	return r.theme.Subtle.Render(name+"=") + r.theme.Highlight.Render(id.String())
}

// RenderTrace renders deliveries as a table.
func (r *ScenarioRenderer) RenderTrace(trace []headless.Delivery) string {
	if len(trace) == 0 {
		return r.theme.Subtle.Render("    (no deliveries)") + "\n"
	}

	rows := make([][]string, 0, len(trace))
	for _, d := range trace {
		rows = append(rows, []string{strconv.FormatUint(d.Seq, 10), d.Target.String(), describe(d)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(r.theme.Border)).
		Headers("#", "Target", "Event").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return r.theme.TableHeader
			}
			return r.theme.TableCell
		})
	return lipgloss.NewStyle().MarginLeft(4).Render(t.String()) + "\n"
}

func describe(d headless.Delivery) string {
	switch ev := d.Event.(type) {
	case entity.FocusEvent:
		return scenario.FormatFocus(ev)
	case entity.KeyEvent:
		return "key " + scenario.FormatKey(d.Target, ev)
	default:
		return fmt.Sprint(ev)
	}
}

// RenderSummary renders the totals of a batch of runs.
func (r *ScenarioRenderer) RenderSummary(passed, total int) string {
	style := r.theme.SuccessStyle
	icon := IconCheck
	if passed != total {
		style = r.theme.ErrorStyle
		icon = IconX
	}
	return fmt.Sprintf("\n  %s %s\n", style.Render(icon), style.Render(fmt.Sprintf("%d/%d scenarios passed", passed, total)))
}

// RenderError renders a scenario that could not run.
func (r *ScenarioRenderer) RenderError(path string, err error) string {
	return fmt.Sprintf("\n  %s %s %s\n",
		r.theme.ErrorStyle.Render(IconX),
		r.theme.Subtle.Render(path),
		r.theme.ErrorStyle.Render(err.Error()),
	)
}

// RenderWatching renders the hint shown while waiting for file changes.
func (r *ScenarioRenderer) RenderWatching(paths []string) string {
	return fmt.Sprintf("\n  %s %s\n",
		lipgloss.NewStyle().Foreground(r.theme.Accent).Render(IconClock),
		r.theme.Subtle.Render("watching "+strings.Join(paths, ", ")+" (ctrl+c to stop)"),
	)
}
