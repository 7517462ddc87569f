package styles

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// StressReport summarizes a concurrent stress run.
type StressReport struct {
	Drivers    int
	Operations int
	Granted    int
	Denied     int
	Errors     int
	Posted     uint64
	Dispatched uint64
	Elapsed    time.Duration
	Owner      string
	Violations []string
}

// StressRenderer renders stress reports.
type StressRenderer struct {
	theme *Theme
}

// NewStressRenderer creates a new stress renderer with the given theme.
func NewStressRenderer(theme *Theme) *StressRenderer {
	return &StressRenderer{theme: theme}
}

// Render renders the report as a key/value table followed by violations.
func (r *StressRenderer) Render(rep StressReport) string {
	rate := 0.0
	if rep.Elapsed > 0 {
		rate = float64(rep.Operations) / rep.Elapsed.Seconds()
	}
	rows := [][]string{
		{"drivers", strconv.Itoa(rep.Drivers)},
		{"operations", strconv.Itoa(rep.Operations)},
		{"granted", strconv.Itoa(rep.Granted)},
		{"denied", strconv.Itoa(rep.Denied)},
		{"errors", strconv.Itoa(rep.Errors)},
		{"events posted", strconv.FormatUint(rep.Posted, 10)},
		{"events dispatched", strconv.FormatUint(rep.Dispatched, 10)},
		{"elapsed", rep.Elapsed.Round(time.Millisecond).String()},
		{"ops/s", fmt.Sprintf("%.0f", rate)},
		{"final owner", rep.Owner},
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(r.theme.Border)).
		Rows(rows...).
		StyleFunc(func(_, col int) lipgloss.Style {
			if col == 0 {
				return r.theme.TableCell.Foreground(r.theme.Muted)
			}
			return r.theme.TableCell
		})

	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(lipgloss.NewStyle().MarginLeft(2).Render(t.String()))
	sb.WriteString("\n")
	if len(rep.Violations) == 0 {
		fmt.Fprintf(&sb, "\n  %s %s\n", r.theme.SuccessStyle.Render(IconCheck), r.theme.SuccessStyle.Render("focus state consistent"))
		return sb.String()
	}
	for _, v := range rep.Violations {
		fmt.Fprintf(&sb, "\n  %s %s", r.theme.ErrorStyle.Render(IconX), r.theme.ErrorStyle.Render(v))
	}
	sb.WriteString("\n")
	return sb.String()
}
