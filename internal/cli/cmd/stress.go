package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bnema/focuscore/internal/cli/styles"
	"github.com/bnema/focuscore/internal/infrastructure/scenario"
)

const progressEvery = 250 // operations between progress updates

var (
	stressOpts     = scenario.DefaultStressOptions()
	stressProgress bool
)

var stressCmd = &cobra.Command{
	Use:   "stress",
	Short: "Hammer a focus manager from concurrent drivers",
	Long: `Run concurrent drivers against one headless focus manager while the event
pump runs. Drivers issue random focus requests (some across windows),
window activations, traversal and key strokes. Once every driver is done the
toolkit settles and the focus state is checked for consistency.

Examples:
  focusctl stress
  focusctl stress --drivers 32 --ops 2000 --seed 7
  focusctl --metrics stress --progress`,
	Args: cobra.NoArgs,
	RunE: runStress,
}

func init() {
	rootCmd.AddCommand(stressCmd)
	f := stressCmd.Flags()
	f.IntVar(&stressOpts.Windows, "windows", stressOpts.Windows, "number of top-level windows")
	f.IntVar(&stressOpts.Components, "components", stressOpts.Components, "lightweight components per window")
	f.IntVarP(&stressOpts.Drivers, "drivers", "d", stressOpts.Drivers, "concurrent drivers")
	f.IntVarP(&stressOpts.Ops, "ops", "n", stressOpts.Ops, "operations per driver")
	f.Uint64Var(&stressOpts.Seed, "seed", stressOpts.Seed, "random seed")
	f.BoolVarP(&stressProgress, "progress", "p", false, "show a spinner while running")
}

func runStress(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	ctx, stop := signal.NotifyContext(app.Ctx(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := stressOpts
	if app.Metrics != nil {
		opts.Metrics = app.Metrics
	}
	total := opts.Drivers * opts.Ops

	var (
		res *scenario.StressResult
		err error
	)
	if stressProgress {
		p := tea.NewProgram(
			styles.NewProgress(app.Theme, fmt.Sprintf("running %d operations", total)),
			tea.WithContext(ctx),
			tea.WithOutput(cmd.ErrOrStderr()),
		)
		opts.OnProgress = func(done int) {
			if done%progressEvery == 0 {
				p.Send(styles.ProgressMsg(fmt.Sprintf("%d/%d operations", done, total)))
			}
		}
		runCtx, cancel := context.WithCancel(ctx)
		done := make(chan struct{})
		go func() {
			defer close(done)
			res, err = scenario.Stress(runCtx, app.Config, opts)
			p.Send(styles.DoneMsg{Err: err})
		}()
		_, runErr := p.Run()
		// ctrl+c in the display stops the drivers too.
		cancel()
		<-done
		if runErr != nil && err == nil {
			return fmt.Errorf("progress display: %w", runErr)
		}
	} else {
		res, err = scenario.Stress(ctx, app.Config, opts)
	}
	if err != nil {
		return err
	}

	report := styles.StressReport{
		Drivers:    opts.Drivers,
		Operations: res.Operations,
		Granted:    res.Granted,
		Denied:     res.Denied,
		Errors:     res.Errors,
		Posted:     res.Stats.Posted,
		Dispatched: res.Stats.Dispatched,
		Elapsed:    res.Elapsed,
		Owner:      res.Final.FocusOwner.String(),
		Violations: res.Violations,
	}
	fmt.Fprint(cmd.OutOrStdout(), styles.NewStressRenderer(app.Theme).Render(report))
	if app.MetricsAddr() != "" {
		fmt.Fprintln(cmd.OutOrStdout(), app.Theme.Subtle.Render("  metrics at http://"+app.MetricsAddr()+"/metrics"))
	}
	if len(res.Violations) > 0 {
		return fmt.Errorf("%d focus state violations", len(res.Violations))
	}
	return nil
}
