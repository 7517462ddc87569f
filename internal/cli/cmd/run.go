package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/bnema/focuscore/internal/cli"
	"github.com/bnema/focuscore/internal/cli/styles"
	"github.com/bnema/focuscore/internal/infrastructure/config"
	"github.com/bnema/focuscore/internal/infrastructure/scenario"
	"github.com/bnema/focuscore/internal/logging"
)

const watchDebounce = 150 * time.Millisecond

var (
	runTrace bool
	runWatch bool
)

// errScenariosFailed makes the process exit non-zero without printing usage.
var errScenariosFailed = errors.New("scenarios failed")

var runCmd = &cobra.Command{
	Use:   "run <scenario.toml>...",
	Short: "Run focus scenarios on the headless toolkit",
	Long: `Run one or more scenario files. Each scenario declares a component tree,
optional listeners and vetoes, and a list of steps: focus requests, window
activation, typed keys, traversal and expectations on the resulting focus
state and delivered events.

Examples:
  focusctl run testdata/typeahead.toml
  focusctl run --trace scenarios/*.toml
  focusctl run --watch scenarios/cross_window.toml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScenarios,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVarP(&runTrace, "trace", "t", false, "print every delivered event")
	runCmd.Flags().BoolVarP(&runWatch, "watch", "w", false, "rerun scenarios when they or the config change")
}

func runScenarios(cmd *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	ctx, stop := signal.NotifyContext(app.Ctx(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	renderer := styles.NewScenarioRenderer(app.Theme)

	passed := runBatch(ctx, app, app.Config, renderer, out, args)
	if !runWatch {
		fmt.Fprint(out, renderer.RenderSummary(passed, len(args)))
		if passed != len(args) {
			return errScenariosFailed
		}
		return nil
	}
	return watchScenarios(ctx, app, renderer, out, args)
}

func runBatch(ctx context.Context, app *cli.App, cfg *config.Config, r *styles.ScenarioRenderer, out io.Writer, paths []string) int {
	var opts []scenario.RunnerOption
	if app.Metrics != nil {
		opts = append(opts, scenario.WithMetrics(app.Metrics))
	}
	runner := scenario.NewRunner(cfg, opts...)

	passed := 0
	for _, path := range paths {
		res, err := runOne(ctx, runner, path)
		if err != nil {
			fmt.Fprint(out, r.RenderError(path, err))
			continue
		}
		fmt.Fprint(out, r.RenderResult(res))
		if runTrace {
			fmt.Fprint(out, r.RenderTrace(res.Trace))
		}
		if res.Passed() {
			passed++
		}
	}
	return passed
}

func runOne(ctx context.Context, runner *scenario.Runner, path string) (*scenario.Result, error) {
	sc, err := scenario.Load(path)
	if err != nil {
		return nil, err
	}
	return runner.Run(ctx, sc)
}

// watchScenarios reruns a scenario when its file is written and every
// scenario when the config file is reloaded. Parent directories are watched
// so editors that replace files by rename are picked up.
func watchScenarios(ctx context.Context, app *cli.App, r *styles.ScenarioRenderer, out io.Writer, paths []string) error {
	log := logging.FromContext(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	tracked := make(map[string]string, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		tracked[abs] = p
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	configChanged := make(chan *config.Config, 1)
	if app.ConfigManager.GetConfigFile() != "" {
		app.ConfigManager.OnConfigChange(func(cfg *config.Config) {
			select {
			case configChanged <- cfg:
			default:
			}
		})
		if err := app.ConfigManager.Watch(); err != nil {
			log.Warn().Err(err).Msg("config changes will not trigger reruns")
		}
	}

	cfg := app.Config
	pending := make(map[string]bool)
	var debounce <-chan time.Time
	fmt.Fprint(out, r.RenderWatching(paths))

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watcher error")
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			p, isTracked := tracked[filepath.Clean(ev.Name)]
			if !isTracked || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			pending[p] = true
			debounce = time.After(watchDebounce)
		case next := <-configChanged:
			log.Info().Msg("config reloaded, rerunning all scenarios")
			cfg = next
			for _, p := range paths {
				pending[p] = true
			}
			debounce = time.After(watchDebounce)
		case <-debounce:
			debounce = nil
			batch := make([]string, 0, len(pending))
			for _, p := range paths {
				if pending[p] {
					batch = append(batch, p)
				}
			}
			clear(pending)
			runBatch(ctx, app, cfg, r, out, batch)
			fmt.Fprint(out, r.RenderWatching(paths))
		}
	}
}
