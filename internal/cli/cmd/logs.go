package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/bnema/focuscore/internal/cli/styles"
)

const defaultLogsLines = 50

var (
	logsFollow bool
	logsLines  int
	logsRun    string
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View the focuscore log file",
	Long: `Show the end of the log file written when logging.file_dir is set.

Examples:
  focusctl logs                 # Last 50 lines
  focusctl logs -n 200 -r a7b3  # Last 200 lines of run ...a7b3
  focusctl logs -f              # Follow new lines`,
	Args: cobra.NoArgs,
	RunE: runLogs,
}

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "follow log output")
	logsCmd.Flags().IntVarP(&logsLines, "lines", "n", defaultLogsLines, "number of lines to show")
	logsCmd.Flags().StringVarP(&logsRun, "run", "r", "", "only show lines of runs whose ID ends with this")
}

func runLogs(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	dir := app.Config.Logging.FileDir
	if dir == "" {
		return fmt.Errorf("no log file: set logging.file_dir in %s", configFileHint())
	}
	path := filepath.Join(dir, "focuscore.log")
	out := cmd.OutOrStdout()

	lines, err := tailLines(path, logsLines, logsRun)
	if err != nil {
		return err
	}
	for _, line := range lines {
		fmt.Fprintln(out, colorizeLogLine(line, app.Theme))
	}
	if !logsFollow {
		return nil
	}

	ctx, stop := signal.NotifyContext(app.Ctx(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return followLog(ctx, path, out, app.Theme)
}

func configFileHint() string {
	if app != nil && app.ConfigManager.GetConfigFile() != "" {
		return app.ConfigManager.GetConfigFile()
	}
	return "the config file"
}

// tailLines returns the last n lines of path matching the run filter.
func tailLines(path string, n int, run string) (lines []string, retErr error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && retErr == nil {
			retErr = fmt.Errorf("close log file: %w", closeErr)
		}
	}()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !matchesRun(line, run) {
			continue
		}
		lines = append(lines, line)
		if n > 0 && len(lines) > n {
			lines = lines[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log file: %w", err)
	}
	return lines, nil
}

// followLog prints lines appended to path until ctx is done.
func followLog(ctx context.Context, path string, out io.Writer, theme *styles.Theme) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() { _ = file.Close() }()
	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("seek log file: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("watch log file: %w", err)
	}

	fmt.Fprintln(out, theme.Subtle.Render("Following logs... (Ctrl+C to stop)"))
	reader := bufio.NewReader(file)
	pending := ""
	flush := func() error {
		for {
			chunk, err := reader.ReadString('\n')
			pending += chunk
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return fmt.Errorf("read log file: %w", err)
			}
			line := strings.TrimSuffix(pending, "\n")
			pending = ""
			if matchesRun(line, logsRun) {
				fmt.Fprintln(out, colorizeLogLine(line, theme))
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Remove) {
				fmt.Fprintln(out, theme.Subtle.Render("log file rotated"))
				return nil
			}
			if err := flush(); err != nil {
				return err
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch log file: %w", err)
		}
	}
}

// logEntry is a parsed JSON log line.
type logEntry struct {
	Level     string `json:"level"`
	Time      string `json:"time"`
	Message   string `json:"message"`
	Component string `json:"component"`
	Run       string `json:"run"`
	Element   string `json:"element"`
	Error     string `json:"error"`
}

func matchesRun(line, run string) bool {
	if run == "" {
		return true
	}
	var entry logEntry
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		return false
	}
	return entry.Run != "" && strings.HasSuffix(entry.Run, run)
}

func colorizeLogLine(line string, theme *styles.Theme) string {
	var entry logEntry
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		return line
	}

	timeStr := entry.Time
	if t, err := time.Parse(time.RFC3339, entry.Time); err == nil {
		timeStr = t.Format("15:04:05")
	}

	var levelStr string
	switch entry.Level {
	case "error":
		levelStr = theme.ErrorStyle.Render("ERR")
	case "warn":
		levelStr = theme.WarningStyle.Render("WRN")
	case "info":
		levelStr = theme.Highlight.Render("INF")
	case "debug":
		levelStr = theme.Subtle.Render("DBG")
	case "trace":
		levelStr = theme.Subtle.Render("TRC")
	default:
		levelStr = entry.Level
	}

	parts := []string{theme.Subtle.Render(timeStr), levelStr}
	if entry.Component != "" {
		parts = append(parts, theme.Subtle.Render("["+entry.Component+"]"))
	}
	parts = append(parts, entry.Message)
	if entry.Element != "" {
		parts = append(parts, theme.Subtle.Render("element=")+entry.Element)
	}
	if entry.Error != "" {
		parts = append(parts, theme.ErrorStyle.Render(entry.Error))
	}
	return strings.Join(parts, " ")
}
