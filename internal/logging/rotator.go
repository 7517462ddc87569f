package logging

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	defaultLogFileName = "focuscore.log"
	logDirPerm         = 0o755
	logFilePerm        = 0o600
	backupTimeLayout   = "2006-01-02-15-04-05.000"
)

// RotatorConfig configures a Rotator.
type RotatorConfig struct {
	Dir      string
	FileName string // Defaults to focuscore.log
	// MaxSizeMB triggers a rotation once the file would grow past it; 0 never rotates.
	MaxSizeMB  int
	MaxBackups int // 0 keeps every backup
	MaxAgeDays int // 0 keeps backups forever
	Compress   bool
}

// Rotator is an io.Writer appending to a log file that is rotated by size.
// Rotated files are renamed with a timestamp suffix and optionally gzipped.
type Rotator struct {
	mu      sync.Mutex
	cfg     RotatorConfig
	maxSize int64
	maxAge  time.Duration
	file    *os.File
	size    int64
	now     func() time.Time
}

// NewRotator opens (or creates) the log file in cfg.Dir.
func NewRotator(cfg RotatorConfig) (*Rotator, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("log rotator: no directory")
	}
	if cfg.FileName == "" {
		cfg.FileName = defaultLogFileName
	}
	if err := os.MkdirAll(cfg.Dir, logDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	r := &Rotator{
		cfg:     cfg,
		maxSize: int64(cfg.MaxSizeMB) * 1024 * 1024,
		maxAge:  time.Duration(cfg.MaxAgeDays) * 24 * time.Hour,
		now:     time.Now,
	}
	if err := r.open(); err != nil {
		return nil, err
	}
	return r, nil
}

// Path returns the path of the active log file.
func (r *Rotator) Path() string {
	return filepath.Join(r.cfg.Dir, r.cfg.FileName)
}

func (r *Rotator) open() error {
	path := r.Path()
	if info, err := os.Stat(path); err == nil {
		r.size = info.Size()
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePerm)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	r.file = file
	return nil
}

func (r *Rotator) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		if err := r.open(); err != nil {
			return 0, err
		}
	}
	if r.maxSize > 0 && r.size > 0 && r.size+int64(len(p)) > r.maxSize {
		if err := r.rotate(); err != nil {
			return 0, err
		}
	}

	n, err := r.file.Write(p)
	r.size += int64(n)
	return n, err
}

// Must be called with r.mu held.
func (r *Rotator) rotate() error {
	if err := r.file.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to close log file: %v\n", err)
	}
	r.file = nil

	backup := fmt.Sprintf("%s.%s", r.Path(), r.now().Format(backupTimeLayout))
	if err := os.Rename(r.Path(), backup); err != nil {
		return fmt.Errorf("failed to rotate log file: %w", err)
	}
	if r.cfg.Compress {
		if err := gzipFile(backup); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to compress %s: %v\n", backup, err)
		} else if err := os.Remove(backup); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to remove %s: %v\n", backup, err)
		}
	}
	r.prune()

	r.size = 0
	return r.open()
}

func gzipFile(path string) (err error) {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(path+".gz", os.O_CREATE|os.O_WRONLY|os.O_TRUNC, logFilePerm)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	zw := gzip.NewWriter(out)
	if _, err := io.Copy(zw, in); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// Backups returns the rotated files, oldest first.
func (r *Rotator) Backups() []string {
	entries, err := os.ReadDir(r.cfg.Dir)
	if err != nil {
		return nil
	}
	prefix := r.cfg.FileName + "."
	var out []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), prefix) {
			out = append(out, e.Name())
		}
	}
	// The timestamp suffix sorts chronologically.
	sort.Strings(out)
	return out
}

// prune drops backups past MaxAgeDays, then the oldest past MaxBackups.
func (r *Rotator) prune() {
	now := r.now()
	var kept []string
	for _, name := range r.Backups() {
		path := filepath.Join(r.cfg.Dir, name)
		if r.maxAge > 0 {
			if info, err := os.Stat(path); err == nil && now.Sub(info.ModTime()) > r.maxAge {
				if err := os.Remove(path); err != nil {
					fmt.Fprintf(os.Stderr, "warning: failed to remove old log file: %v\n", err)
				}
				continue
			}
		}
		kept = append(kept, name)
	}

	if r.cfg.MaxBackups <= 0 || len(kept) <= r.cfg.MaxBackups {
		return
	}
	for _, name := range kept[:len(kept)-r.cfg.MaxBackups] {
		if err := os.Remove(filepath.Join(r.cfg.Dir, name)); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to remove excess log file: %v\n", err)
		}
	}
}

// Close closes the active log file.
func (r *Rotator) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}
