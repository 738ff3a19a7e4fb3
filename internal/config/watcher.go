package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"pomo/internal/logfields"
)

// DefaultDebounce coalesces bursts of editor writes into one reload.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reloads config.yaml when it or the .env file next to it changes
// and hands the new settings, environment overrides applied, to a callback.
// Invalid files are logged and skipped.
type Watcher struct {
	path     string
	onChange func(Settings)
	debounce time.Duration

	watcher  *fsnotify.Watcher
	reloadCh chan struct{}
	stopOnce sync.Once
	stopCh   chan struct{}
	done     sync.WaitGroup
}

// NewWatcher creates a watcher for the config file at path.
func NewWatcher(path string, debounce time.Duration, onChange func(Settings)) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &Watcher{
		path:     absPath,
		onChange: onChange,
		debounce: debounce,
		watcher:  w,
		reloadCh: make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
	}, nil
}

// Start watches the directory containing the config file. Watching the
// directory survives editors that replace the file on save.
func (w *Watcher) Start(ctx context.Context) error {
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch config directory %s: %w", dir, err)
	}
	slog.Debug("Watching config file", logfields.Path(w.path))

	w.done.Add(2)
	go w.watchLoop(ctx)
	go w.reloadLoop(ctx)
	return nil
}

// Stop ends watching and waits for the loops to exit.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopCh)
		err = w.watcher.Close()
		w.done.Wait()
	})
	return err
}

func (w *Watcher) watchLoop(ctx context.Context) {
	defer w.done.Done()
	name := filepath.Base(w.path)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if base := filepath.Base(event.Name); base != name && base != EnvFile {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				slog.Debug("Config file changed", logfields.Path(event.Name), slog.String("op", event.Op.String()))
				w.trigger()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("Config watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) reloadLoop(ctx context.Context) {
	defer w.done.Done()
	var timer *time.Timer
	fire := make(chan struct{}, 1)
	stop := func() {
		if timer != nil {
			timer.Stop()
		}
	}

	for {
		select {
		case <-ctx.Done():
			stop()
			return
		case <-w.stopCh:
			stop()
			return
		case <-w.reloadCh:
			stop()
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case <-fire:
			w.reload()
		}
	}
}

func (w *Watcher) trigger() {
	select {
	case w.reloadCh <- struct{}{}:
	default:
	}
}

func (w *Watcher) reload() {
	settings, err := LoadSettings(w.path)
	if err != nil {
		slog.Warn("Ignoring invalid config change", logfields.Path(w.path), logfields.Error(err))
		return
	}
	slog.Info("Configuration reloaded", logfields.Path(w.path))
	if w.onChange != nil {
		w.onChange(settings)
	}
}
