package preset

import (
	"context"
	"log/slog"
	"os"

	"github.com/fsnotify/fsnotify"
)

// Watch invalidates the loader cache whenever a preset file changes, until
// ctx is done. The decks directory is watched only if it exists when Watch
// starts.
func Watch(ctx context.Context, l *Loader, logger *slog.Logger) error {
	if l.paths.BaseDir == "" {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(l.paths.BaseDir); err != nil {
		return err
	}
	if fi, err := os.Stat(l.paths.DecksDir()); err == nil && fi.IsDir() {
		if err := w.Add(l.paths.DecksDir()); err != nil {
			return err
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				l.Invalidate()
				logger.Info("presets reloaded", "path", ev.Name, "op", ev.Op.String())
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("preset watcher", "err", err)
		}
	}
}
