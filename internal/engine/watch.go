package engine

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// waitForDevice sleeps for at most d between reconnect attempts, but
// wakes early when a hidraw node appears under /dev so a replugged
// mouse is picked up without waiting out the full backoff.
func waitForDevice(ctx context.Context, d time.Duration, logger *slog.Logger) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	watcher, err := fsnotify.NewWatcher()
	if err == nil {
		defer watcher.Close()
		if err := watcher.Add("/dev"); err != nil {
			logger.Debug("cannot watch /dev", slog.Any("error", err))
			watcher = nil
		}
	} else {
		logger.Debug("fsnotify unavailable", slog.Any("error", err))
		watcher = nil
	}

	if watcher == nil {
		select {
		case <-ctx.Done():
		case <-timer.C:
		}
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if ev.Op&fsnotify.Create != 0 && strings.HasPrefix(filepath.Base(ev.Name), "hidraw") {
				logger.Debug("hidraw node appeared", slog.String("path", ev.Name))
				return
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Debug("device watch error", slog.Any("error", err))
		}
	}
}
