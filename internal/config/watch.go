package config

import (
	"context"
	"log/slog"
	"reflect"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow coalesces the burst of filesystem events most editors emit
// per save into a single reload.
const debounceWindow = 250 * time.Millisecond

// Watch monitors the config file at path and calls onChange with a freshly
// loaded Config whenever the alerting section changes on disk. Only the
// alerting policy (origin allow-list, delivery strictness, lookback) is
// hot-reloadable; edits to endpoints, credentials, or the HTTP port are left
// unapplied with a warning until the process restarts. current must be the
// config the process started with. Watch runs until ctx is cancelled.
//
// An edit that fails to load (invalid YAML, missing required field) is
// ignored and the active policy stays in place.
func Watch(ctx context.Context, path string, current *Config, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	slog.Info("config: watching for policy changes", "path", path)

	prev := current
	var reload <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Writes and creates both count: editors often save via rename
			// (atomic save), which surfaces as fsnotify.Create.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			reload = time.After(debounceWindow)

		case <-reload:
			reload = nil

			cfg, err := Load(path)
			if err != nil {
				slog.Error("config: ignoring bad edit — active policy unchanged",
					"path", path, "err", err)
				continue
			}

			if needsRestart(prev, cfg) {
				slog.Warn("config: endpoint, credential, or port edit needs a restart — not applied",
					"path", path)
			}
			if policyChanged(prev, cfg) {
				slog.Info("config: alerting policy reloaded", "path", path)
				onChange(cfg)
			}
			prev = cfg

			// Re-add the file in case an atomic save replaced the inode.
			_ = watcher.Add(path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("config: watcher error", "err", err)
		}
	}
}

// policyChanged reports whether the hot-reloadable alerting section differs.
func policyChanged(prev, next *Config) bool {
	return !reflect.DeepEqual(prev.Alerting, next.Alerting)
}

// needsRestart reports whether any restart-only section was edited.
func needsRestart(prev, next *Config) bool {
	return !reflect.DeepEqual(prev.Source, next.Source) ||
		!reflect.DeepEqual(prev.Email, next.Email) ||
		prev.HTTP != next.HTTP
}
