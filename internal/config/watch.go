package config

import (
	"context"
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the config file at path on every write and passes the new
// Config to onChange. Invalid reloads are logged and skipped. It runs until
// ctx is cancelled.
func Watch(ctx context.Context, log *slog.Logger, path string, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}
	log.Info("watching config file", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// editors often save via rename, which shows up as Create
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			cfg, err := Load(path)
			if err != nil {
				log.Error("config reload failed, keeping previous config", "path", path, "error", err)
				continue
			}
			log.Info("config reloaded", "path", path)
			onChange(cfg)

			_ = watcher.Add(path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("config watcher error", "error", err)
		}
	}
}
