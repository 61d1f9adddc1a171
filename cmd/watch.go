package cmd

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// configDebounce collapses the burst of events an editor save produces
const configDebounce = 500 * time.Millisecond

// watchConfig calls onChange after the config file is written, replaced or
// removed, until ctx is cancelled. The directory is watched because editors
// usually save by renaming a temp file over the original.
func watchConfig(ctx context.Context, path string, logger *log.Logger, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch config directory: %w", err)
	}

	target := filepath.Clean(path)
	go func() {
		defer watcher.Close()

		// Debounce timer to avoid reloading once per event
		var debounceTimer *time.Timer
		defer func() {
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
		}()

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Has(fsnotify.Create) ||
					event.Has(fsnotify.Write) ||
					event.Has(fsnotify.Remove) ||
					event.Has(fsnotify.Rename) {

					if debounceTimer != nil {
						debounceTimer.Stop()
					}
					debounceTimer = time.AfterFunc(configDebounce, onChange)
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Printf("config watcher: %v", err)

			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}
