package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ALEX8642/LLM-chatbot/internal/logger"
)

// watcher calls onChange for files under path once they stop changing.
// path may be a directory or a single file.
type watcher struct {
	path     string
	debounce time.Duration
	onChange func(file string)
}

func (w *watcher) run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	dir, only := w.path, ""
	if info, err := os.Stat(w.path); err == nil && !info.IsDir() {
		dir, only = filepath.Dir(w.path), filepath.Clean(w.path)
	}
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			name := filepath.Clean(ev.Name)
			if only != "" && name != only {
				continue
			}
			logger.Debug("watch: %s %s", ev.Op, name)
			pending[name] = time.Now()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch: %v", err)

		case now := <-ticker.C:
			for name, last := range pending {
				if now.Sub(last) < w.debounce {
					continue
				}
				delete(pending, name)
				w.onChange(name)
			}
		}
	}
}
