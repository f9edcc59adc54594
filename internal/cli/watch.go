package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/randomart/internal/phrases"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce groups the bursts of events editors produce on save.
const DefaultDebounce = 200 * time.Millisecond

// WatchPhrases calls onChange each time one of the phrase file candidates of root is
// written, created or renamed, until ctx is done.
func WatchPhrases(ctx context.Context, root string, debounce time.Duration, onChange func(context.Context) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	targets := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, path := range phrases.Candidates(root) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			continue
		}
		targets[abs] = true
		dir := filepath.Dir(abs)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			dirs[dir] = true
		}
	}
	if len(dirs) == 0 {
		return fmt.Errorf("%w: nothing to watch in %s", phrases.ErrNoPhraseFile, root)
	}
	// Watch directories, not files: editors often replace the file on save.
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !targets[filepath.Clean(event.Name)] || !relevant(event.Op) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch failed: %w", err)
		case <-fire:
			fire = nil
			if err := onChange(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
		}
	}
}

func relevant(op fsnotify.Op) bool {
	return op.Has(fsnotify.Write) || op.Has(fsnotify.Create) || op.Has(fsnotify.Rename)
}
