// Package watch reports changes to a local minutes source
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ccowmu/minutes/internal/logger"
)

// DefaultDebounce groups bursts of events (editors often write several times)
const DefaultDebounce = 250 * time.Millisecond

// Watcher emits a signal on C after the watched path changes
type Watcher struct {
	C <-chan struct{}

	fs       *fsnotify.Watcher
	target   string // file name filter when watching a single file
	debounce time.Duration
	out      chan struct{}
	cancel   context.CancelFunc
	done     chan struct{}
	once     sync.Once
}

// New watches path, which may be a file or a directory.
// Files are watched through their parent directory so atomic replaces
// (write to temp, rename over) are seen.
func New(ctx context.Context, path string, debounce time.Duration) (*Watcher, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		fs:       fsw,
		debounce: debounce,
		out:      make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	w.C = w.out

	if info.IsDir() {
		err = addTree(fsw, path)
	} else {
		w.target = filepath.Clean(path)
		err = fsw.Add(filepath.Dir(path))
	}
	if err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}

	ctx, w.cancel = context.WithCancel(ctx)
	go w.run(ctx)

	logger.Debug("Watching %s for changes", path)
	return w, nil
}

// addTree watches dir and every visible subdirectory
func addTree(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	})
}

// run is the only sender on out and closes it on exit
func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)
	defer close(w.out)

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			logger.Debug("Change detected: %s %s", event.Op, event.Name)

			if event.Has(fsnotify.Create) && w.target == "" {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = addTree(w.fs, event.Name)
				}
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			logger.Debug("Watcher error: %v", err)

		case <-fire:
			fire = nil
			select {
			case w.out <- struct{}{}:
			default: // a signal is already pending
			}
		}
	}
}

// relevant filters out chmod noise, hidden files and unrelated files
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	if w.target != "" {
		return filepath.Clean(event.Name) == w.target
	}
	return true
}

// Close stops watching and waits for the event loop to exit
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		w.cancel()
		err = w.fs.Close()
		<-w.done
	})
	return err
}
