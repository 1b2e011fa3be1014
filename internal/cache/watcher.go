package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/harrison/findfile/internal/filelock"
	"github.com/harrison/findfile/internal/finder"
)

// DefaultDebounceDelay is the quiet period after the last filesystem event
// before a recache runs.
const DefaultDebounceDelay = 200 * time.Millisecond

// Recacher refreshes a cache. *Manager implements it.
type Recacher interface {
	Recache() error
}

// Watcher recaches a work directory whenever its tree changes. Bursts of
// events are coalesced into one recache.
type Watcher struct {
	watcher  *fsnotify.Watcher
	target   Recacher
	rootDir  string
	ignore   []string
	logger   finder.Logger
	debounce time.Duration

	mu     sync.Mutex
	closed bool
}

// NewWatcher watches rootDir and every directory below it. Events on names
// containing one of the ignore entries are dropped. Events on the snapshot
// file, its lock file and atomic-write temp files are always dropped so
// saving a snapshot does not trigger another recache.
func NewWatcher(rootDir string, target Recacher, ignore []string, logger finder.Logger) (*Watcher, error) {
	info, err := os.Stat(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to access watch root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch root %s is not a directory", rootDir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	lowered := make([]string, 0, len(ignore))
	for _, name := range ignore {
		if name != "" {
			lowered = append(lowered, strings.ToLower(name))
		}
	}

	w := &Watcher{
		watcher:  fsw,
		target:   target,
		rootDir:  filepath.Clean(rootDir),
		ignore:   lowered,
		logger:   logger,
		debounce: DefaultDebounceDelay,
	}

	if err := w.addRecursive(w.rootDir); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// SetDebounceDelay changes the quiet period. Call it before Run.
func (w *Watcher) SetDebounceDelay(d time.Duration) {
	w.debounce = d
}

// RootDir returns the watched directory.
func (w *Watcher) RootDir() string {
	return w.rootDir
}

// Run processes events until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.Close()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if w.handleEvent(event) {
				timer.Reset(w.debounce)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.warnf("watch error: %v", err)
		case <-timer.C:
			if err := w.target.Recache(); err != nil {
				w.warnf("recache of %s failed: %v", w.rootDir, err)
			} else if w.logger != nil {
				w.logger.Debugf("recached %s", w.rootDir)
			}
		}
	}
}

// Close releases the underlying watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	return w.watcher.Close()
}

// handleEvent reports whether the event should schedule a recache.
func (w *Watcher) handleEvent(event fsnotify.Event) bool {
	if w.ignored(event.Name) {
		return false
	}
	if event.Op == fsnotify.Chmod {
		return false
	}

	if event.Has(fsnotify.Create) {
		info, err := os.Lstat(event.Name)
		if err == nil && info.IsDir() {
			if err := w.addRecursive(event.Name); err != nil {
				w.warnf("cannot watch %s: %v", event.Name, err)
			}
		}
	}
	return true
}

func (w *Watcher) ignored(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	if isStoreFile(base) {
		return true
	}
	if ok, _ := filepath.Match(filelock.TempPattern, base); ok {
		return true
	}
	for _, name := range w.ignore {
		if strings.Contains(base, name) {
			return true
		}
	}
	return false
}

// addRecursive adds dir and all directories below it, skipping symlinks and
// directories that vanish or cannot be read.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) || os.IsPermission(err) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.watcher.Add(path); err != nil {
			if os.IsPermission(err) || os.IsNotExist(err) {
				return filepath.SkipDir
			}
			return err
		}
		return nil
	})
}

func (w *Watcher) warnf(format string, args ...interface{}) {
	if w.logger != nil {
		w.logger.Warnf(format, args...)
	}
}
