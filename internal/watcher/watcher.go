package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/blackwell-systems/brewdesk/internal/logging"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when Config.Debounce is zero.
const DefaultDebounce = 500 * time.Millisecond

// ErrNoDirs is returned by New when none of the configured directories exist.
var ErrNoDirs = errors.New("no Homebrew package directories to watch")

// Change reports packages whose directories changed during one burst of
// filesystem activity.
type Change struct {
	Packages []string
	At       time.Time
}

// Config controls what is watched and how events are coalesced.
type Config struct {
	// Dirs are package roots such as <prefix>/Cellar. Missing ones are skipped.
	Dirs     []string
	Debounce time.Duration
}

// DirsForPrefix returns the package roots under a Homebrew prefix.
func DirsForPrefix(prefix string) []string {
	return []string{
		filepath.Join(prefix, "Cellar"),
		filepath.Join(prefix, "Caskroom"),
	}
}

// Watcher turns filesystem events under the package roots into Changes.
type Watcher struct {
	fsw      *fsnotify.Watcher
	roots    []string
	debounce time.Duration
	log      *logging.Logger

	events    chan Change
	stopCh    chan struct{}
	wg        sync.WaitGroup
	startOnce sync.Once
	closeOnce sync.Once
}

// New creates a watcher for cfg.Dirs. It fails with ErrNoDirs when none of
// them exist.
func New(cfg Config, log *logging.Logger) (*Watcher, error) {
	if log == nil {
		log = logging.NopLogger()
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		fsw:      fsw,
		debounce: debounce,
		log:      log.WithComponent("watcher"),
		events:   make(chan Change, 1),
		stopCh:   make(chan struct{}),
	}

	for _, dir := range cfg.Dirs {
		dir = filepath.Clean(dir)
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			w.log.Debug("skipping missing package root", "dir", dir)
			continue
		}
		if err := w.addRoot(dir); err != nil {
			fsw.Close()
			return nil, err
		}
		w.roots = append(w.roots, dir)
	}
	if len(w.roots) == 0 {
		fsw.Close()
		return nil, ErrNoDirs
	}
	return w, nil
}

// addRoot watches dir and every package directory directly inside it.
func (w *Watcher) addRoot(dir string) error {
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", dir, err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if err := w.fsw.Add(filepath.Join(dir, e.Name())); err != nil {
			w.log.Warn("failed to watch package directory", "dir", filepath.Join(dir, e.Name()), "error", err)
		}
	}
	return nil
}

// Roots returns the package roots being watched.
func (w *Watcher) Roots() []string {
	return append([]string(nil), w.roots...)
}

// Events delivers coalesced changes. The channel is closed once the watcher
// stops.
func (w *Watcher) Events() <-chan Change {
	return w.events
}

// Start begins delivering events until ctx is cancelled or Close is called.
// Calling Start more than once has no effect.
func (w *Watcher) Start(ctx context.Context) {
	w.startOnce.Do(func() {
		w.wg.Add(1)
		go w.run(ctx)
	})
}

// Close stops the watcher and releases its file descriptors.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		err = w.fsw.Close()
	})
	return err
}

func (w *Watcher) run(ctx context.Context) {
	defer w.wg.Done()
	defer close(w.events)

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			name, ok := w.packageFor(ev.Name)
			if !ok {
				continue
			}
			w.log.Debug("package directory changed", "package", name, "op", ev.Op.String())
			if ev.Has(fsnotify.Create) && filepath.Dir(ev.Name) == w.rootOf(ev.Name) {
				if err := w.fsw.Add(ev.Name); err != nil && !errors.Is(err, os.ErrNotExist) {
					w.log.Debug("could not watch new package directory", "dir", ev.Name, "error", err)
				}
			}
			pending[name] = struct{}{}
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("file watcher error", "error", err)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			change := Change{Packages: sortedKeys(pending), At: time.Now()}
			pending = make(map[string]struct{})
			w.log.Info("packages changed", "packages", change.Packages)
			select {
			case w.events <- change:
			case <-ctx.Done():
				return
			case <-w.stopCh:
				return
			}
		}
	}
}

// rootOf returns the watched root containing path, or "".
func (w *Watcher) rootOf(path string) string {
	for _, root := range w.roots {
		if strings.HasPrefix(path, root+string(filepath.Separator)) {
			return root
		}
	}
	return ""
}

// packageFor maps a path under a root to the package directory it belongs to.
func (w *Watcher) packageFor(path string) (string, bool) {
	root := w.rootOf(path)
	if root == "" {
		return "", false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", false
	}
	name := strings.SplitN(rel, string(filepath.Separator), 2)[0]
	if name == "" || name == "." || strings.HasPrefix(name, ".") {
		return "", false
	}
	return name, true
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
