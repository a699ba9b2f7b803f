// Package watch implements the debounced filesystem watcher and its
// single-threaded cooperative event loop.
package watch

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/etr/wonk-sub000/internal/ignore"
)

// ChangeKind is the post-debounce classification of one path: whether it
// exists on disk at flush time (Modified, merging both create and modify)
// or has been removed (Deleted).
type ChangeKind int

const (
	Modified ChangeKind = iota
	Deleted
)

// Change is one batched, classified, filtered filesystem event.
type Change struct {
	Path string
	Kind ChangeKind
}

// BatchHandler processes one non-empty batch of changes.
type BatchHandler func(batch []Change)

// Watcher watches a root directory tree, debouncing raw fsnotify events
// into batches of Change and filtering them through the same discipline as
// the walker before they ever reach a handler.
type Watcher struct {
	root     string
	debounce time.Duration
	matcher  *ignore.Matcher
	fsw      *fsnotify.Watcher

	mu      sync.Mutex
	pending orderedSet
	timer   *time.Timer

	batches chan []Change
	done    chan struct{}
	wg      sync.WaitGroup
}

// orderedSet tracks distinct paths in first-seen order: a bare map would let
// flush emit a batch in Go's randomized iteration order, but two files
// touched within the same debounce window must come out in arrival order.
type orderedSet struct {
	order []string
	seen  map[string]struct{}
}

func newOrderedSet() orderedSet {
	return orderedSet{seen: make(map[string]struct{})}
}

func (s *orderedSet) add(path string) {
	if _, ok := s.seen[path]; ok {
		return
	}
	s.seen[path] = struct{}{}
	s.order = append(s.order, path)
}

func (s *orderedSet) len() int {
	return len(s.order)
}

// New creates a Watcher rooted at root with the given debounce window.
// extraIgnorePatterns, typically loaded from [ignore].patterns, are applied
// on top of .gitignore/.wonkignore, mirroring the Index Builder's matcher.
func New(root string, debounce time.Duration, extraIgnorePatterns ...string) (*Watcher, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		root:     absRoot,
		debounce: debounce,
		matcher:  ignore.New(absRoot, extraIgnorePatterns),
		fsw:      fsw,
		pending:  newOrderedSet(),
		batches:  make(chan []Change, 16),
		done:     make(chan struct{}),
	}
	return w, nil
}

// Start adds every non-excluded directory under root to the underlying
// fsnotify watch set and begins translating raw events into debounced
// batches on the Watcher's batches channel. It does not block; call Run to
// drive the event loop.
func (w *Watcher) Start() error {
	if err := w.addTreeRecursive(w.root); err != nil {
		return err
	}
	w.wg.Add(1)
	go w.collectEvents()
	return nil
}

// Stop shuts the watcher down and releases the fsnotify handle.
func (w *Watcher) Stop() {
	select {
	case <-w.done:
		return
	default:
		close(w.done)
	}
	w.wg.Wait()
	w.fsw.Close()

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
}

func (w *Watcher) addTreeRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(w.root, path)
		if relErr != nil {
			return nil
		}
		if rel != "." && !w.matcher.ShouldProcess(rel) {
			return filepath.SkipDir
		}
		_ = w.fsw.Add(path) // individual watch failures are not fatal
		return nil
	})
}

// collectEvents translates fsnotify events into the debounced pending set.
func (w *Watcher) collectEvents() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	rel, err := filepath.Rel(w.root, ev.Name)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)
	if !w.matcher.ShouldProcess(rel) {
		return
	}

	if ev.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			_ = w.addTreeRecursive(ev.Name)
		}
	}
	if ev.Op == fsnotify.Chmod {
		return
	}

	w.mu.Lock()
	w.pending.add(rel)
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
	w.mu.Unlock()
}

// flush classifies and emits the pending set as one batch, per the
// spec's rule: a path that still exists on disk is Modified (create and
// modify both collapse here); a path that's gone is Deleted.
func (w *Watcher) flush() {
	w.mu.Lock()
	if w.pending.len() == 0 {
		w.mu.Unlock()
		return
	}
	paths := w.pending.order
	w.pending = newOrderedSet()
	w.mu.Unlock()

	batch := make([]Change, 0, len(paths))
	for _, rel := range paths {
		abs := filepath.Join(w.root, rel)
		kind := Modified
		if _, err := os.Stat(abs); err != nil {
			kind = Deleted
		}
		batch = append(batch, Change{Path: abs, Kind: kind})
	}
	if len(batch) == 0 {
		return
	}

	select {
	case w.batches <- batch:
	case <-w.done:
	}
}

// Run is the single-threaded cooperative event loop: it polls the batches
// channel with a short timeout, invoking handler on each non-empty batch,
// until shutdown is set or the channel is closed.
func Run(w *Watcher, shutdown *Flag, handler BatchHandler) {
	RunWithIdleTimeout(w, shutdown, 0, handler)
}

// RunWithIdleTimeout is Run, but also self-shuts-down (returning as if
// shutdown had been set) once idleTimeout has elapsed since the last batch
// was handled. idleTimeout <= 0 disables the self-shutdown, matching Run.
func RunWithIdleTimeout(w *Watcher, shutdown *Flag, idleTimeout time.Duration, handler BatchHandler) {
	lastActivity := time.Now()
	for {
		if shutdown.Get() {
			return
		}
		if idleTimeout > 0 && time.Since(lastActivity) >= idleTimeout {
			return
		}
		select {
		case batch, ok := <-w.batches:
			if !ok {
				return
			}
			handler(batch)
			lastActivity = time.Now()
		case <-time.After(200 * time.Millisecond):
			continue
		}
	}
}

// Flag is a shared atomic shutdown flag, checked on each event-loop poll.
type Flag struct {
	mu  sync.Mutex
	set bool
}

func (f *Flag) Set() {
	f.mu.Lock()
	f.set = true
	f.mu.Unlock()
}

func (f *Flag) Get() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.set
}
