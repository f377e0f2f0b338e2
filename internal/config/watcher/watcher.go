// Package watcher provides file watching for preference and asset live
// reload.
//
// Files are watched through their parent directories so that editors
// which save by writing a temporary file and renaming it are observed,
// and files that do not exist yet are reported when created. Bursts of
// events for one file are coalesced and delivered once the file has been
// quiet for the debounce period.
package watcher

import (
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// ErrNotRunning is returned when stopping a watcher that was not started.
var ErrNotRunning = errors.New("watcher is not running")

// Event represents a file change event.
type Event struct {
	// Path is the absolute path to the changed file.
	Path string

	// Op is the operation that triggered the event.
	Op Operation

	// Time is when the event occurred.
	Time time.Time
}

// Operation represents the type of file operation.
type Operation int

const (
	// OpWrite indicates the file was modified.
	OpWrite Operation = iota

	// OpCreate indicates a new file was created.
	OpCreate

	// OpRemove indicates the file was deleted.
	OpRemove

	// OpRename indicates the file was renamed.
	OpRename
)

// String returns the operation name.
func (op Operation) String() string {
	switch op {
	case OpWrite:
		return "write"
	case OpCreate:
		return "create"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Handler is called when a file change is detected.
type Handler func(event Event)

// Watcher monitors files for changes.
type Watcher struct {
	mu sync.RWMutex

	// Watched files (absolute paths)
	files map[string]bool

	handlers []Handler

	fsw     *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup
	running bool

	debounce  time.Duration
	pendingMu sync.Mutex
	pending   map[string]*pendingEvent

	log logrus.FieldLogger
}

// pendingEvent is a debounced event waiting for its timer.
type pendingEvent struct {
	op    Operation
	last  time.Time
	timer *time.Timer
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce duration for rapid changes.
// Zero delivers every event immediately.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(w *Watcher) {
		if log != nil {
			w.log = log
		}
	}
}

// New creates a new file watcher.
func New(opts ...Option) *Watcher {
	w := &Watcher{
		files:    make(map[string]bool),
		debounce: 100 * time.Millisecond,
		pending:  make(map[string]*pendingEvent),
		log:      logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Watch adds a file to the watch list. The file need not exist.
func (w *Watcher) Watch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.files[absPath] {
		return nil
	}
	w.files[absPath] = true
	if w.fsw != nil {
		return w.addDir(filepath.Dir(absPath))
	}
	return nil
}

// Unwatch removes a file from the watch list.
func (w *Watcher) Unwatch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	delete(w.files, absPath)
	if w.fsw != nil {
		dir := filepath.Dir(absPath)
		if !w.dirInUse(dir) {
			_ = w.fsw.Remove(dir)
		}
	}
	return nil
}

// OnChange registers a handler for file change events.
func (w *Watcher) OnChange(handler Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, handler)
}

// Start begins watching files for changes.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.fsw = fsw
	for _, dir := range w.dirs() {
		if err := w.addDir(dir); err != nil {
			_ = fsw.Close()
			w.fsw = nil
			return err
		}
	}

	w.done = make(chan struct{})
	w.running = true

	w.wg.Add(1)
	go w.eventLoop(fsw)
	return nil
}

// Stop stops watching files.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return ErrNotRunning
	}
	close(w.done)
	w.running = false
	fsw := w.fsw
	w.fsw = nil
	w.mu.Unlock()

	err := fsw.Close()
	w.wg.Wait()
	w.dropPending()
	return err
}

// IsRunning returns whether the watcher is active.
func (w *Watcher) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

// WatchedFiles returns the watched files in sorted order.
func (w *Watcher) WatchedFiles() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	files := make([]string, 0, len(w.files))
	for path := range w.files {
		files = append(files, path)
	}
	sort.Strings(files)
	return files
}

// dirs returns the parent directories of the watched files.
// Must be called with the lock held.
func (w *Watcher) dirs() []string {
	seen := make(map[string]bool)
	var out []string
	for path := range w.files {
		dir := filepath.Dir(path)
		if !seen[dir] {
			seen[dir] = true
			out = append(out, dir)
		}
	}
	sort.Strings(out)
	return out
}

func (w *Watcher) dirInUse(dir string) bool {
	for path := range w.files {
		if filepath.Dir(path) == dir {
			return true
		}
	}
	return false
}

// addDir adds a directory to fsnotify. A missing directory is logged and
// skipped; its files are picked up on the next Start.
func (w *Watcher) addDir(dir string) error {
	if err := w.fsw.Add(dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			w.log.WithField("dir", dir).Debug("watch directory does not exist")
			return nil
		}
		return err
	}
	return nil
}

func (w *Watcher) eventLoop(fsw *fsnotify.Watcher) {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			w.handleFSEvent(ev)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Warn("file watcher error")
		}
	}
}

func (w *Watcher) handleFSEvent(ev fsnotify.Event) {
	path, err := filepath.Abs(ev.Name)
	if err != nil {
		return
	}
	w.mu.RLock()
	watched := w.files[path]
	w.mu.RUnlock()
	if !watched {
		return
	}

	op, ok := convertOp(ev.Op)
	if !ok {
		return
	}
	event := Event{Path: path, Op: op, Time: time.Now()}
	if w.debounce > 0 {
		w.queueEvent(event)
	} else {
		w.emitEvent(event)
	}
}

// convertOp maps an fsnotify operation to the strongest Operation it
// carries. Chmod-only events are ignored.
func convertOp(op fsnotify.Op) (Operation, bool) {
	switch {
	case op.Has(fsnotify.Remove):
		return OpRemove, true
	case op.Has(fsnotify.Rename):
		return OpRename, true
	case op.Has(fsnotify.Create):
		return OpCreate, true
	case op.Has(fsnotify.Write):
		return OpWrite, true
	default:
		return 0, false
	}
}

// queueEvent delays delivery until the file has been quiet for the
// debounce period. Operations of a burst coalesce: a remove or create
// replaces what was pending, a write keeps it.
func (w *Watcher) queueEvent(event Event) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	if p, ok := w.pending[event.Path]; ok {
		if event.Op != OpWrite {
			p.op = event.Op
		}
		p.last = event.Time
		p.timer.Reset(w.debounce)
		return
	}
	p := &pendingEvent{op: event.Op, last: event.Time}
	p.timer = time.AfterFunc(w.debounce, func() { w.flush(event.Path) })
	w.pending[event.Path] = p
}

// flush delivers the pending event of path.
func (w *Watcher) flush(path string) {
	w.pendingMu.Lock()
	p, ok := w.pending[path]
	delete(w.pending, path)
	w.pendingMu.Unlock()

	if !ok || !w.IsRunning() {
		return
	}
	w.emitEvent(Event{Path: path, Op: p.op, Time: p.last})
}

// dropPending cancels every pending delivery.
func (w *Watcher) dropPending() {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()
	for path, p := range w.pending {
		p.timer.Stop()
		delete(w.pending, path)
	}
}

// emitEvent calls all handlers with the event.
func (w *Watcher) emitEvent(event Event) {
	w.mu.RLock()
	handlers := make([]Handler, len(w.handlers))
	copy(handlers, w.handlers)
	w.mu.RUnlock()

	for _, handler := range handlers {
		w.safeCallHandler(handler, event)
	}
}

// safeCallHandler calls a handler with panic recovery.
func (w *Watcher) safeCallHandler(handler Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			w.log.WithField("path", event.Path).Errorf("watch handler panicked: %v", r)
		}
	}()
	handler(event)
}
