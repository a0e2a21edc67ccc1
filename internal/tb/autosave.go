package tb

import (
	"sync"
	"time"
)

// DefaultQuietPeriod is how long outline edits must pause before they are saved.
const DefaultQuietPeriod = 2 * time.Second

// AutoSaver buffers outline edits for one project and commits the latest text
// after a quiet period with no further edits.
type AutoSaver struct {
	svc       *Service
	projectID string
	quiet     time.Duration
	scheduler Scheduler
	onSave    func(Project, error)

	mu      sync.Mutex
	pending *string
	timer   Timer
	gen     uint64 // bumped whenever an armed timer is superseded
	closed  bool
}

// NewAutoSaver creates an AutoSaver. A non-positive quiet period selects
// DefaultQuietPeriod.
func NewAutoSaver(svc *Service, projectID string, quiet time.Duration, scheduler Scheduler) *AutoSaver {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	return &AutoSaver{
		svc:       svc,
		projectID: projectID,
		quiet:     quiet,
		scheduler: scheduler,
	}
}

// OnSave registers a callback invoked after each save attempt. Edits whose
// text matches the stored outline are dropped without a save and without a
// callback.
func (a *AutoSaver) OnSave(fn func(Project, error)) {
	a.mu.Lock()
	a.onSave = fn
	a.mu.Unlock()
}

// Edit records the latest outline text and restarts the quiet period.
// Edits after Close are ignored.
func (a *AutoSaver) Edit(text string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}
	a.pending = &text
	if a.timer != nil {
		a.timer.Stop()
	}
	a.gen++
	gen := a.gen
	a.timer = a.scheduler.AfterFunc(a.quiet, func() { a.fire(gen) })
}

// Pending reports whether an edit is waiting to be saved.
func (a *AutoSaver) Pending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pending != nil
}

// Flush saves a pending edit immediately.
func (a *AutoSaver) Flush() {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.gen++
	gen := a.gen
	a.mu.Unlock()

	a.fire(gen)
}

// Close cancels any pending save. Safe to call more than once.
func (a *AutoSaver) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.closed = true
	a.pending = nil
	a.gen++
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

// fire saves the pending edit if gen is still the current generation. A timer
// whose Stop lost the race to its callback carries a stale gen.
func (a *AutoSaver) fire(gen uint64) {
	a.mu.Lock()
	if a.closed || gen != a.gen || a.pending == nil {
		a.mu.Unlock()
		return
	}
	text := *a.pending
	a.pending = nil
	a.timer = nil
	onSave := a.onSave
	a.mu.Unlock()

	current, err := a.svc.store.Get(a.projectID)
	if err == nil && current.Outline == text {
		return
	}

	p, err := a.svc.SaveOutline(a.projectID, text)
	if onSave != nil {
		onSave(p, err)
	}
}
