package tb_test

import (
	"errors"
	"testing"
	"time"

	"tb-go/internal/tb"
	"tb-go/internal/testutil"
)

type saveRecorder struct {
	outlines []string
	errs     []error
}

func (r *saveRecorder) record(p tb.Project, err error) {
	r.outlines = append(r.outlines, p.Outline)
	r.errs = append(r.errs, err)
}

func newAutoSaveFixture(t *testing.T) (*fixture, tb.Project, *testutil.ManualScheduler, *tb.AutoSaver, *saveRecorder) {
	t.Helper()
	f := newFixture(t)
	p := f.create(t, "Course")
	sched := testutil.NewManualScheduler()
	saver := tb.NewAutoSaver(f.service, p.ID, 0, sched)
	rec := &saveRecorder{}
	saver.OnSave(rec.record)
	t.Cleanup(saver.Close)
	return f, p, sched, saver, rec
}

func TestAutoSaver_QuietPeriod(t *testing.T) {
	f, p, sched, saver, rec := newAutoSaveFixture(t)

	saver.Edit("chapters:")
	sched.Advance(tb.DefaultQuietPeriod - time.Millisecond)
	if len(rec.outlines) != 0 {
		t.Fatalf("saved before the quiet period elapsed: %v", rec.outlines)
	}
	if !saver.Pending() {
		t.Error("Pending() = false with an unsaved edit")
	}

	sched.Advance(time.Millisecond)
	if len(rec.outlines) != 1 || rec.outlines[0] != "chapters:" {
		t.Fatalf("saves = %v, want exactly one with the edit", rec.outlines)
	}
	if saver.Pending() {
		t.Error("Pending() = true after save")
	}

	sched.Advance(10 * tb.DefaultQuietPeriod)
	if len(rec.outlines) != 1 {
		t.Errorf("extra saves after the quiet period: %v", rec.outlines)
	}

	got, _ := f.store.Get(p.ID)
	if got.Outline != "chapters:" {
		t.Errorf("stored outline = %q", got.Outline)
	}
}

func TestAutoSaver_CoalescesEdits(t *testing.T) {
	_, _, sched, saver, rec := newAutoSaveFixture(t)

	for _, text := range []string{"c", "ch", "cha", "chapters:"} {
		saver.Edit(text)
		sched.Advance(time.Second)
	}
	if len(rec.outlines) != 0 {
		t.Fatalf("saved while edits kept arriving: %v", rec.outlines)
	}

	sched.Advance(time.Second)
	if len(rec.outlines) != 1 || rec.outlines[0] != "chapters:" {
		t.Errorf("saves = %v, want one save of the latest text", rec.outlines)
	}
	if n := sched.Pending(); n != 0 {
		t.Errorf("%d timers still pending", n)
	}
}

func TestAutoSaver_UnchangedTextSkipped(t *testing.T) {
	f, p, sched, saver, rec := newAutoSaveFixture(t)
	before := f.snapshots.saveCount()

	saver.Edit(p.Outline)
	sched.Advance(tb.DefaultQuietPeriod)

	if len(rec.outlines) != 0 || f.snapshots.saveCount() != before {
		t.Errorf("unchanged outline was saved")
	}
}

func TestAutoSaver_FlushAndClose(t *testing.T) {
	_, _, sched, saver, rec := newAutoSaveFixture(t)

	saver.Edit("chapters:")
	saver.Flush()
	if len(rec.outlines) != 1 {
		t.Fatalf("Flush() saves = %v, want 1", rec.outlines)
	}
	sched.Advance(tb.DefaultQuietPeriod)
	if len(rec.outlines) != 1 {
		t.Errorf("flushed edit saved again by its timer")
	}

	saver.Edit("dropped")
	saver.Close()
	sched.Advance(tb.DefaultQuietPeriod)
	saver.Edit("after close")
	sched.Advance(tb.DefaultQuietPeriod)
	if len(rec.outlines) != 1 {
		t.Errorf("saves after Close = %v", rec.outlines)
	}
}

func TestAutoSaver_ReportsRefusedSave(t *testing.T) {
	f, p, sched, saver, rec := newAutoSaveFixture(t)
	if _, err := f.service.SaveOutline(p.ID, twoChapters); err != nil {
		t.Fatalf("SaveOutline() error = %v", err)
	}
	if _, err := f.service.BeginGeneration(p.ID); err != nil {
		t.Fatalf("BeginGeneration() error = %v", err)
	}

	saver.Edit("chapters:")
	sched.Advance(tb.DefaultQuietPeriod)

	if len(rec.errs) != 1 || !errors.Is(rec.errs[0], tb.ErrInvalidTransition) {
		t.Errorf("save errors = %v, want ErrInvalidTransition", rec.errs)
	}
}

// lateScheduler records callbacks and never manages to stop them, as when a
// timer has already fired and its callback is waiting on the saver's lock.
type lateScheduler struct {
	funcs []func()
}

type lateTimer struct{}

func (lateTimer) Stop() bool { return false }

func (s *lateScheduler) AfterFunc(_ time.Duration, f func()) tb.Timer {
	s.funcs = append(s.funcs, f)
	return lateTimer{}
}

func TestAutoSaver_SupersededTimerDoesNotSave(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, "Course")
	sched := &lateScheduler{}
	saver := tb.NewAutoSaver(f.service, p.ID, 0, sched)
	rec := &saveRecorder{}
	saver.OnSave(rec.record)
	defer saver.Close()

	saver.Edit("A")
	saver.Edit("B")
	sched.funcs[0]()
	if len(rec.outlines) != 0 {
		t.Fatalf("stale timer saved %v before the quiet period of the latest edit", rec.outlines)
	}
	if !saver.Pending() {
		t.Error("Pending() = false, latest edit was consumed by a stale timer")
	}

	sched.funcs[1]()
	if len(rec.outlines) != 1 || rec.outlines[0] != "B" {
		t.Errorf("saves = %v, want one save of %q", rec.outlines, "B")
	}
}

func TestAutoSaver_TimerAfterCloseDoesNotSave(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, "Course")
	sched := &lateScheduler{}
	saver := tb.NewAutoSaver(f.service, p.ID, 0, sched)
	rec := &saveRecorder{}
	saver.OnSave(rec.record)

	saver.Edit("A")
	saver.Close()
	sched.funcs[0]()

	if len(rec.outlines) != 0 {
		t.Errorf("saves after Close = %v", rec.outlines)
	}
	got, _ := f.store.Get(p.ID)
	if got.Outline == "A" {
		t.Error("outline committed after Close")
	}
}
