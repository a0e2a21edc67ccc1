package tb_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"tb-go/internal/tb"
	"tb-go/internal/testutil"
)

// fakeSnapshots is an in-memory tb.SnapshotStore that records every save
// and can be told to fail.
type fakeSnapshots struct {
	mu    sync.Mutex
	state *tb.State
	saves int
	err   error
}

func (f *fakeSnapshots) Load(context.Context) (*tb.State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == nil {
		return &tb.State{Projects: []tb.Project{}}, nil
	}
	out := &tb.State{Projects: make([]tb.Project, len(f.state.Projects))}
	for i, p := range f.state.Projects {
		out.Projects[i] = p.Clone()
	}
	if f.state.APIConfig != nil {
		c := *f.state.APIConfig
		out.APIConfig = &c
	}
	return out, nil
}

func (f *fakeSnapshots) Save(_ context.Context, s *tb.State) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.saves++
	f.state = s
	return nil
}

func (f *fakeSnapshots) Close() error { return nil }

func (f *fakeSnapshots) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func (f *fakeSnapshots) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves
}

// fakeGenerator completes (or fails) immediately with a single progress report.
type fakeGenerator struct {
	mu   sync.Mutex
	err  error
	jobs []tb.GenerationJob
}

func (g *fakeGenerator) Submit(ctx context.Context, job tb.GenerationJob, progress tb.ProgressFunc) <-chan error {
	g.mu.Lock()
	g.jobs = append(g.jobs, job)
	err := g.err
	g.mu.Unlock()

	ch := make(chan error, 1)
	if ctx.Err() != nil {
		ch <- ctx.Err()
		return ch
	}
	if progress != nil {
		progress(tb.GenerationProgress{ProjectID: job.ProjectID, Progress: 100, TotalChapters: len(job.Chapters)})
	}
	ch <- err
	return ch
}

var errBoom = errors.New("boom")

type fixture struct {
	snapshots *fakeSnapshots
	clock     *testutil.StubClock
	store     *tb.Store
	generator *fakeGenerator
	service   *tb.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		snapshots: &fakeSnapshots{},
		clock:     testutil.FixedClock(),
		generator: &fakeGenerator{},
	}
	f.store = tb.NewStore(f.snapshots, f.clock, tb.NewNopLogger())
	if err := f.store.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	f.service = tb.NewService(f.store, f.generator, tb.NewNopLogger(), f.clock, &testutil.StubIDGenerator{})
	return f
}

func (f *fixture) create(t *testing.T, name string) tb.Project {
	t.Helper()
	p, err := f.service.CreateProject(tb.NewProjectInput{Name: name, APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}
	return p
}

const twoChapters = `chapters:
  - number: 1
    title: "Intro"
  - number: 2
    title: "Basics"
`
