package tb

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"
)

// Simulator defaults.
const (
	DefaultTickInterval = time.Second
	DefaultMaxStep      = 5.0
	DefaultLogChance    = 0.3
)

// SimulatedComponents are the component names a simulated tick reports on.
var SimulatedComponents = []string{
	"PowerPoint",
	"Book Chapter",
	"Exercises",
	"Q&A",
	"Quiz",
	"Topics",
	"Instructor Materials",
}

var simulatedPhases = []string{"Generating...", "Processing...", "Completed"}

// SimulatorConfig tunes a Simulator. Zero values select the defaults.
type SimulatorConfig struct {
	TickInterval time.Duration
	MaxStep      float64
	LogChance    float64
	Rand         *rand.Rand // nil uses a randomly seeded source
}

// Simulator is a placeholder Generator. It produces no content; it advances
// a progress value by a bounded random step on every tick until it reaches
// 100.
type Simulator struct {
	interval  time.Duration
	maxStep   float64
	logChance float64
	clock     Clock
	logger    Logger

	mu  sync.Mutex
	rng *rand.Rand
}

var _ Generator = (*Simulator)(nil)

// NewSimulator creates a Simulator.
func NewSimulator(cfg SimulatorConfig, clock Clock, logger Logger) *Simulator {
	s := &Simulator{
		interval:  cfg.TickInterval,
		maxStep:   cfg.MaxStep,
		logChance: cfg.LogChance,
		clock:     clock,
		logger:    logger,
		rng:       cfg.Rand,
	}
	if s.interval <= 0 {
		s.interval = DefaultTickInterval
	}
	if s.maxStep <= 0 {
		s.maxStep = DefaultMaxStep
	}
	if s.logChance <= 0 || s.logChance > 1 {
		s.logChance = DefaultLogChance
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return s
}

// Run is the progress state of one simulated job.
// Step advances it; it is not safe for concurrent use.
type Run struct {
	sim      *Simulator
	job      GenerationJob
	progress float64
	done     bool
}

// Start begins a new run at 0%.
func (s *Simulator) Start(job GenerationJob) *Run {
	return &Run{sim: s, job: job}
}

// Done reports whether the run has reached 100%.
func (r *Run) Done() bool { return r.done }

// Step performs one tick. It returns the new progress and whether this tick
// completed the run. Once completed, Step is a no-op that returns ok=false.
func (r *Run) Step() (p GenerationProgress, completed bool, ok bool) {
	if r.done {
		return GenerationProgress{}, false, false
	}

	s := r.sim
	s.mu.Lock()
	next := r.progress + s.rng.Float64()*s.maxStep
	component := SimulatedComponents[s.rng.IntN(len(SimulatedComponents))]
	var message string
	if s.rng.Float64() < s.logChance {
		phase := simulatedPhases[s.rng.IntN(len(simulatedPhases))]
		message = fmt.Sprintf("[%s] %s: %s", s.clock.Now().Format("15:04:05"), component, phase)
	}
	s.mu.Unlock()

	if next >= 100 {
		next = 100
		r.done = true
	}
	r.progress = next

	total := len(r.job.Chapters)
	completedChapters := int(math.Floor(next / 100 * float64(total)))
	current := completedChapters + 1
	if current > total {
		current = total
	}

	return GenerationProgress{
		ProjectID:         r.job.ProjectID,
		CurrentChapter:    current,
		TotalChapters:     total,
		CompletedChapters: completedChapters,
		CurrentComponent:  component,
		Progress:          next,
		Message:           message,
	}, r.done, true
}

// Submit runs a job on a ticker until it completes or ctx is cancelled.
// The ticker is stopped either way.
func (s *Simulator) Submit(ctx context.Context, job GenerationJob, progress ProgressFunc) <-chan error {
	result := make(chan error, 1)

	go func() {
		defer close(result)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		run := s.Start(job)
		s.logger.Debug("simulated generation started", "project", job.ProjectID, "chapters", len(job.Chapters))

		for {
			select {
			case <-ctx.Done():
				s.logger.Info("simulated generation cancelled", "project", job.ProjectID)
				result <- ctx.Err()
				return
			case <-ticker.C:
			}

			// Cancellation wins over a tick that raced with it.
			if ctx.Err() != nil {
				result <- ctx.Err()
				return
			}

			p, completed, _ := run.Step()
			if progress != nil {
				progress(p)
			}
			if completed {
				s.logger.Info("simulated generation complete", "project", job.ProjectID)
				result <- nil
				return
			}
		}
	}()

	return result
}
