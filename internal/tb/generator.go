package tb

import "context"

// GenerationJob is the unit of work handed to a Generator.
type GenerationJob struct {
	ProjectID string
	Model     AIModel
	APIKey    string
	Chapters  []Chapter
}

// ProgressFunc receives progress updates. Called from the generator's goroutine.
type ProgressFunc func(GenerationProgress)

// Generator produces course content for a job.
// A real backend can replace the simulator without touching Service.
type Generator interface {
	// Submit starts the job and returns a channel that receives exactly one
	// value before closing: nil on completion, otherwise the error that
	// stopped the job (ctx.Err() on cancellation). No progress is reported
	// after that value.
	Submit(ctx context.Context, job GenerationJob, progress ProgressFunc) <-chan error
}
