package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"tb-go/internal/config"
	"tb-go/internal/sealing"
	"tb-go/internal/snapshot"
	"tb-go/internal/tb"
)

// TBApp is the application layer between the CLI and the core Service.
// It constructs all dependencies from config, exposes high-level operations,
// and closes the snapshot store and log file on Close.
type TBApp struct {
	cfg         *config.Config
	snapshots   tb.SnapshotStore
	store       *tb.Store
	service     *tb.Service
	logger      tb.Logger
	quietPeriod time.Duration
	logFile     *os.File
}

// NewTBApp creates a fully wired TBApp from the given config and loads the
// saved state. operation identifies the CLI command being run and tags every
// log line. The caller must call Close when done.
func NewTBApp(ctx context.Context, cfg *config.Config, operation string) (*TBApp, error) {
	interval, err := cfg.Generation.Interval(tb.DefaultTickInterval)
	if err != nil {
		return nil, err
	}
	quiet, err := cfg.AutoSave.Quiet(tb.DefaultQuietPeriod)
	if err != nil {
		return nil, err
	}
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	sealer, err := sealing.NewSealerFromConfig(cfg.Sealing)
	if err != nil {
		return nil, fmt.Errorf("creating sealer: %w", err)
	}
	if age, ok := sealer.(*sealing.AgeSealer); ok && !age.IsConfigured() {
		return nil, sealing.ErrNotConfigured
	}

	opID := newOperationID(time.Now(), operation)
	logger, logFile, err := newLogger(cfg.LogDir, opID, level)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	tbLogger := &slogAdapter{l: logger}

	a, err := newTBApp(ctx, cfg, sealer, tbLogger, interval, quiet)
	if err != nil {
		logFile.Close()
		return nil, err
	}
	a.logFile = logFile
	return a, nil
}

// newTBApp wires the core from already-built infrastructure.
func newTBApp(ctx context.Context, cfg *config.Config, sealer tb.Sealer, logger tb.Logger, interval, quiet time.Duration) (*TBApp, error) {
	clock := tb.RealClock{}

	snapshots, err := snapshot.NewSnapshotStoreFromConfig(ctx, cfg.Store, sealer, clock)
	if err != nil {
		return nil, fmt.Errorf("creating snapshot store: %w", err)
	}

	store := tb.NewStore(snapshots, clock, logger)
	if err := store.Load(ctx); err != nil {
		snapshots.Close()
		return nil, err
	}

	sim := tb.NewSimulator(tb.SimulatorConfig{
		TickInterval: interval,
		MaxStep:      cfg.Generation.MaxStep,
		LogChance:    cfg.Generation.LogChance,
	}, clock, logger)

	return &TBApp{
		cfg:         cfg,
		snapshots:   snapshots,
		store:       store,
		service:     tb.NewService(store, sim, logger, clock, tb.UUIDGenerator{}),
		logger:      logger,
		quietPeriod: quiet,
	}, nil
}

// CreateProject creates a project. An empty model selects the default.
func (a *TBApp) CreateProject(name, model, apiKey string, remember bool) (tb.Project, error) {
	return a.service.CreateProject(tb.NewProjectInput{
		Name:        name,
		Model:       tb.AIModel(model),
		APIKey:      apiKey,
		RememberKey: remember,
	})
}

// ListProjects returns all projects in creation order.
func (a *TBApp) ListProjects() []tb.Project {
	return a.store.List()
}

// GetProject returns a single project.
func (a *TBApp) GetProject(id string) (tb.Project, error) {
	return a.store.Get(id)
}

// OpenProject makes a project active for the rest of this process.
func (a *TBApp) OpenProject(id string) (tb.Project, error) {
	return a.service.OpenProject(id)
}

// DeleteProject removes a project.
func (a *TBApp) DeleteProject(id string) error {
	return a.service.DeleteProject(id)
}

// SetCredential remembers an API key for a model.
func (a *TBApp) SetCredential(model, apiKey string) error {
	return a.service.SetCredential(tb.AIModel(model), apiKey)
}

// Credential returns the remembered credential, if any.
func (a *TBApp) Credential() (tb.APIKeyConfig, bool) {
	return a.store.CredentialConfig()
}

// SaveOutline replaces a project's outline text.
func (a *TBApp) SaveOutline(id, text string) (tb.Project, error) {
	return a.service.SaveOutline(id, text)
}

// ValidateOutline checks outline text without touching any project.
func (a *TBApp) ValidateOutline(text string) error {
	return a.service.ValidateOutline(text)
}

// NewAutoSaver returns an AutoSaver for a project using the configured quiet period.
// The project becomes active.
func (a *TBApp) NewAutoSaver(id string) (*tb.AutoSaver, error) {
	if _, err := a.service.OpenProject(id); err != nil {
		return nil, err
	}
	return tb.NewAutoSaver(a.service, id, a.quietPeriod, tb.RealScheduler{}), nil
}

// Generate runs generation for a project until it completes or ctx is cancelled.
func (a *TBApp) Generate(ctx context.Context, id string, progress tb.ProgressFunc) (tb.Project, error) {
	if _, err := a.service.OpenProject(id); err != nil {
		return tb.Project{}, err
	}
	return a.service.Generate(ctx, id, progress)
}

// PersistError reports the most recent failure to save state, if any.
func (a *TBApp) PersistError() error {
	return a.store.LastPersistError()
}

// Close closes the snapshot store and the log file.
func (a *TBApp) Close() error {
	var firstErr error
	if err := a.snapshots.Close(); err != nil {
		firstErr = fmt.Errorf("closing snapshot store: %w", err)
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}

// SetupSealing creates the age identity when the config uses age sealing
// and none exists yet. It returns true if an identity was created.
func SetupSealing(cfg config.SealingConfig) (bool, error) {
	sealer, err := sealing.NewSealerFromConfig(cfg)
	if err != nil {
		return false, err
	}
	age, ok := sealer.(*sealing.AgeSealer)
	if !ok || age.IsConfigured() {
		return false, nil
	}
	if err := age.Setup(); err != nil {
		return false, err
	}
	return true, nil
}

// newOperationID tags log lines of one CLI invocation,
// e.g. "20250301T090000Z-generate".
func newOperationID(now time.Time, operation string) string {
	id := now.UTC().Format("20060102T150405Z")
	if operation != "" {
		id += "-" + operation
	}
	return id
}
