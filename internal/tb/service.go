package tb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tb-go/internal/outline"
)

// Service coordinates the project lifecycle:
//
//	draft --save--> draft --generate--> generating --complete--> completed
//
// All reads and writes go through the Store.
type Service struct {
	store     *Store
	generator Generator
	logger    Logger
	clock     Clock
	idgen     IDGenerator
}

// NewService creates a new Service with the provided dependencies.
func NewService(store *Store, generator Generator, logger Logger, clock Clock, idgen IDGenerator) *Service {
	return &Service{
		store:     store,
		generator: generator,
		logger:    logger,
		clock:     clock,
		idgen:     idgen,
	}
}

// Store returns the underlying project store.
func (s *Service) Store() *Store { return s.store }

// NewProjectInput holds the fields supplied when creating a project.
type NewProjectInput struct {
	Name   string
	Model  AIModel
	APIKey string
	// RememberKey stores Model and APIKey as the remembered credential.
	RememberKey bool
}

// CreateProject creates a draft project and makes it active.
// An empty APIKey falls back to the remembered credential when one exists.
func (s *Service) CreateProject(in NewProjectInput) (Project, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Project{}, fmt.Errorf("%w: project name is required", ErrInvalidInput)
	}

	model := in.Model
	if model == "" {
		model = DefaultModel
	}
	if _, err := LookupModel(model); err != nil {
		return Project{}, err
	}

	apiKey := strings.TrimSpace(in.APIKey)
	if apiKey == "" {
		if remembered, ok := s.store.CredentialConfig(); ok {
			apiKey = remembered.APIKey
		}
	}
	if apiKey == "" {
		return Project{}, fmt.Errorf("%w: API key is required", ErrInvalidInput)
	}

	if in.RememberKey {
		s.store.SetCredentialConfig(APIKeyConfig{Model: model, APIKey: apiKey})
	}

	now := s.clock.Now()
	p := Project{
		ID:        s.idgen.New(),
		Name:      name,
		Model:     model,
		APIKey:    apiKey,
		Status:    ProjectDraft,
		CreatedAt: now,
		UpdatedAt: now,
		Chapters:  []Chapter{},
	}
	if err := s.store.Add(p); err != nil {
		return Project{}, fmt.Errorf("adding project: %w", err)
	}
	if err := s.store.SetActive(p.ID); err != nil {
		return Project{}, fmt.Errorf("activating project: %w", err)
	}

	s.logger.Info("project created", "id", p.ID, "name", p.Name, "model", string(p.Model))
	return p, nil
}

// OpenProject makes the project active and returns it.
func (s *Service) OpenProject(id string) (Project, error) {
	if err := s.store.SetActive(id); err != nil {
		return Project{}, err
	}
	return s.store.Get(id)
}

// DeleteProject removes a project.
func (s *Service) DeleteProject(id string) error {
	if err := s.store.Delete(id); err != nil {
		return err
	}
	s.logger.Info("project deleted", "id", id)
	return nil
}

// SetCredential replaces the remembered credential.
func (s *Service) SetCredential(model AIModel, apiKey string) error {
	if _, err := LookupModel(model); err != nil {
		return err
	}
	if strings.TrimSpace(apiKey) == "" {
		return fmt.Errorf("%w: API key is required", ErrInvalidInput)
	}
	s.store.SetCredentialConfig(APIKeyConfig{Model: model, APIKey: strings.TrimSpace(apiKey)})
	s.logger.Info("credential remembered", "model", string(model))
	return nil
}

// SaveOutline replaces the outline text of a draft project.
func (s *Service) SaveOutline(id, text string) (Project, error) {
	p, err := s.store.Get(id)
	if err != nil {
		return Project{}, err
	}
	if p.Status != ProjectDraft {
		return Project{}, fmt.Errorf("%w: cannot edit outline of %s project", ErrInvalidTransition, p.Status)
	}

	updated, err := s.store.Update(id, ProjectUpdate{Outline: &text})
	if err != nil {
		return Project{}, err
	}
	s.logger.Debug("outline saved", "id", id, "bytes", len(text))
	return updated, nil
}

// ValidateOutline runs the outline's structural checks.
func (s *Service) ValidateOutline(text string) error {
	return outline.Validate(text)
}

// BeginGeneration moves a draft project to generating. The outline must pass
// validation and yield at least one chapter; the extracted list replaces the
// project's chapters.
func (s *Service) BeginGeneration(id string) (Project, error) {
	p, err := s.store.Get(id)
	if err != nil {
		return Project{}, err
	}
	if p.Status != ProjectDraft {
		return Project{}, fmt.Errorf("%w: cannot generate %s project", ErrInvalidTransition, p.Status)
	}
	if strings.TrimSpace(p.Outline) == "" {
		return Project{}, ErrEmptyOutline
	}
	if err := outline.Validate(p.Outline); err != nil {
		return Project{}, err
	}

	chapters := ChaptersFromOutline(p.Outline)
	if len(chapters) == 0 {
		return Project{}, ErrNoChaptersFound
	}

	status := ProjectGenerating
	updated, err := s.store.Update(id, ProjectUpdate{Status: &status, Chapters: &chapters})
	if err != nil {
		return Project{}, err
	}

	s.logger.Info("generation started", "id", id, "chapters", len(chapters))
	return updated, nil
}

// CompleteGeneration moves a generating project to completed. The chapter
// list is recorded as-is.
func (s *Service) CompleteGeneration(id string) (Project, error) {
	p, err := s.store.Get(id)
	if err != nil {
		return Project{}, err
	}
	if p.Status != ProjectGenerating {
		return Project{}, fmt.Errorf("%w: cannot complete %s project", ErrInvalidTransition, p.Status)
	}

	status := ProjectCompleted
	updated, err := s.store.Update(id, ProjectUpdate{Status: &status, Chapters: &p.Chapters})
	if err != nil {
		return Project{}, err
	}

	s.logger.Info("generation completed", "id", id)
	return updated, nil
}

// Generate runs the whole generation flow for a project. A draft project is
// first moved to generating; a project already generating is resumed with its
// existing chapters. If ctx is cancelled the project stays generating.
func (s *Service) Generate(ctx context.Context, id string, progress ProgressFunc) (Project, error) {
	p, err := s.store.Get(id)
	if err != nil {
		return Project{}, err
	}

	switch p.Status {
	case ProjectDraft:
		if p, err = s.BeginGeneration(id); err != nil {
			return Project{}, err
		}
	case ProjectGenerating:
		s.logger.Info("resuming generation", "id", id)
	default:
		return Project{}, fmt.Errorf("%w: cannot generate %s project", ErrInvalidTransition, p.Status)
	}

	job := GenerationJob{
		ProjectID: p.ID,
		Model:     p.Model,
		APIKey:    p.APIKey,
		Chapters:  p.Chapters,
	}

	if err := <-s.generator.Submit(ctx, job, progress); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			s.logger.Warn("generation interrupted", "id", id, "error", err)
		} else {
			s.logger.Error("generation failed", "id", id, "error", err)
		}
		return Project{}, fmt.Errorf("generating project %s: %w", id, err)
	}

	return s.CompleteGeneration(id)
}

// ChaptersFromOutline extracts pending chapter stubs from outline text.
func ChaptersFromOutline(text string) []Chapter {
	entries := outline.Extract(text)
	chapters := make([]Chapter, len(entries))
	for i, e := range entries {
		chapters[i] = Chapter{
			Number:     e.Number,
			Title:      e.Title,
			Status:     ChapterPending,
			Components: []ChapterComponent{},
		}
	}
	return chapters
}
