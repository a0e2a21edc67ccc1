package tb

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// StoreOp names the kind of change an Event reports.
type StoreOp string

const (
	OpLoad        StoreOp = "load"
	OpAdd         StoreOp = "add"
	OpUpdate      StoreOp = "update"
	OpDelete      StoreOp = "delete"
	OpActive      StoreOp = "active"
	OpCredentials StoreOp = "credentials"
)

// Event is delivered to observers after every store mutation.
type Event struct {
	Op        StoreOp
	ProjectID string
}

// Observer is called synchronously after a mutation, outside the store lock,
// so it may read from the store.
type Observer func(Event)

type registeredObserver struct {
	id int
	fn Observer
}

// ProjectUpdate is a partial update. Nil fields are left unchanged.
type ProjectUpdate struct {
	Name     *string
	Outline  *string
	Model    *AIModel
	APIKey   *string
	Status   *ProjectStatus
	Chapters *[]Chapter
}

// Store is the single source of truth for projects, the remembered credential
// and the transient active project. All reads return copies.
type Store struct {
	mu         sync.Mutex
	projects   []Project
	activeID   string
	apiConfig  *APIKeyConfig
	snapshots  SnapshotStore
	clock      Clock
	logger     Logger
	observers  []registeredObserver
	nextObsID  int
	persistErr error
}

// NewStore creates an empty store backed by snapshots.
// Call Load to read previously saved state.
func NewStore(snapshots SnapshotStore, clock Clock, logger Logger) *Store {
	return &Store{
		snapshots: snapshots,
		clock:     clock,
		logger:    logger,
	}
}

// Load replaces the in-memory state with the last saved snapshot.
// The active project is cleared; it is never persisted.
func (s *Store) Load(ctx context.Context) error {
	state, err := s.snapshots.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading snapshot: %w", err)
	}

	s.mu.Lock()
	s.projects = make([]Project, 0, len(state.Projects))
	for _, p := range state.Projects {
		s.projects = append(s.projects, p.Clone())
	}
	s.apiConfig = cloneAPIConfig(state.APIConfig)
	s.activeID = ""
	s.mu.Unlock()

	s.logger.Debug("store loaded", "projects", len(state.Projects))
	s.notify(Event{Op: OpLoad})
	return nil
}

// List returns all projects in insertion order.
func (s *Store) List() []Project {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Project, len(s.projects))
	for i, p := range s.projects {
		out[i] = p.Clone()
	}
	return out
}

// Get returns the project with the given id.
func (s *Store) Get(id string) (Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Project{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.projects[i].Clone(), nil
}

// Add appends a new project. The caller is responsible for a fresh id.
func (s *Store) Add(p Project) error {
	if p.ID == "" {
		return fmt.Errorf("%w: project id is empty", ErrInvalidInput)
	}

	s.mu.Lock()
	if s.indexOf(p.ID) >= 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrDuplicateID, p.ID)
	}
	if p.UpdatedAt.Before(p.CreatedAt) {
		p.UpdatedAt = p.CreatedAt
	}
	s.projects = append(s.projects, p.Clone())
	s.persistLocked()
	s.mu.Unlock()

	s.notify(Event{Op: OpAdd, ProjectID: p.ID})
	return nil
}

// Update merges the non-nil fields of u into the project and refreshes its
// UpdatedAt. UpdatedAt strictly increases even if the clock has not moved.
func (s *Store) Update(id string, u ProjectUpdate) (Project, error) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return Project{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	p := &s.projects[i]
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Outline != nil {
		p.Outline = *u.Outline
	}
	if u.Model != nil {
		p.Model = *u.Model
	}
	if u.APIKey != nil {
		p.APIKey = *u.APIKey
	}
	if u.Status != nil {
		p.Status = *u.Status
	}
	if u.Chapters != nil {
		p.Chapters = Project{Chapters: *u.Chapters}.Clone().Chapters
	}

	now := s.clock.Now()
	if !now.After(p.UpdatedAt) {
		now = p.UpdatedAt.Add(time.Nanosecond)
	}
	p.UpdatedAt = now

	updated := p.Clone()
	s.persistLocked()
	s.mu.Unlock()

	s.notify(Event{Op: OpUpdate, ProjectID: id})
	return updated, nil
}

// Delete removes the project and clears the active reference if it pointed at it.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	s.projects = append(s.projects[:i], s.projects[i+1:]...)
	if s.activeID == id {
		s.activeID = ""
	}
	s.persistLocked()
	s.mu.Unlock()

	s.notify(Event{Op: OpDelete, ProjectID: id})
	return nil
}

// SetActive marks the project as the one currently open.
func (s *Store) SetActive(id string) error {
	s.mu.Lock()
	if s.indexOf(id) < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.activeID = id
	s.persistLocked()
	s.mu.Unlock()

	s.notify(Event{Op: OpActive, ProjectID: id})
	return nil
}

// ClearActive unsets the active project.
func (s *Store) ClearActive() {
	s.mu.Lock()
	s.activeID = ""
	s.persistLocked()
	s.mu.Unlock()

	s.notify(Event{Op: OpActive})
}

// Active returns the current state of the active project, if any.
// Because the store tracks the active project by id, it never drifts from
// the canonical record.
func (s *Store) Active() (Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeID == "" {
		return Project{}, false
	}
	i := s.indexOf(s.activeID)
	if i < 0 {
		return Project{}, false
	}
	return s.projects[i].Clone(), true
}

// SetCredentialConfig replaces the remembered credential.
func (s *Store) SetCredentialConfig(cfg APIKeyConfig) {
	s.mu.Lock()
	s.apiConfig = &cfg
	s.persistLocked()
	s.mu.Unlock()

	s.notify(Event{Op: OpCredentials})
}

// CredentialConfig returns the remembered credential, if any.
func (s *Store) CredentialConfig() (APIKeyConfig, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.apiConfig == nil {
		return APIKeyConfig{}, false
	}
	return *s.apiConfig, true
}

// Subscribe registers an observer and returns a function that removes it.
func (s *Store) Subscribe(fn Observer) (cancel func()) {
	s.mu.Lock()
	id := s.nextObsID
	s.nextObsID++
	s.observers = append(s.observers, registeredObserver{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, o := range s.observers {
			if o.id == id {
				s.observers = append(s.observers[:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

// LastPersistError returns the error from the most recent snapshot write,
// or nil if it succeeded. Persistence failures never fail a mutation.
func (s *Store) LastPersistError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistErr
}

func (s *Store) indexOf(id string) int {
	for i := range s.projects {
		if s.projects[i].ID == id {
			return i
		}
	}
	return -1
}

// persistLocked writes the durable state. Must be called with s.mu held.
func (s *Store) persistLocked() {
	state := &State{
		Projects:  make([]Project, len(s.projects)),
		APIConfig: cloneAPIConfig(s.apiConfig),
	}
	for i, p := range s.projects {
		state.Projects[i] = p.Clone()
	}

	s.persistErr = s.snapshots.Save(context.Background(), state)
	if s.persistErr != nil {
		s.logger.Warn("persisting snapshot failed", "error", s.persistErr)
	}
}

func (s *Store) notify(ev Event) {
	s.mu.Lock()
	observers := make([]Observer, 0, len(s.observers))
	for _, o := range s.observers {
		observers = append(observers, o.fn)
	}
	s.mu.Unlock()

	for _, fn := range observers {
		fn(ev)
	}
}

func cloneAPIConfig(cfg *APIKeyConfig) *APIKeyConfig {
	if cfg == nil {
		return nil
	}
	c := *cfg
	return &c
}
