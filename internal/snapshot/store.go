// Package snapshot persists the project store's State as a single JSON record
// under a fixed namespace, on one of several pluggable backends.
package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"tb-go/internal/tb"
)

// Namespace is the key the state record is stored under.
const Namespace = "training-builder-storage"

// formatVersion is written into every record. Records with a newer version
// are refused rather than misread.
const formatVersion = 1

// blobStore is the storage mechanics behind Store. Backends only move bytes;
// encoding and sealing live in Store.
type blobStore interface {
	// Get returns the record for key. found is false if no record exists.
	Get(ctx context.Context, key string) (data []byte, found bool, err error)

	// Put replaces the record for key.
	Put(ctx context.Context, key string, data []byte) error

	Close() error
}

// Store implements tb.SnapshotStore on top of a blobStore.
type Store struct {
	blobs     blobStore
	sealer    tb.Sealer
	namespace string
}

var _ tb.SnapshotStore = (*Store)(nil)

func newStore(blobs blobStore, sealer tb.Sealer) *Store {
	return &Store{blobs: blobs, sealer: sealer, namespace: Namespace}
}

// record is the on-disk layout.
type record struct {
	Version int         `json:"version"`
	State   recordState `json:"state"`
}

type recordState struct {
	Projects  []tb.Project     `json:"projects"`
	APIConfig *tb.APIKeyConfig `json:"apiConfig"`
}

// Load reads and decodes the state. A missing record is an empty state.
func (s *Store) Load(ctx context.Context) (*tb.State, error) {
	data, found, err := s.blobs.Get(ctx, s.namespace)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	if !found {
		return &tb.State{Projects: []tb.Project{}}, nil
	}

	var rec record
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	if rec.Version > formatVersion {
		return nil, fmt.Errorf("snapshot format version %d is newer than supported version %d", rec.Version, formatVersion)
	}

	state := &tb.State{Projects: rec.State.Projects, APIConfig: rec.State.APIConfig}
	if state.Projects == nil {
		state.Projects = []tb.Project{}
	}
	for i := range state.Projects {
		key, err := s.open(state.Projects[i].APIKey)
		if err != nil {
			return nil, fmt.Errorf("opening api key of project %s: %w", state.Projects[i].ID, err)
		}
		state.Projects[i].APIKey = key
	}
	if state.APIConfig != nil {
		key, err := s.open(state.APIConfig.APIKey)
		if err != nil {
			return nil, fmt.Errorf("opening remembered api key: %w", err)
		}
		state.APIConfig.APIKey = key
	}

	return state, nil
}

// Save seals credentials, encodes the state and writes it.
func (s *Store) Save(ctx context.Context, state *tb.State) error {
	rec := record{Version: formatVersion}
	rec.State.Projects = make([]tb.Project, len(state.Projects))
	for i, p := range state.Projects {
		p = p.Clone()
		key, err := s.seal(p.APIKey)
		if err != nil {
			return fmt.Errorf("sealing api key of project %s: %w", p.ID, err)
		}
		p.APIKey = key
		rec.State.Projects[i] = p
	}
	if state.APIConfig != nil {
		cfg := *state.APIConfig
		key, err := s.seal(cfg.APIKey)
		if err != nil {
			return fmt.Errorf("sealing remembered api key: %w", err)
		}
		cfg.APIKey = key
		rec.State.APIConfig = &cfg
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if err := s.blobs.Put(ctx, s.namespace, data); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// Close closes the backend.
func (s *Store) Close() error {
	return s.blobs.Close()
}

func (s *Store) seal(v string) (string, error) {
	if v == "" {
		return "", nil
	}
	return s.sealer.Seal(v)
}

func (s *Store) open(v string) (string, error) {
	if v == "" {
		return "", nil
	}
	return s.sealer.Open(v)
}
