package tb

import "context"

// State is the durable part of the store: every project plus the remembered
// credential. The active project pointer is not part of it.
type State struct {
	Projects  []Project
	APIConfig *APIKeyConfig
}

// SnapshotStore persists State wholesale.
// Load returns an empty State when nothing has been saved yet.
type SnapshotStore interface {
	// Load reads the last saved State.
	Load(ctx context.Context) (*State, error)

	// Save replaces the stored State.
	Save(ctx context.Context, state *State) error

	// Close releases any underlying resources.
	Close() error
}

// Sealer protects credential strings at rest.
type Sealer interface {
	// Seal returns an opaque text form of plaintext.
	Seal(plaintext string) (string, error)

	// Open reverses Seal.
	Open(sealed string) (string, error)
}
