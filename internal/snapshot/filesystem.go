package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"tb-go/internal/tb"
)

// fileBlobs stores each record as <dir>/<key>.json.
type fileBlobs struct {
	dir string
}

// NewFileSystemStore creates a Store that keeps its record as a JSON file in dir.
// The directory is created if it does not exist.
func NewFileSystemStore(dir string, sealer tb.Sealer) (*Store, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return newStore(&fileBlobs{dir: dir}, sealer), nil
}

func (f *fileBlobs) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

func (f *fileBlobs) Get(_ context.Context, key string) ([]byte, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read snapshot file: %w", err)
	}
	return data, true, nil
}

// Put writes the record atomically (temp file + rename).
func (f *fileBlobs) Put(_ context.Context, key string, data []byte) error {
	destPath := f.path(key)

	// Create temp file in the same directory so the rename stays on one filesystem
	tmpFile, err := os.CreateTemp(f.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := tmpFile.Chmod(0600); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

func (f *fileBlobs) Close() error { return nil }
