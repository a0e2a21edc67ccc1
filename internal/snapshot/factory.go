package snapshot

import (
	"context"
	"fmt"

	"tb-go/internal/config"
	"tb-go/internal/tb"
)

// NewSnapshotStoreFromConfig creates a Store based on the store config type.
func NewSnapshotStoreFromConfig(ctx context.Context, cfg config.StoreConfig, sealer tb.Sealer, clock tb.Clock) (*Store, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DBPath == "" {
			return nil, fmt.Errorf("db_path required for sqlite store")
		}
		return NewSQLiteStore(cfg.DBPath, sealer, clock)
	case "filesystem":
		if cfg.Dir == "" {
			return nil, fmt.Errorf("dir required for filesystem store")
		}
		return NewFileSystemStore(cfg.Dir, sealer)
	case "s3":
		return NewS3Store(ctx, S3Options{
			Bucket:          cfg.S3Bucket,
			Prefix:          cfg.S3Prefix,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			UsePathStyle:    cfg.S3UsePathStyle,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		}, sealer)
	case "memory":
		return NewMemoryStore(sealer), nil
	default:
		return nil, fmt.Errorf("unknown store type: %q", cfg.Type)
	}
}
