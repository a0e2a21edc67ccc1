package sealing

import (
	"fmt"

	"tb-go/internal/config"
	"tb-go/internal/tb"
)

// NewSealerFromConfig creates a Sealer based on the configuration type.
func NewSealerFromConfig(cfg config.SealingConfig) (tb.Sealer, error) {
	switch cfg.Type {
	case "age", "":
		if cfg.IdentityPath == "" {
			return nil, fmt.Errorf("identity_path required for age sealing")
		}
		return NewAgeSealer(cfg.IdentityPath), nil
	case "none":
		return NoneSealer{}, nil
	case "test":
		return NewTestSealer(), nil
	default:
		return nil, fmt.Errorf("unknown sealing type: %q", cfg.Type)
	}
}
