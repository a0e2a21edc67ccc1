package app

import (
	"fmt"
	"os"
	"path/filepath"

	"tb-go/internal/config"
)

// Defaults is where a fresh install keeps its config and data, and which
// store backend `tb config init` writes into the new config.
//
// Environment variables:
//   - TB_CONFIG_PATH: config file location (default: ~/.config/tb.toml)
//   - TB_HOME: base directory for tb data (default: ~/.local/share/tb)
//   - TB_STORE: "sqlite" (default), "filesystem" or "memory"
type Defaults struct {
	ConfigPath string
	BaseDir    string
	StoreType  string
}

// GetDefaults resolves Defaults from the environment and the user's home.
func GetDefaults() (*Defaults, error) {
	home, err := os.UserHomeDir()
	if err != nil && (os.Getenv("TB_CONFIG_PATH") == "" || os.Getenv("TB_HOME") == "") {
		return nil, fmt.Errorf("cannot determine home directory: %w", err)
	}

	d := &Defaults{
		ConfigPath: envOr("TB_CONFIG_PATH", filepath.Join(home, ".config", "tb.toml")),
		BaseDir:    envOr("TB_HOME", filepath.Join(home, ".local", "share", "tb")),
		StoreType:  envOr("TB_STORE", "sqlite"),
	}
	switch d.StoreType {
	case "sqlite", "filesystem", "memory":
	default:
		return nil, fmt.Errorf("invalid TB_STORE %q: want sqlite, filesystem or memory", d.StoreType)
	}
	return d, nil
}

// Config builds the initial configuration rooted at BaseDir.
func (d *Defaults) Config() *config.Config {
	cfg := config.NewConfig(d.BaseDir)
	switch d.StoreType {
	case "filesystem":
		cfg.Store = config.StoreConfig{Type: "filesystem", Dir: filepath.Join(d.BaseDir, "projects")}
	case "memory":
		cfg.Store = config.StoreConfig{Type: "memory"}
	}
	return cfg
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
