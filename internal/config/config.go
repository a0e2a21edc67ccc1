package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for tb.
type Config struct {
	BaseDir    string           `toml:"base_dir"`
	LogDir     string           `toml:"log_dir"`
	LogLevel   string           `toml:"log_level"` // "debug", "info" (default), "warn", "error"
	Store      StoreConfig      `toml:"store"`
	Sealing    SealingConfig    `toml:"sealing"`
	Generation GenerationConfig `toml:"generation"`
	AutoSave   AutoSaveConfig   `toml:"autosave"`
}

// StoreConfig selects where project state is persisted.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type StoreConfig struct {
	Type string `toml:"type"` // "memory", "filesystem", "sqlite" or "s3"

	// Filesystem-specific fields (only used when Type == "filesystem")
	Dir string `toml:"dir,omitempty"`

	// SQLite-specific fields (only used when Type == "sqlite")
	DBPath string `toml:"db_path,omitempty"`

	// S3-specific fields (only used when Type == "s3")
	S3Bucket          string `toml:"s3_bucket,omitempty"`
	S3Prefix          string `toml:"s3_prefix,omitempty"`
	S3Region          string `toml:"s3_region,omitempty"`
	S3Endpoint        string `toml:"s3_endpoint,omitempty"`
	S3UsePathStyle    bool   `toml:"s3_use_path_style,omitempty"`
	S3AccessKeyID     string `toml:"s3_access_key_id,omitempty"`
	S3SecretAccessKey string `toml:"s3_secret_access_key,omitempty"`
}

// SealingConfig selects how API keys are protected at rest.
type SealingConfig struct {
	Type         string `toml:"type"`                    // "age" (default), "none" or "test"
	IdentityPath string `toml:"identity_path,omitempty"` // age X25519 identity file
}

// GenerationConfig tunes the simulated generator.
type GenerationConfig struct {
	TickInterval string  `toml:"tick_interval"` // duration, e.g. "1s"
	MaxStep      float64 `toml:"max_step"`      // max progress increment per tick
	LogChance    float64 `toml:"log_chance"`    // probability of a log line per tick
}

// AutoSaveConfig tunes outline auto-save.
type AutoSaveConfig struct {
	QuietPeriod string `toml:"quiet_period"` // duration, e.g. "2s"
}

// Interval parses TickInterval. Empty means def.
func (g GenerationConfig) Interval(def time.Duration) (time.Duration, error) {
	return parseDuration("generation.tick_interval", g.TickInterval, def)
}

// Quiet parses QuietPeriod. Empty means def.
func (a AutoSaveConfig) Quiet(def time.Duration) (time.Duration, error) {
	return parseDuration("autosave.quiet_period", a.QuietPeriod, def)
}

func parseDuration(field, v string, def time.Duration) (time.Duration, error) {
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", field, v, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", field, v)
	}
	return d, nil
}

// NewConfig creates a new Config rooted at baseDir with a sqlite store and
// age sealing.
func NewConfig(baseDir string) *Config {
	return &Config{
		BaseDir:  baseDir,
		LogDir:   filepath.Join(baseDir, "log"),
		LogLevel: "info",
		Store: StoreConfig{
			Type:   "sqlite",
			DBPath: filepath.Join(baseDir, "tb.db"),
		},
		Sealing: SealingConfig{
			Type:         "age",
			IdentityPath: filepath.Join(baseDir, "keys", "tb.age"),
		},
		Generation: GenerationConfig{
			TickInterval: "1s",
			MaxStep:      5,
			LogChance:    0.3,
		},
		AutoSave: AutoSaveConfig{
			QuietPeriod: "2s",
		},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
// The file may contain S3 secrets, so it is created owner-only.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
