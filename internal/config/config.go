package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Log levels accepted in log_level.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Config represents the main configuration for ft.
type Config struct {
	BaseDir    string           `toml:"base_dir"`
	LogDir     string           `toml:"log_dir"`
	LogLevel   string           `toml:"log_level"`
	Hash       HashConfig       `toml:"hash"`
	Dedupe     DedupeConfig     `toml:"dedupe"`
	Filesystem FilesystemConfig `toml:"filesystem"`
	Created    CreatedConfig    `toml:"created"`
	Organize   OrganizeConfig   `toml:"organize"`
}

// HashConfig controls content hashing.
type HashConfig struct {
	ChunkSize int `toml:"chunk_size"` // read buffer in bytes; 0 selects the built-in default
}

// DedupeConfig holds defaults for the duplicate finder.
type DedupeConfig struct {
	CSVLog string `toml:"csv_log,omitempty"` // audit log path used when --csv-log is not given
}

// FilesystemConfig holds filesystem-related settings.
type FilesystemConfig struct {
	Ignore []string `toml:"ignore"`
}

// CreatedConfig holds defaults for the created command.
type CreatedConfig struct {
	Format  string   `toml:"format"`
	Exclude []string `toml:"exclude,omitempty"` // empty selects the built-in excludes
}

// OrganizeConfig holds defaults for the organize command.
type OrganizeConfig struct {
	DateSource string   `toml:"date_source"`
	Exclude    []string `toml:"exclude,omitempty"` // empty selects the built-in excludes
	CSVLog     string   `toml:"csv_log,omitempty"`
}

// NewConfig creates a Config with default values rooted at baseDir.
func NewConfig(baseDir string) *Config {
	return &Config{
		BaseDir:  baseDir,
		LogDir:   filepath.Join(baseDir, "log"),
		LogLevel: LogLevelInfo,
		Created: CreatedConfig{
			Format: "readable",
		},
		Organize: OrganizeConfig{
			DateSource: "created",
		},
	}
}

// Validate checks field values.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.LogDir, validation.Required),
		validation.Field(&c.LogLevel, validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError)),
	); err != nil {
		return err
	}
	if err := c.Hash.Validate(); err != nil {
		return fmt.Errorf("hash: %w", err)
	}
	if err := c.Created.Validate(); err != nil {
		return fmt.Errorf("created: %w", err)
	}
	if err := c.Organize.Validate(); err != nil {
		return fmt.Errorf("organize: %w", err)
	}
	return nil
}

// Validate checks the hashing settings.
func (c *HashConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.ChunkSize, validation.Min(512), validation.Max(64<<20)),
	)
}

// Validate checks the created command settings.
func (c *CreatedConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Format, validation.In("readable", "json", "csv", "timestamp")),
	)
}

// Validate checks the organize command settings.
func (c *OrganizeConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.DateSource, validation.In("created", "modified")),
	)
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

// ReadInto decodes r over cfg, keeping values the input does not set.
func (m *Manager) ReadInto(r io.Reader, cfg *Config) error {
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}
	return nil
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

// ReadOrDefault reads the config at path on top of defaults and validates the
// result. A missing file is not an error: defaults are returned unchanged.
func ReadOrDefault(path string, defaults *Config) (*Config, error) {
	cfg := *defaults
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.ReadInto(f, &cfg); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
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
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
