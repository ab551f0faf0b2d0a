package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Source formats understood by the ingestion adapters.
const (
	FormatJSON   = "json"
	FormatBlocks = "blocks"
	FormatICS    = "ics"
)

// SourceConfig describes a single class-schedule source.
type SourceConfig struct {
	// URL is the schedule document endpoint.
	URL string `yaml:"url" json:"url"`
	// ID is an internal identifier used for caching and logging.
	ID string `yaml:"id" json:"id"`
	// Name is a human-friendly label.
	Name string `yaml:"name" json:"name"`
	// Format selects the ingestion adapter: "json", "blocks" or "ics".
	Format string `yaml:"format" json:"format"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the Web UI/API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the Web UI and API.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA timezone all class times are displayed in.
	Timezone string `yaml:"timezone" json:"timezone"`

	// Language selects the translation table: "en", "es" or "cat".
	Language string `yaml:"language" json:"language"`

	// WhatsAppNumber is the studio contact number used for booking links.
	WhatsAppNumber string `yaml:"whatsapp_number" json:"whatsapp_number"`

	// BookViaWhatsApp toggles booking links in rendered schedules.
	BookViaWhatsApp bool `yaml:"book_via_whatsapp" json:"book_via_whatsapp"`

	// RefreshCron is a cron-style schedule string (e.g. "*/15 * * * *")
	// used for periodic source refresh.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// DataDir is where the workout-plan store, source caches and
	// rendered artifacts live.
	DataDir string `yaml:"data_dir" json:"data_dir"`

	// ExerciseCSV is the path to the exercise catalog. Empty disables
	// the exercise library endpoints.
	ExerciseCSV string `yaml:"exercise_csv" json:"exercise_csv"`

	// Sources is the list of subscribed class-schedule sources.
	Sources []SourceConfig `yaml:"sources" json:"sources"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all
	// endpoints except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:          "127.0.0.1:8080",
		Timezone:        "Europe/Madrid",
		Language:        "en",
		WhatsAppNumber:  "",
		BookViaWhatsApp: false,
		RefreshCron:     "*/15 * * * *",
		DataDir:         "/var/lib/fitcal",
		Sources:         []SourceConfig{},
		BasicAuth:       nil,
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.Timezone == "" {
		c.Timezone = "Europe/Madrid"
	}
	switch c.Language {
	case "en", "es", "cat":
		// ok
	default:
		c.Language = "en"
	}
	if c.RefreshCron == "" {
		c.RefreshCron = "*/15 * * * *"
	}
	if c.DataDir == "" {
		c.DataDir = "/var/lib/fitcal"
	}
	if c.Sources == nil {
		c.Sources = []SourceConfig{}
	}
	for i := range c.Sources {
		src := &c.Sources[i]
		if src.ID == "" {
			if src.Name != "" {
				src.ID = src.Name
			} else {
				src.ID = src.URL
			}
		}
		switch src.Format {
		case FormatJSON, FormatBlocks, FormatICS:
			// ok
		case "":
			src.Format = FormatJSON
		}
	}
}

// Validate rejects configurations Normalize cannot repair.
func (c *Config) Validate() error {
	for _, src := range c.Sources {
		switch src.Format {
		case FormatJSON, FormatBlocks, FormatICS:
		default:
			return fmt.Errorf("source %q: unknown format %q", src.ID, src.Format)
		}
		if src.URL == "" {
			return fmt.Errorf("source %q: url is empty", src.ID)
		}
	}
	return nil
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - return the default config
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize defaults and validate
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the given configuration to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Marshals cfg to YAML.
//   - Writes atomically via a temp file + rename.
//   - Ensures final file permissions are 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	// Atomic write: write to temp file in same directory then rename.
	tmp, err := os.CreateTemp(dir, ".fitcal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Ensure we clean up temp file on error.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}

	// Flush and close before chmod/rename.
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		return err
	}

	return nil
}

// Save is a convenience method on Config that delegates to the
// package-level Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
