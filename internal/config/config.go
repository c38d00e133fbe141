package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Config holds application configuration.
type Config struct {
	// RelayURL is the base URL of the trusted relay that fronts the
	// document database and the AI providers.
	RelayURL string `json:"relay_url"`

	// ContentDatabaseID, ContextsDatabaseID and ModelsDatabaseID are the
	// remote database ids for the three synchronized collections.
	ContentDatabaseID  string `json:"content_database_id,omitempty"`
	ContextsDatabaseID string `json:"contexts_database_id,omitempty"`
	ModelsDatabaseID   string `json:"models_database_id,omitempty"`

	// DefaultModelID selects the model profile used when an AI action
	// does not name one. Defaults to the built-in fast model.
	DefaultModelID string `json:"default_model_id,omitempty"`

	// FullResyncHours is the age of the last full sync beyond which the
	// next cycle performs a full fetch instead of an incremental one.
	FullResyncHours int `json:"full_resync_hours"`

	// PageSize is the page size used for remote collection queries.
	PageSize int `json:"page_size"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// If set to 1, all database access is serialized.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultFullResyncHours is the full-resync threshold applied when the
// config does not set one.
const DefaultFullResyncHours = 24

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		RelayURL:        "https://relay.pressroom.local",
		DefaultModelID:  "builtin-fast",
		FullResyncHours: DefaultFullResyncHours,
		PageSize:        100,
	}
}

// Load loads configuration from baseDir/config.json, merged over defaults,
// then applies environment overrides. Returns defaults if the file doesn't
// exist. The baseDir parameter allows tests to use t.TempDir().
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	merged := Merge(DefaultConfig(), cfg)

	if url := os.Getenv("PRESSROOM_RELAY_URL"); url != "" {
		merged.RelayURL = url
	}
	return merged, nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are concatenated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.RelayURL = pick(overlay.RelayURL, base.RelayURL)
	result.ContentDatabaseID = pick(overlay.ContentDatabaseID, base.ContentDatabaseID)
	result.ContextsDatabaseID = pick(overlay.ContextsDatabaseID, base.ContextsDatabaseID)
	result.ModelsDatabaseID = pick(overlay.ModelsDatabaseID, base.ModelsDatabaseID)
	result.DefaultModelID = pick(overlay.DefaultModelID, base.DefaultModelID)

	result.FullResyncHours = overlay.FullResyncHours
	if result.FullResyncHours == 0 {
		result.FullResyncHours = base.FullResyncHours
	}
	result.PageSize = overlay.PageSize
	if result.PageSize == 0 {
		result.PageSize = base.PageSize
	}
	result.DBMaxOpenConns = overlay.DBMaxOpenConns
	if result.DBMaxOpenConns == 0 {
		result.DBMaxOpenConns = base.DBMaxOpenConns
	}
	result.DBMaxIdleConns = overlay.DBMaxIdleConns
	if result.DBMaxIdleConns == 0 {
		result.DBMaxIdleConns = base.DBMaxIdleConns
	}

	result.DisabledTools = append(result.DisabledTools, base.DisabledTools...)
	result.DisabledTools = append(result.DisabledTools, overlay.DisabledTools...)
	if len(result.DisabledTools) == 0 {
		result.DisabledTools = nil
	}

	return result
}

func pick(overlay, base string) string {
	if overlay != "" {
		return overlay
	}
	return base
}
