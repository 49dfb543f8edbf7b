// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"github.com/jeranaias/mentionkit/internal/render"
	"github.com/jeranaias/mentionkit/internal/util"
)

// Listener sources understood by the suggest package.
const (
	SourcePartners = "partners"
	SourceChannels = "channels"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete mentionkit configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Mention detection and suggestion scheduling
	Mention MentionConfig `toml:"mention" json:"mention"`

	// Link rewriting
	Links LinksConfig `toml:"links" json:"links"`

	// Registered mention kinds, in registration order
	Listeners []ListenerConfig `toml:"listener" json:"listener"`

	// Record directory backing the suggestion sources
	Directory DirectoryConfig `toml:"directory" json:"directory"`

	// Draft documents
	Storage StorageConfig `toml:"storage" json:"storage"`

	// Composer and preview
	Editor EditorConfig `toml:"editor" json:"editor"`

	Log     LogConfig     `toml:"log" json:"log"`
	Metrics MetricsConfig `toml:"metrics" json:"metrics"`
}

// MentionConfig contains mention engine settings.
type MentionConfig struct {
	// MinLength is the number of characters a mention word must exceed
	// before suggestions are fetched. 0 fetches from the first character.
	MinLength int `toml:"min_length" json:"min_length"`
	// TypingSpeedMs is the debounce delay in milliseconds.
	TypingSpeedMs int `toml:"typing_speed_ms" json:"typing_speed_ms"`
	// FetchLimit caps the number of suggestions per fetch.
	FetchLimit int `toml:"fetch_limit" json:"fetch_limit"`
	// DiscardStale drops results of fetches superseded by newer typing.
	DiscardStale bool `toml:"discard_stale" json:"discard_stale"`
}

// LinksConfig contains link rewriting settings.
type LinksConfig struct {
	// BaseURL prefixes record addresses, e.g. "/web" or "https://erp.example.com/web".
	BaseURL string `toml:"base_url" json:"base_url"`
}

// ListenerConfig describes one mention kind.
type ListenerConfig struct {
	Delimiter string `toml:"delimiter" json:"delimiter"`
	Model     string `toml:"model" json:"model"`
	LinkClass string `toml:"link_class" json:"link_class"`
	// Source is "partners" or "channels".
	Source string `toml:"source" json:"source"`
}

// DirectoryConfig contains record directory settings.
type DirectoryConfig struct {
	// Path is the SQLite database file (empty = ~/.mentionkit/directory.db)
	Path string `toml:"path" json:"path"`
	// SeedFile is an optional TOML file of partners and channels imported on start.
	SeedFile string `toml:"seed_file" json:"seed_file"`
	// WatchSeed re-imports the seed file when it changes.
	WatchSeed bool `toml:"watch_seed" json:"watch_seed"`
	// RatePerSec throttles directory lookups (0 = unlimited).
	RatePerSec float64 `toml:"rate_per_sec" json:"rate_per_sec"`
	// Burst is the number of lookups allowed at once when throttled.
	Burst int `toml:"burst" json:"burst"`
}

// StorageConfig contains draft storage settings.
type StorageConfig struct {
	// Dir holds one JSON file per draft (empty = ~/.mentionkit/documents)
	Dir string `toml:"dir" json:"dir"`
}

// EditorConfig contains composer settings.
type EditorConfig struct {
	// Mode is the highlighting language of the raw source view.
	Mode string `toml:"mode" json:"mode"`
	// Theme is the highlighting style of the raw source view.
	Theme string `toml:"theme" json:"theme"`
	// PreviewWidth is the word wrap width of the rendered preview.
	PreviewWidth int `toml:"preview_width" json:"preview_width"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `toml:"level" json:"level"`
	// JSON switches from the console writer to JSON lines.
	JSON bool `toml:"json" json:"json"`
	// File receives logs while the composer owns the terminal
	// (empty = ~/.mentionkit/mentionkit.log)
	File string `toml:"file" json:"file"`
}

// MetricsConfig contains metrics exposition settings.
type MetricsConfig struct {
	// Addr serves /metrics when set, e.g. "127.0.0.1:9464".
	Addr string `toml:"addr" json:"addr"`
}

// TypingSpeed returns the debounce delay as a duration.
func (c *Config) TypingSpeed() time.Duration {
	return time.Duration(c.Mention.TypingSpeedMs) * time.Millisecond
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		Mention: MentionConfig{
			MinLength:     0,
			TypingSpeedMs: 200,
			FetchLimit:    8,
			DiscardStale:  false,
		},

		Links: LinksConfig{
			BaseURL: "/web",
		},

		Listeners: DefaultListeners(),

		Directory: DirectoryConfig{
			WatchSeed:  true,
			RatePerSec: 10,
			Burst:      3,
		},

		Editor: EditorConfig{
			Mode:         "markdown",
			Theme:        "monokai",
			PreviewWidth: 80,
		},

		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultListeners returns the partner and channel mention kinds.
func DefaultListeners() []ListenerConfig {
	return []ListenerConfig{
		{Delimiter: "@", Model: "res.partner", LinkClass: "o_mail_redirect", Source: SourcePartners},
		{Delimiter: "#@", Model: "mail.channel", LinkClass: "o_channel_redirect", Source: SourceChannels},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the mentionkit configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".mentionkit"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// inConfigDir joins name onto the config directory, falling back to a relative
// ".mentionkit" when the home directory is unknown.
func inConfigDir(name string) string {
	dir, err := ConfigDir()
	if err != nil {
		dir = ".mentionkit"
	}
	return filepath.Join(dir, name)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()
	var loadErr error

	if tomlPath, err := ConfigPathTOML(); err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				loadErr = fmt.Errorf("failed to load TOML config: %w", err)
			} else {
				return finalize(cfg)
			}
		}
	}

	if jsonPath, err := ConfigPathJSON(); err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			cfg = Default()
			if err := LoadJSON(cfg, jsonPath); err != nil {
				loadErr = fmt.Errorf("failed to load JSON config: %w", err)
			} else {
				return finalize(cfg)
			}
		}
	}

	cfg, err := finalize(Default())
	if err != nil {
		return nil, err
	}
	// Defaults, with any load error for informational purposes
	return cfg, loadErr
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	// An explicit listener list replaces the defaults. Decoding into the
	// default slice would merge fields element by element.
	if md.IsDefined("listener") {
		var only struct {
			Listeners []ListenerConfig `toml:"listener"`
		}
		if _, err := toml.DecodeFile(path, &only); err != nil {
			return fmt.Errorf("failed to decode TOML listeners: %w", err)
		}
		cfg.Listeners = only.Listeners
	}
	return nil
}

// LoadJSON decodes a JSON file over cfg.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}

	// Same as LoadTOML: listeners replace the defaults as a whole.
	var only struct {
		Listeners []ListenerConfig `json:"listener"`
	}
	if err := json.Unmarshal(data, &only); err != nil {
		return fmt.Errorf("failed to decode JSON listeners: %w", err)
	}
	if only.Listeners != nil {
		cfg.Listeners = only.Listeners
	}
	return nil
}

// LoadFromPath loads configuration from a specific file path with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	return finalize(cfg)
}

func finalize(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.Migrate()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file.
// RELIABILITY: Atomic write with fsync prevents data loss on crash
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "# mentionkit configuration file")
	fmt.Fprintln(&buf, "# Generated by mentionkit - edit with care")
	fmt.Fprintln(&buf, "")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON saves the configuration to a JSON file.
// RELIABILITY: Atomic write with fsync prevents data loss on crash
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	// ==========================================================================
	// Mention Settings Validation
	// ==========================================================================

	if c.Mention.MinLength < 0 {
		errs = append(errs, ValidationError{
			Field:   "mention.min_length",
			Message: fmt.Sprintf("must be non-negative, got %d", c.Mention.MinLength),
		})
	}
	if c.Mention.TypingSpeedMs < 0 || c.Mention.TypingSpeedMs > 5000 {
		errs = append(errs, ValidationError{
			Field:   "mention.typing_speed_ms",
			Message: fmt.Sprintf("must be 0-5000, got %d", c.Mention.TypingSpeedMs),
		})
	}
	if c.Mention.FetchLimit < 1 || c.Mention.FetchLimit > 100 {
		errs = append(errs, ValidationError{
			Field:   "mention.fetch_limit",
			Message: fmt.Sprintf("must be 1-100, got %d", c.Mention.FetchLimit),
		})
	}

	if _, err := url.Parse(c.Links.BaseURL); err != nil {
		errs = append(errs, ValidationError{
			Field:   "links.base_url",
			Message: fmt.Sprintf("invalid URL: %v", err),
		})
	}

	// ==========================================================================
	// Listener Validation
	// ==========================================================================

	if len(c.Listeners) == 0 {
		errs = append(errs, ValidationError{
			Field:   "listener",
			Message: "at least one listener is required",
		})
	}
	seen := make(map[string]bool)
	for i, l := range c.Listeners {
		field := fmt.Sprintf("listener[%d]", i)
		switch {
		case l.Delimiter == "":
			errs = append(errs, ValidationError{Field: field + ".delimiter", Message: "must not be empty"})
		case strings.ContainsAny(l.Delimiter, " \t\r\n"):
			errs = append(errs, ValidationError{Field: field + ".delimiter", Message: "must not contain whitespace"})
		case seen[l.Delimiter]:
			errs = append(errs, ValidationError{Field: field + ".delimiter", Message: fmt.Sprintf("duplicate delimiter %q", l.Delimiter)})
		}
		seen[l.Delimiter] = true

		if l.Model == "" {
			errs = append(errs, ValidationError{Field: field + ".model", Message: "must not be empty"})
		}
		if l.Source != SourcePartners && l.Source != SourceChannels {
			errs = append(errs, ValidationError{
				Field:   field + ".source",
				Message: fmt.Sprintf("invalid source '%s', must be one of: partners, channels", l.Source),
			})
		}
	}

	// ==========================================================================
	// Directory Settings Validation
	// ==========================================================================

	if c.Directory.RatePerSec < 0 {
		errs = append(errs, ValidationError{
			Field:   "directory.rate_per_sec",
			Message: "must be non-negative",
		})
	}
	if c.Directory.RatePerSec > 0 && c.Directory.Burst < 1 {
		errs = append(errs, ValidationError{
			Field:   "directory.burst",
			Message: fmt.Sprintf("must be at least 1 when throttled, got %d", c.Directory.Burst),
		})
	}

	// ==========================================================================
	// Editor and Log Validation
	// ==========================================================================

	if !render.KnownMode(c.Editor.Mode) {
		errs = append(errs, ValidationError{
			Field:   "editor.mode",
			Message: fmt.Sprintf("no highlighter for '%s'", c.Editor.Mode),
		})
	}
	if !render.KnownTheme(c.Editor.Theme) {
		errs = append(errs, ValidationError{
			Field:   "editor.theme",
			Message: fmt.Sprintf("unknown theme '%s'", c.Editor.Theme),
		})
	}
	if c.Editor.PreviewWidth < 20 || c.Editor.PreviewWidth > 400 {
		errs = append(errs, ValidationError{
			Field:   "editor.preview_width",
			Message: fmt.Sprintf("must be 20-400, got %d", c.Editor.PreviewWidth),
		})
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s'", c.Log.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults sets default values for any missing or zero-value configuration fields.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}

	if c.Mention.FetchLimit == 0 {
		c.Mention.FetchLimit = defaults.Mention.FetchLimit
	}

	if c.Links.BaseURL == "" {
		c.Links.BaseURL = defaults.Links.BaseURL
	}
	if c.Listeners == nil {
		c.Listeners = defaults.Listeners
	}

	if c.Directory.Path == "" {
		c.Directory.Path = inConfigDir("directory.db")
	}
	if c.Directory.RatePerSec > 0 && c.Directory.Burst == 0 {
		c.Directory.Burst = defaults.Directory.Burst
	}

	if c.Storage.Dir == "" {
		c.Storage.Dir = inConfigDir("documents")
	}

	if c.Editor.Mode == "" {
		c.Editor.Mode = defaults.Editor.Mode
	}
	if c.Editor.Theme == "" {
		c.Editor.Theme = defaults.Editor.Theme
	}
	if c.Editor.PreviewWidth == 0 {
		c.Editor.PreviewWidth = defaults.Editor.PreviewWidth
	}

	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.Log.File == "" {
		c.Log.File = inConfigDir("mentionkit.log")
	}
}

// Migrate normalizes hand-edited values.
func (c *Config) Migrate() {
	for i := range c.Listeners {
		c.Listeners[i].Delimiter = strings.TrimSpace(c.Listeners[i].Delimiter)
		c.Listeners[i].Source = strings.ToLower(strings.TrimSpace(c.Listeners[i].Source))
	}
	c.Log.Level = strings.ToLower(c.Log.Level)
	c.Links.BaseURL = strings.TrimSuffix(c.Links.BaseURL, "#")
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - MENTIONKIT_BASE_URL: overrides links.base_url
//   - MENTIONKIT_MIN_LENGTH: overrides mention.min_length
//   - MENTIONKIT_TYPING_SPEED_MS: overrides mention.typing_speed_ms
//   - MENTIONKIT_DISCARD_STALE: set to "1" or "true" to drop stale suggestions
//   - MENTIONKIT_DIRECTORY: overrides directory.path
//   - MENTIONKIT_LOG_LEVEL: overrides log.level
//   - MENTIONKIT_METRICS_ADDR: overrides metrics.addr
func (c *Config) ApplyEnvOverrides() {
	if base := os.Getenv("MENTIONKIT_BASE_URL"); base != "" {
		c.Links.BaseURL = base
	}

	// Malformed numbers are ignored, the file value stands.
	if v := os.Getenv("MENTIONKIT_MIN_LENGTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Mention.MinLength = n
		}
	}
	if v := os.Getenv("MENTIONKIT_TYPING_SPEED_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Mention.TypingSpeedMs = n
		}
	}

	if v := os.Getenv("MENTIONKIT_DISCARD_STALE"); v != "" {
		c.Mention.DiscardStale = v == "1" || strings.ToLower(v) == "true"
	}

	if path := os.Getenv("MENTIONKIT_DIRECTORY"); path != "" {
		c.Directory.Path = path
	}

	if level := os.Getenv("MENTIONKIT_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}

	if addr := os.Getenv("MENTIONKIT_METRICS_ADDR"); addr != "" {
		c.Metrics.Addr = addr
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "mention.min_length").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "links.base_url").
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		if i == len(parts)-1 {
			return field, nil
		}

		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}

	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strVal, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			lower := strings.ToLower(strVal)
			field.SetBool(strVal == "1" || lower == "true" || lower == "yes")
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", field.Type())
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}

	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// GetAllKeys returns all scalar configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"version",
		"mention.min_length",
		"mention.typing_speed_ms",
		"mention.fetch_limit",
		"mention.discard_stale",
		"links.base_url",
		"directory.path",
		"directory.seed_file",
		"directory.watch_seed",
		"directory.rate_per_sec",
		"directory.burst",
		"storage.dir",
		"editor.mode",
		"editor.theme",
		"editor.preview_width",
		"log.level",
		"log.json",
		"log.file",
		"metrics.addr",
	}
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Listeners != nil {
		clone.Listeners = append([]ListenerConfig(nil), c.Listeners...)
	}
	return &clone
}

// String returns the config as indented JSON for debugging.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}
