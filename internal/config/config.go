package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	LogDir string `toml:"log_dir"`
}

// Storage contains configuration for the world storage API that holds the
// inbox and queue objects.
type Storage struct {
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	InboxKey       string `toml:"inbox_key"`
	QueueKey       string `toml:"queue_key"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Resolver contains configuration for the song resolver endpoint.
type Resolver struct {
	BaseURL         string `toml:"base_url"`
	StreamURL       string `toml:"stream_url"`
	DefaultDuration int    `toml:"default_duration"`
	RequestTimeout  int    `toml:"request_timeout"`
}

// Bridge contains configuration for poll-loop timing and startup behavior.
type Bridge struct {
	PollInterval    int  `toml:"poll_interval"`
	SanitizeOnStart bool `toml:"sanitize_on_start"`
}

// API contains configuration for the daemon status API.
type API struct {
	Bind  string `toml:"bind"`
	Token string `toml:"token"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	NowPlaying     bool   `toml:"now_playing"`
	Errors         bool   `toml:"errors"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for jukebridge.
//
// Configuration sections by subsystem:
//   - Paths: log directory
//   - Storage: world storage API connection and object keys
//   - Resolver: song resolver endpoint and playback defaults
//   - Bridge: poll interval and startup sanitize behavior
//   - API: daemon status API bind address and token
//   - Notifications: ntfy push notification settings
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Storage       Storage       `toml:"storage"`
	Resolver      Resolver      `toml:"resolver"`
	Bridge        Bridge        `toml:"bridge"`
	API           API           `toml:"api"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// Sample returns the embedded sample configuration file contents.
func Sample() string {
	return sampleConfig
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/jukebridge/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("jukebridge.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	var err error
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}

	if c.Storage.APIKey == "" {
		if value, ok := os.LookupEnv("JUKEBRIDGE_API_KEY"); ok {
			c.Storage.APIKey = value
		}
	}
	c.Storage.APIKey = strings.TrimSpace(c.Storage.APIKey)
	c.Storage.BaseURL = strings.TrimRight(strings.TrimSpace(c.Storage.BaseURL), "/")
	if c.Storage.BaseURL == "" {
		c.Storage.BaseURL = defaultStorageBaseURL
	}
	if strings.TrimSpace(c.Storage.InboxKey) == "" {
		c.Storage.InboxKey = defaultInboxKey
	}
	if strings.TrimSpace(c.Storage.QueueKey) == "" {
		c.Storage.QueueKey = defaultQueueKey
	}
	if c.Storage.RequestTimeout <= 0 {
		c.Storage.RequestTimeout = defaultStorageRequestTimeout
	}

	c.Resolver.BaseURL = strings.TrimSpace(c.Resolver.BaseURL)
	if c.Resolver.BaseURL == "" {
		c.Resolver.BaseURL = defaultResolverBaseURL
	}
	c.Resolver.StreamURL = strings.TrimSpace(c.Resolver.StreamURL)
	if c.Resolver.StreamURL == "" {
		c.Resolver.StreamURL = defaultStreamURL
	}
	if c.Resolver.DefaultDuration <= 0 {
		c.Resolver.DefaultDuration = defaultSongDuration
	}
	if c.Resolver.RequestTimeout <= 0 {
		c.Resolver.RequestTimeout = defaultResolverRequestTimeout
	}

	if c.Bridge.PollInterval <= 0 {
		c.Bridge.PollInterval = defaultPollInterval
	}

	c.API.Bind = strings.TrimSpace(c.API.Bind)
	c.API.Token = strings.TrimSpace(c.API.Token)

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}

// EnsureDirectories creates required directories for daemon operation.
func (c *Config) EnsureDirectories() error {
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return nil
	}
	if err := os.MkdirAll(c.Paths.LogDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.LogDir, err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
