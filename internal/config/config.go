package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by the notif-panel and notif-push binaries.
type Config struct {
	// ListenAddress is the gRPC push API address.
	ListenAddress string `yaml:"listen_addr"`
	// MetricsAddress is the prometheus endpoint address. Empty disables it.
	MetricsAddress string `yaml:"metrics_addr"`
	// LogLevel is the minimum level of log entries.
	LogLevel string `yaml:"log_level"`
	// Timeout is the duration for client RPC calls.
	Timeout time.Duration `yaml:"timeout"`
	// Panel controls how the panel is presented.
	Panel Panel `yaml:"panel"`
	// Sounds configures the audio cues.
	Sounds Sounds `yaml:"sounds"`
	// Session configures where session-scoped values such as the mute flag live.
	Session Session `yaml:"session"`
}

// Panel holds presentation options of the notification panel.
type Panel struct {
	// Animate enables the slide-in presentation when the panel is shown.
	Animate bool `yaml:"animate"`
	// Pinned keeps the panel open when no alarm is active.
	Pinned bool `yaml:"pinned"`
	// Phrases are the user-facing texts of the panel.
	Phrases Phrases `yaml:"phrases"`
}

// Phrases are the user-facing texts of the panel.
type Phrases struct {
	NoNotif string `yaml:"no_notif"`
	Mute    string `yaml:"mute"`
	Unmute  string `yaml:"unmute"`
	AckAll  string `yaml:"ack_all"`
}

// Sounds configures the audio cues.
type Sounds struct {
	// Player is the external command used to play a sound file. Empty disables audio.
	Player string `yaml:"player"`
	// Dir is the directory the cue files are resolved against.
	Dir string `yaml:"dir"`
	// Info is the one-shot information cue file.
	Info string `yaml:"info"`
	// Warning is the looping warning cue file.
	Warning string `yaml:"warning"`
	// Critical is the looping critical cue file.
	Critical string `yaml:"critical"`
}

// Session configures the session storage backend.
type Session struct {
	// Backend is one of BackendMemory, BackendFile, BackendRedis.
	Backend string `yaml:"backend"`
	// File is the session file path used by the file backend.
	File string `yaml:"file"`
	// RedisAddress is the redis server address used by the redis backend.
	RedisAddress string `yaml:"redis_addr"`
	// TTL bounds the lifetime of a session in redis.
	TTL time.Duration `yaml:"ttl"`
}

// Session storage backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "notif-panel-settings.yaml"

	// DefaultListenAddress is the default gRPC push API address.
	DefaultListenAddress = "127.0.0.1:50151"

	// DefaultSessionFilename is the default session file of the file backend.
	DefaultSessionFilename = "notif-panel-session.json"

	// DefaultTimeout is the default duration for client RPC calls.
	DefaultTimeout = 5 * time.Second

	// DefaultSessionTTL is the default session lifetime in redis.
	DefaultSessionTTL = 12 * time.Hour

	// DefaultFilePermissions is the default file permission for config and session files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errListenAddressRequired is returned when the push API address is missing.
	errListenAddressRequired = errors.New("listen address must be provided")
	// errUnknownBackend is returned for an unsupported session backend.
	errUnknownBackend = errors.New("unknown session backend")
	// errRedisAddressRequired is returned when the redis backend has no address.
	errRedisAddressRequired = errors.New("redis address must be provided for the redis session backend")
)

// Default returns a configuration with every field set to its default.
func Default() *Config {
	cfg := &Config{
		ListenAddress: DefaultListenAddress,
		Panel: Panel{
			Animate: true,
		},
	}

	//nolint:errcheck // Defaults always validate.
	_ = Validate(cfg)

	return cfg
}

// DefaultPhrases returns the built-in English phrases.
func DefaultPhrases() Phrases {
	return Phrases{
		NoNotif: "No notifications",
		Mute:    "Mute",
		Unmute:  "Unmute",
		AckAll:  "Ack All",
	}
}

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	cfg := Config{
		Panel: Panel{
			Animate: true,
		},
	}

	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks required fields and fills in defaults for the optional ones.
func Validate(cfg *Config) error {
	if cfg.ListenAddress == "" {
		return errListenAddressRequired
	}

	if _, err := net.ResolveTCPAddr("tcp", cfg.ListenAddress); err != nil {
		return fmt.Errorf("invalid listen address: %w", err)
	}

	if cfg.MetricsAddress != "" {
		if _, err := net.ResolveTCPAddr("tcp", cfg.MetricsAddress); err != nil {
			return fmt.Errorf("invalid metrics address: %w", err)
		}
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	fillPhrases(&cfg.Panel.Phrases)
	fillSounds(&cfg.Sounds)

	return validateSession(&cfg.Session)
}

// fillPhrases replaces every empty phrase with its default.
func fillPhrases(p *Phrases) {
	defaults := DefaultPhrases()

	for _, field := range []struct {
		value    *string
		fallback string
	}{
		{&p.NoNotif, defaults.NoNotif},
		{&p.Mute, defaults.Mute},
		{&p.Unmute, defaults.Unmute},
		{&p.AckAll, defaults.AckAll},
	} {
		if *field.value == "" {
			*field.value = field.fallback
		}
	}
}

// fillSounds sets the default cue file names.
func fillSounds(s *Sounds) {
	if s.Dir == "" {
		s.Dir = "sounds"
	}

	if s.Info == "" {
		s.Info = "notif-info.mp3"
	}

	if s.Warning == "" {
		s.Warning = "notif-warning.mp3"
	}

	if s.Critical == "" {
		s.Critical = "notif-error.mp3"
	}
}

// validateSession checks the backend-specific settings.
func validateSession(s *Session) error {
	if s.Backend == "" {
		s.Backend = BackendMemory
	}

	if s.TTL <= 0 {
		s.TTL = DefaultSessionTTL
	}

	switch s.Backend {
	case BackendMemory:
		return nil
	case BackendFile:
		if s.File == "" {
			s.File = DefaultSessionFilename
		}

		return nil
	case BackendRedis:
		if s.RedisAddress == "" {
			return errRedisAddressRequired
		}

		if _, err := net.ResolveTCPAddr("tcp", s.RedisAddress); err != nil {
			return fmt.Errorf("invalid redis address: %w", err)
		}

		return nil
	default:
		return fmt.Errorf("%w: %q", errUnknownBackend, s.Backend)
	}
}

// SoundPath resolves a cue file name against the sounds directory.
func (s Sounds) SoundPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}

	return filepath.Join(s.Dir, name)
}
