// ABOUTME: Configuration loading for lichobi.
// ABOUTME: Reads TOML or YAML with ${VAR} expansion, then overlays environment variables.

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for config files that are neither TOML nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported config format")

var validate = validator.New()

// Config is the complete bot configuration.
type Config struct {
	Bot        BotConfig        `toml:"bot" yaml:"bot"`
	Discord    DiscordConfig    `toml:"discord" yaml:"discord"`
	Matrix     MatrixConfig     `toml:"matrix" yaml:"matrix"`
	AI         AIConfig         `toml:"ai" yaml:"ai"`
	CodeRunner CodeRunnerConfig `toml:"code_runner" yaml:"code_runner"`
	Plugins    PluginsConfig    `toml:"plugins" yaml:"plugins"`
	Logging    LoggingConfig    `toml:"logging" yaml:"logging"`
}

// BotConfig holds dispatch settings.
type BotConfig struct {
	CommandPrefix string `toml:"command_prefix" yaml:"command_prefix" env:"COMMAND_PREFIX" validate:"required,max=5"`

	// CorrelationTTL is how long a command waits for its modal submission.
	CorrelationTTL    time.Duration `toml:"-" yaml:"-"`
	CorrelationTTLRaw string        `toml:"correlation_ttl" yaml:"correlation_ttl" env:"CORRELATION_TTL"`
}

// DiscordConfig holds Discord credentials. Discord is enabled when a token is set.
type DiscordConfig struct {
	Token      string `toml:"token" yaml:"token" env:"DISCORD_BOT_TOKEN"`
	AppID      string `toml:"app_id" yaml:"app_id" env:"DISCORD_APP_ID"`
	DevGuildID string `toml:"dev_guild_id" yaml:"dev_guild_id" env:"DEV_GUILD_ID"`
}

// Enabled reports whether the Discord transport should start.
func (d DiscordConfig) Enabled() bool {
	return d.Token != ""
}

// MatrixConfig holds Matrix credentials and bridge behaviour.
type MatrixConfig struct {
	Enabled         bool     `toml:"enabled" yaml:"enabled" env:"MATRIX_ENABLED"`
	Homeserver      string   `toml:"homeserver" yaml:"homeserver" env:"MATRIX_HOMESERVER"`
	Username        string   `toml:"username" yaml:"username" env:"MATRIX_USERNAME"`
	Password        string   `toml:"password" yaml:"password" env:"MATRIX_PASSWORD"`
	RecoveryKey     string   `toml:"recovery_key" yaml:"recovery_key" env:"MATRIX_RECOVERY_KEY"`
	AllowedRooms    []string `toml:"allowed_rooms" yaml:"allowed_rooms" env:"MATRIX_ALLOWED_ROOMS"`
	TypingIndicator bool     `toml:"typing_indicator" yaml:"typing_indicator" env:"MATRIX_TYPING_INDICATOR"`
}

// AIConfig selects the AI provider.
type AIConfig struct {
	Provider string `toml:"provider" yaml:"provider" env:"AI_PROVIDER" validate:"omitempty,oneof=gemini"`
	APIKey   string `toml:"api_key" yaml:"api_key" env:"AI_API_KEY"`
	Model    string `toml:"model" yaml:"model" env:"AI_MODEL"`
}

// Enabled reports whether an AI provider can be built.
func (a AIConfig) Enabled() bool {
	return a.APIKey != ""
}

// CodeRunnerConfig points at the remote code execution service.
type CodeRunnerConfig struct {
	BaseURL string `toml:"base_url" yaml:"base_url" env:"CODE_RUNNER_API_BASE_URL" validate:"omitempty,http_url"`
	Token   string `toml:"token" yaml:"token" env:"CODE_RUNNER_API_TOKEN"`
}

// Enabled reports whether the code runner is configured.
func (c CodeRunnerConfig) Enabled() bool {
	return c.BaseURL != ""
}

// PluginsConfig controls folder plugin discovery. An empty folder disables it.
type PluginsConfig struct {
	Folder     string   `toml:"folder" yaml:"folder" env:"PLUGIN_FOLDER"`
	Extensions []string `toml:"extensions" yaml:"extensions" env:"PLUGIN_EXTENSIONS"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level" env:"LOG_LEVEL" validate:"omitempty,oneof=debug info warn error"`
	Format string `toml:"format" yaml:"format" env:"LOG_FORMAT" validate:"omitempty,oneof=text json color"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Bot: BotConfig{
			CommandPrefix:     "!",
			CorrelationTTLRaw: "5m",
		},
		AI:      AIConfig{Provider: "gemini"},
		Plugins: PluginsConfig{Extensions: []string{".go"}},
		Logging: LoggingConfig{Level: "info", Format: "color"},
	}
}

// Load reads the configuration file at path over the defaults, then applies
// environment overrides. An empty path loads defaults and environment only.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := decode(path, expandEnvVars(string(data)), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if err := parseDurations(cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadDotEnv loads variables from .env files that exist. Variables already in
// the environment win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

func decode(path, data string, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		_, err := toml.Decode(data, cfg)
		return err
	case ".yaml", ".yml":
		return yaml.Unmarshal([]byte(data), cfg)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

var envVarRe = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR} with environment variable values. Unset
// variables expand to an empty string.
func expandEnvVars(s string) string {
	return envVarRe.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(envVarRe.FindStringSubmatch(match)[1])
	})
}

// Validate checks that the configuration is complete and consistent.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	if c.Matrix.Enabled {
		if c.Matrix.Homeserver == "" {
			return fmt.Errorf("matrix.homeserver is required when matrix is enabled")
		}
		u, err := url.Parse(c.Matrix.Homeserver)
		if err != nil {
			return fmt.Errorf("matrix.homeserver is not a valid URL: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("matrix.homeserver must use http or https scheme")
		}
		if c.Matrix.Username == "" {
			return fmt.Errorf("matrix.username is required when matrix is enabled")
		}
		if c.Matrix.Password == "" {
			return fmt.Errorf("matrix.password is required when matrix is enabled")
		}
	}

	if c.Bot.CorrelationTTL < 0 {
		return fmt.Errorf("bot.correlation_ttl must not be negative")
	}
	return nil
}

// HasTransport reports whether at least one transport is configured.
func (c *Config) HasTransport() bool {
	return c.Discord.Enabled() || c.Matrix.Enabled
}

func parseDurations(cfg *Config) error {
	if cfg.Bot.CorrelationTTLRaw == "" {
		return nil
	}
	d, err := time.ParseDuration(cfg.Bot.CorrelationTTLRaw)
	if err != nil {
		return fmt.Errorf("parsing correlation_ttl %q: %w", cfg.Bot.CorrelationTTLRaw, err)
	}
	cfg.Bot.CorrelationTTL = d
	return nil
}
