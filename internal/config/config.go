// Package config loads chatrouter's runtime settings.
//
// Values are resolved in increasing order of precedence: built-in defaults,
// an optional YAML file, CHAT_* environment variables and command line flags.
// Nested keys map to environment variables by replacing dots with
// underscores, so rate_limit.burst is read from CHAT_RATE_LIMIT_BURST.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envVarPrefix = "CHAT"

// Config contains every option understood by the chat server.
type Config struct {
	// Address the chat line listener binds to.
	Addr string `mapstructure:"addr"`
	// Address of the HTTP listener serving /health, /metrics and /ws. Blank disables it.
	HTTPAddr string `mapstructure:"http_addr"`
	// Minimum level written to the log. Options: debug, info, warn, error
	LogLevel string `mapstructure:"log_level"`
	// Lines queued per connection before deliveries to it start failing.
	OutboundBuffer int `mapstructure:"outbound_buffer"`
	// Events queued for the registry before sessions block.
	EventBuffer int `mapstructure:"event_buffer"`
	// Longer input lines are truncated.
	MaxLineLength int `mapstructure:"max_line_length"`
	// Channel every user joins on login.
	DefaultChannel string `mapstructure:"default_channel"`

	RateLimit struct {
		// Sustained lines per second accepted from one connection.
		PerSecond float64 `mapstructure:"per_second"`
		// Lines one connection may send in a burst.
		Burst int `mapstructure:"burst"`
	} `mapstructure:"rate_limit"`
}

// Default returns the configuration used when nothing else is provided.
func Default() Config {
	cfg := Config{
		Addr:           ":5555",
		HTTPAddr:       ":9090",
		LogLevel:       "info",
		OutboundBuffer: 32,
		EventBuffer:    128,
		MaxLineLength:  512,
		DefaultChannel: "public",
	}
	cfg.RateLimit.PerSecond = 5
	cfg.RateLimit.Burst = 10
	return cfg
}

// Load resolves the configuration from args (without the program name), the
// environment and the file named by --config.
func Load(args []string) (Config, error) {
	def := Default()

	fs := pflag.NewFlagSet("chatrouter", pflag.ContinueOnError)
	configFile := fs.String("config", "", "path to a YAML config file")
	fs.String("addr", def.Addr, "chat listen address")
	fs.String("http-addr", def.HTTPAddr, "health, metrics and websocket listen address")
	fs.String("log-level", def.LogLevel, "log level (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("parsing flags: %w", err)
	}

	v := viper.New()
	v.SetDefault("addr", def.Addr)
	v.SetDefault("http_addr", def.HTTPAddr)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("outbound_buffer", def.OutboundBuffer)
	v.SetDefault("event_buffer", def.EventBuffer)
	v.SetDefault("max_line_length", def.MaxLineLength)
	v.SetDefault("default_channel", def.DefaultChannel)
	v.SetDefault("rate_limit.per_second", def.RateLimit.PerSecond)
	v.SetDefault("rate_limit.burst", def.RateLimit.Burst)

	v.SetEnvPrefix(envVarPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, flag := range map[string]string{
		"addr":      "addr",
		"http_addr": "http-addr",
		"log_level": "log-level",
	} {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return Config{}, fmt.Errorf("binding flag %s: %w", flag, err)
		}
	}

	if *configFile != "" {
		v.SetConfigFile(*configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file %s: %w", *configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first option that the server cannot run with.
func (c Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Addr); err != nil {
		return fmt.Errorf("invalid addr %q: %w", c.Addr, err)
	}
	if c.HTTPAddr != "" {
		if _, _, err := net.SplitHostPort(c.HTTPAddr); err != nil {
			return fmt.Errorf("invalid http_addr %q: %w", c.HTTPAddr, err)
		}
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.OutboundBuffer <= 0 {
		return errors.New("outbound_buffer must be positive")
	}
	if c.EventBuffer <= 0 {
		return errors.New("event_buffer must be positive")
	}
	if c.MaxLineLength <= 0 {
		return errors.New("max_line_length must be positive")
	}
	if strings.TrimSpace(c.DefaultChannel) == "" {
		return errors.New("default_channel must not be blank")
	}
	if c.RateLimit.PerSecond <= 0 || c.RateLimit.Burst <= 0 {
		return errors.New("rate_limit.per_second and rate_limit.burst must be positive")
	}
	return nil
}

// Level returns LogLevel as a slog level, falling back to info.
func (c Config) Level() slog.Level {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log_level %q", s)
	}
}
