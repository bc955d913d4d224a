package netmsg

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/myeof/gonetmsg/pkg/logger"
)

// Config holds the transport settings read from a TOML file.
type Config struct {
	Addr         string
	Workers      int
	Heartbeat    time.Duration
	CPS          int
	Rate         float64
	MaxBodyBytes uint32
	Signals      bool
	Log          logger.Options
}

type fileConfig struct {
	Addr         string  `toml:"addr"`
	Workers      int     `toml:"workers"`
	Heartbeat    string  `toml:"heartbeat"`
	CPS          int     `toml:"cps"`
	Rate         float64 `toml:"rate"`
	MaxBodyBytes uint32  `toml:"max_body_bytes"`
	Signals      bool    `toml:"signals"`
	Log          struct {
		Mode  string `toml:"mode"`
		Level string `toml:"level"`
		Path  string `toml:"path"`
		Name  string `toml:"name"`
	} `toml:"log"`
}

func DefaultConfig() Config {
	return Config{
		Addr:         "127.0.0.1:8080",
		Heartbeat:    10 * time.Second,
		MaxBodyBytes: MaxMsgSize,
		Signals:      true,
		Log: logger.Options{
			Mode:  "console",
			Level: "info",
		},
	}
}

// LoadConfig reads path over DefaultConfig; keys missing from the file keep their defaults.
func LoadConfig(path string) (Config, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return applyFile(DefaultConfig(), raw, meta)
}

// ParseConfig is LoadConfig for an in-memory document.
func ParseConfig(data string) (Config, error) {
	var raw fileConfig
	meta, err := toml.Decode(data, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return applyFile(DefaultConfig(), raw, meta)
}

func applyFile(cfg Config, raw fileConfig, meta toml.MetaData) (Config, error) {
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	if meta.IsDefined("addr") {
		cfg.Addr = strings.TrimSpace(raw.Addr)
	}
	if meta.IsDefined("workers") {
		if raw.Workers < 1 {
			return Config{}, fmt.Errorf("workers must be positive, got %d", raw.Workers)
		}
		cfg.Workers = raw.Workers
	}
	if meta.IsDefined("heartbeat") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Heartbeat))
		if err != nil {
			return Config{}, fmt.Errorf("parse heartbeat: %w", err)
		}
		cfg.Heartbeat = d
	}
	if meta.IsDefined("cps") {
		cfg.CPS = raw.CPS
	}
	if meta.IsDefined("rate") {
		if raw.Rate < 0 {
			return Config{}, fmt.Errorf("rate must not be negative, got %v", raw.Rate)
		}
		cfg.Rate = raw.Rate
	}
	if meta.IsDefined("max_body_bytes") {
		if raw.MaxBodyBytes == 0 || raw.MaxBodyBytes > MaxMsgSize {
			return Config{}, fmt.Errorf("max_body_bytes must be in (0, %d], got %d", MaxMsgSize, raw.MaxBodyBytes)
		}
		cfg.MaxBodyBytes = raw.MaxBodyBytes
	}
	if meta.IsDefined("signals") {
		cfg.Signals = raw.Signals
	}
	if meta.IsDefined("log", "mode") {
		cfg.Log.Mode = raw.Log.Mode
	}
	if meta.IsDefined("log", "level") {
		cfg.Log.Level = raw.Log.Level
	}
	if meta.IsDefined("log", "path") {
		cfg.Log.Path = raw.Log.Path
	}
	if meta.IsDefined("log", "name") {
		cfg.Log.Name = raw.Log.Name
	}
	return cfg, nil
}

func (b *connBase[T]) apply(cfg Config) {
	if cfg.Workers > 0 {
		b.SetWorker(cfg.Workers)
	}
	if cfg.Heartbeat > 0 {
		b.SetHeartbeat(cfg.Heartbeat)
	}
	if cfg.MaxBodyBytes > 0 {
		b.SetLimits(Limits{MaxBodyBytes: cfg.MaxBodyBytes})
	}
	b.SetHandleSignals(cfg.Signals)
	InitRate(cfg.Rate)
}

// Apply configures the server from cfg. Call before Serve.
func (s *Server[T]) Apply(cfg Config) {
	s.apply(cfg)
	s.SetCPS(cfg.CPS)
}

// Apply configures the client from cfg. Call before Connect.
func (c *Client[T]) Apply(cfg Config) {
	c.apply(cfg)
}
