package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Connection ConnectionConfig `toml:"connection"`
	Reconnect  ReconnectConfig  `toml:"reconnect"`
	Logging    LoggingConfig    `toml:"logging"`
}

// ConnectionConfig holds what a Client needs to reach and speak to a
// server before login: address, protocol generation, compression
// preference, and a packets-per-second send rate. PacketsPerSecond is
// loaded but not applied: outbound sends are not rate-limited.
type ConnectionConfig struct {
	Host             string        `toml:"host"`
	Port             int           `toml:"port"`
	Generation       int           `toml:"generation"` // gonet.Generation value: 1 through 5
	ClientType       int           `toml:"client_type"`
	PreferCompress   bool          `toml:"prefer_compress"`
	PacketsPerSecond int           `toml:"packets_per_second"`
	KeepaliveTimeout time.Duration `toml:"keepalive_timeout"`
	HandshakeTimeout time.Duration `toml:"handshake_timeout"`
}

type ReconnectConfig struct {
	Enabled    bool          `toml:"enabled"`
	MaxRetries int           `toml:"max_retries"` // 0 = unlimited
	Backoff    time.Duration `toml:"backoff"`
	MaxBackoff time.Duration `toml:"max_backoff"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Connection: ConnectionConfig{
			Host:             "localhost",
			Port:             14900,
			Generation:       3,
			ClientType:       1, // protocol.ClientTypePlayer
			PreferCompress:   true,
			PacketsPerSecond: 60,
			KeepaliveTimeout: 60 * time.Second,
			HandshakeTimeout: 15 * time.Second,
		},
		Reconnect: ReconnectConfig{
			Enabled:    true,
			MaxRetries: 0,
			Backoff:    time.Second,
			MaxBackoff: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
