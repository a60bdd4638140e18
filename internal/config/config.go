// Package config holds the server settings collected by cmd/server.
package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
)

const (
	EngineHertz = "hertz"
	EngineEcho  = "echo"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Host      string
	Port      int
	Engine    string
	StaticDir string
	LogLevel  string
	LogFormat string
	Hints     string
}

func Default() Config {
	return Config{
		Host:      "0.0.0.0",
		Port:      8080,
		Engine:    EngineHertz,
		StaticDir: "public",
		LogLevel:  "info",
		LogFormat: "console",
		Hints:     "none",
	}
}

// Addr is the listen address, host:port.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Port)
	}
	switch strings.ToLower(c.Engine) {
	case EngineHertz, EngineEcho:
	default:
		return fmt.Errorf("%w: unknown engine %q", ErrInvalidConfig, c.Engine)
	}
	switch strings.ToLower(c.LogFormat) {
	case "console", "json":
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.LogFormat)
	}
	switch strings.ToLower(c.Hints) {
	case "", "none", "tier":
	default:
		return fmt.Errorf("%w: unknown hint source %q", ErrInvalidConfig, c.Hints)
	}
	return nil
}
