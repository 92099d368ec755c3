package config

import (
	"os"
	"time"
)

const (
	TransportHTTP = "http"
	TransportGRPC = "grpc"
)

// Config holds runtime settings for the gophauth CLI.
//
// Fields:
//   - ServerURL: base URL of the HTTP API.
//   - GRPCAddr: host:port of the gRPC endpoint.
//   - Transport: "http" or "grpc".
//   - Timeout: per-call deadline.
//   - SessionFile: SQLite file keeping the token between runs; empty keeps
//     the session in memory only.
type Config struct {
	ServerURL   string
	GRPCAddr    string
	Transport   string
	Timeout     time.Duration
	SessionFile string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.GRPCAddr = "127.0.0.1:50051"
	c.Transport = TransportHTTP
	c.Timeout = 10 * time.Second
	c.SessionFile = "gauth_session.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present).
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, os.Args[1:])
	parseFlags(cfg, os.Args[1:])
	return cfg
}
