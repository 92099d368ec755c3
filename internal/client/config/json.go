package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
	"github.com/dmitrijs2005/gophauth/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	ServerURL   string         `json:"server_url"`
	GRPCAddr    string         `json:"grpc_addr"`
	Transport   string         `json:"transport"`
	Timeout     timex.Duration `json:"timeout"`
	SessionFile *string        `json:"session_file"`
}

// parseJson overlays cfg with values loaded from the file named by -c or
// -config. Empty values keep what is already set. Read or unmarshal errors
// panic.
func parseJson(cfg *Config, osArgs []string) {
	jsonConfigFile := flagx.ConfigPath(osArgs)
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.GRPCAddr != "" {
		cfg.GRPCAddr = jc.GRPCAddr
	}
	if jc.Transport != "" {
		cfg.Transport = jc.Transport
	}
	if jc.Timeout.Duration > 0 {
		cfg.Timeout = jc.Timeout.Duration
	}
	if jc.SessionFile != nil {
		cfg.SessionFile = *jc.SessionFile
	}
}
