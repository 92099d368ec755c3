package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
	"github.com/dmitrijs2005/gophauth/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations
// accept "15m" style strings or integer nanoseconds; booleans are pointers so
// that an absent key leaves the current value alone.
type JsonConfig struct {
	EndpointAddrHTTP string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC string         `json:"endpoint_addr_grpc"`
	DatabaseDSN      string         `json:"database_dsn"`
	SecretKey        string         `json:"secret_key"`
	SecretKeyFile    string         `json:"secret_key_file"`
	TokenIssuer      string         `json:"token_issuer"`
	TokenAudience    string         `json:"token_audience"`
	TokenTTL         timex.Duration `json:"token_ttl"`
	ValidateIssuer   *bool          `json:"validate_issuer"`
	ValidateAudience *bool          `json:"validate_audience"`
	IncludeRoles     *bool          `json:"include_roles"`
	Environment      string         `json:"environment"`
	LogLevel         string         `json:"log_level"`
	RunMigrations    *bool          `json:"run_migrations"`
}

// parseJson overlays values from the JSON file named by -c / -config.
// Nothing happens when no file is given. An unreadable file or invalid JSON
// panics: the server must not start on a half-read configuration.
func parseJson(config *Config, osArgs []string) {
	jsonConfigFile := flagx.ConfigPath(osArgs)
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.SecretKeyFile, c.SecretKeyFile)
	setString(&config.TokenIssuer, c.TokenIssuer)
	setString(&config.TokenAudience, c.TokenAudience)
	setString(&config.Environment, c.Environment)
	setString(&config.LogLevel, c.LogLevel)

	if c.TokenTTL.Duration > 0 {
		config.TokenTTL = c.TokenTTL.Duration
	}

	setBool(&config.ValidateIssuer, c.ValidateIssuer)
	setBool(&config.ValidateAudience, c.ValidateAudience)
	setBool(&config.IncludeRoles, c.IncludeRoles)
	setBool(&config.RunMigrations, c.RunMigrations)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
