package config

import (
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/dmartins/askgate/internal/flagx"
	"github.com/dmartins/askgate/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. It uses timex.Duration for interval fields, which allows parsing
// both string values such as "60m" and integer nanoseconds. After
// unmarshalling, its fields are copied into the runtime Config.
type JsonConfig struct {
	EndpointAddr          string         `json:"endpoint_addr"`
	DatabaseDSN           string         `json:"database_dsn"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	BCryptCost            int            `json:"bcrypt_cost"`
	CORSAllowedOrigins    string         `json:"cors_allowed_origins"`
	AdminUsername         string         `json:"admin_username"`
	AdminEmail            string         `json:"admin_email"`
	AdminPassword         string         `json:"admin_password"`
	AdminRole             string         `json:"admin_role"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config. The file path is taken from the -c or -config command-line flags;
// when neither is set, nothing is loaded. An unreadable or invalid file
// panics: a half-applied config is worse than a refused start.
//
// Only fields present in the file override the current values.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.TokenValidityDuration.Duration != 0 {
		config.TokenValidityDuration = time.Duration(c.TokenValidityDuration.Duration)
	}
	if c.BCryptCost != 0 {
		config.BCryptCost = c.BCryptCost
	}
	if c.CORSAllowedOrigins != "" {
		config.CORSAllowedOrigins = splitOrigins(c.CORSAllowedOrigins)
	}
	if c.AdminUsername != "" {
		config.AdminUsername = c.AdminUsername
	}
	if c.AdminEmail != "" {
		config.AdminEmail = c.AdminEmail
	}
	if c.AdminPassword != "" {
		config.AdminPassword = c.AdminPassword
	}
	if c.AdminRole != "" {
		config.AdminRole = c.AdminRole
	}
}

// splitOrigins parses a comma-separated origin list, trimming whitespace and
// dropping empty items.
func splitOrigins(s string) []string {
	parts := strings.Split(s, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
