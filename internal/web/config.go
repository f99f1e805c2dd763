package web

import (
	"strings"

	"github.com/celltrail/internal/config"
)

// Config represents the web server configuration
type Config struct {
	Server ServerConfig
	Auth   AuthConfig
	Geo    GeoConfig

	// RedisURL backs the geocode cache, usage stats and health probe.
	// Empty disables all three gracefully.
	RedisURL string

	// CORSOrigins lists allowed browser origins; empty allows any.
	CORSOrigins []string
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string
	Port int
}

// AuthConfig contains authentication settings
type AuthConfig struct {
	Secret string
}

// GeoConfig contains geocoding chain settings
type GeoConfig struct {
	DictionaryPath string
}

// LoadConfig builds the configuration from the environment, reading a
// .env file first when one is present.
func LoadConfig() *Config {
	config.LoadEnv()

	var origins []string
	for _, o := range strings.Split(config.GetEnv("CORS_ORIGINS", ""), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return &Config{
		Server: ServerConfig{
			Host: config.GetEnv("HOST", "0.0.0.0"),
			Port: config.GetEnvInt("PORT", 8080),
		},
		Auth: AuthConfig{
			Secret: config.GetEnv("SECRET_KEY", "change-me-please"),
		},
		Geo: GeoConfig{
			DictionaryPath: config.GetEnv("SITE_DICTIONARY_PATH", "data/site_dictionary.csv"),
		},
		RedisURL:    config.GetEnv("REDIS_URL", ""),
		CORSOrigins: origins,
	}
}
