package config

import (
	"os"
	"strings"
	"time"
)

// Config is the read-only credential/configuration context threaded through
// every component at construction. Nothing mutates it after Load.
type Config struct {
	Port string

	// Timeout bounds every single upstream HTTP call.
	Timeout time.Duration

	DomainrAPIKey    string
	GoDaddyAPIKey    string
	GoDaddyAPISecret string

	Logging LoggingConfig
}

type LoggingConfig struct {
	Level         string
	Format        string
	IncludeCaller bool
}

func Load() Config {
	return Config{
		Port:             envOr("PORT", "8080"),
		Timeout:          durationOr("LOOKUP_TIMEOUT", 8*time.Second),
		DomainrAPIKey:    strings.TrimSpace(os.Getenv("DOMAINR_API_KEY")),
		GoDaddyAPIKey:    strings.TrimSpace(os.Getenv("GODADDY_API_KEY")),
		GoDaddyAPISecret: strings.TrimSpace(os.Getenv("GODADDY_API_SECRET")),
		Logging: LoggingConfig{
			Level:  envOr("LOG_LEVEL", "info"),
			Format: envOr("LOG_FORMAT", "text"),
		},
	}
}

// DemoMode reports whether the dedicated status API is unusable and the
// service should fall back to public registry-record probes and canned
// fixtures.
func (c Config) DemoMode() bool {
	return c.DomainrAPIKey == ""
}

// HasPricingCredentials reports whether real registrar pricing can be
// queried; without it the price lookup degrades to a placeholder row.
func (c Config) HasPricingCredentials() bool {
	return c.GoDaddyAPIKey != "" && c.GoDaddyAPISecret != ""
}

func envOr(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func durationOr(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
