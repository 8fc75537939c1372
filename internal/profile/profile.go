// Package profile holds the process configuration for the timewalk server
// and CLI, loaded from TIMEWALK_* environment variables with flag overrides
// applied on top by cmd.
package profile

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
)

// Profile is the configuration to start the main server.
type Profile struct {
	// Mode can be "prod" or "dev"
	Mode string
	// Addr is the binding address for the server
	Addr string
	// Port is the binding port for the server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where timewalk stores its resolution audit log
	DSN string
	// Driver is the audit store driver ("sqlite" or "none")
	Driver string
	// DefaultTimezone is the IANA timezone used when a request names none
	DefaultTimezone string
	// RateLimitRPS caps requests per second per client on the API
	RateLimitRPS float64
	// MaxParallel bounds concurrent resolutions within one batch
	MaxParallel int
	// Version is the current version of the server
	Version string
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnvOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getFloatEnvOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// FromEnv loads configuration from TIMEWALK_* environment variables. Values
// already set on the profile act as defaults.
func (p *Profile) FromEnv() {
	p.Mode = getEnvOrDefault("TIMEWALK_MODE", p.Mode)
	p.Addr = getEnvOrDefault("TIMEWALK_ADDR", p.Addr)
	p.Port = getIntEnvOrDefault("TIMEWALK_PORT", p.Port)
	p.Data = getEnvOrDefault("TIMEWALK_DATA", p.Data)
	p.DSN = getEnvOrDefault("TIMEWALK_DSN", p.DSN)
	p.Driver = getEnvOrDefault("TIMEWALK_DRIVER", p.Driver)
	p.DefaultTimezone = getEnvOrDefault("TIMEWALK_TIMEZONE", p.DefaultTimezone)
	p.RateLimitRPS = getFloatEnvOrDefault("TIMEWALK_RATE_LIMIT_RPS", p.RateLimitRPS)
	p.MaxParallel = getIntEnvOrDefault("TIMEWALK_MAX_PARALLEL", p.MaxParallel)
}

// Validate fills defaults and checks the profile is usable.
func (p *Profile) Validate() error {
	if p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "dev"
	}
	if p.Port == 0 {
		p.Port = 8230
	}
	if p.Data == "" {
		p.Data = "."
	}
	if p.Driver == "" {
		p.Driver = "sqlite"
	}
	if p.Driver != "sqlite" && p.Driver != "none" {
		return errors.Errorf("unsupported driver %q", p.Driver)
	}
	if p.Driver == "sqlite" && p.DSN == "" {
		p.DSN = filepath.Join(p.Data, "timewalk_"+p.Mode+".db")
	}
	if p.DefaultTimezone == "" {
		p.DefaultTimezone = "UTC"
	}
	if p.RateLimitRPS <= 0 {
		p.RateLimitRPS = 20
	}
	if p.MaxParallel <= 0 {
		p.MaxParallel = 8
	}
	return nil
}
