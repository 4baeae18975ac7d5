package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Exact path, or a prefix when it ends with "/"
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	return LoadConfigFrom(os.Getenv)
}

// LoadConfigFrom loads rate limiting configuration through getenv.
//
//	RATE_LIMIT_ENABLED           bool, default true
//	RATE_LIMIT_DEFAULT_LIMIT     requests per window, default 600
//	RATE_LIMIT_DEFAULT_WINDOW    duration, default 1m
//	RATE_LIMIT_CLEANUP_INTERVAL  duration, default 5m
//	RATE_LIMIT_WHITELIST         comma-separated IPs
//	RATE_LIMIT_BLACKLIST         comma-separated IPs
func LoadConfigFrom(getenv func(string) string) *Config {
	env := envReader(getenv)
	if !env.boolean("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    env.integer("RATE_LIMIT_DEFAULT_LIMIT", 600),
		DefaultWindow:   env.duration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: env.duration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseIPList(getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       parseIPList(getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
// Reads that scan the whole population are limited hardest.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Population-wide aggregation
		{Path: "/profiles", Method: "GET", Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/rankings", Method: "GET", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/candidates", Method: "GET", Limit: 120, Window: time.Minute, Burst: 20},

		// Single-candidate reads, including profile assembly
		{Path: "/candidates/", Method: "GET", Limit: 300, Window: time.Minute, Burst: 30},

		// Everything else uses the default limit; /health is unlimited (see MatchEndpoint)
	}
}

// envReader reads typed values, falling back to a default when a variable is
// unset or unparsable
type envReader func(string) string

func (e envReader) integer(key string, def int) int {
	if v, err := strconv.Atoi(e(key)); err == nil {
		return v
	}
	return def
}

func (e envReader) boolean(key string, def bool) bool {
	if v, err := strconv.ParseBool(e(key)); err == nil {
		return v
	}
	return def
}

func (e envReader) duration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(e(key)); err == nil {
		return v
	}
	return def
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
