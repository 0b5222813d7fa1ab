package config

import (
	"strings"
	"time"
)

// CacheConfig controls the Redis response cache in front of the catalog
// lists (genres, actors, cinema halls).
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool // cached methods; any other method invalidates
	TTL          time.Duration
	KeyStrategy  string // route | method_route | route_query | method_route_query | user_route_query
	Prefix       string
	MaxBodyBytes int // responses larger than this are not stored
}

// LoadCacheConfig reads CACHE_* variables.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		Methods:      parseMethods(envStr("CACHE_METHODS", "GET")),
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		KeyStrategy:  envStr("CACHE_KEY_STRATEGY", "route_query"),
		Prefix:       envStr("CACHE_PREFIX", "cinema:cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}

// parseMethods upper-cases a comma-separated method list into a set.
func parseMethods(s string) map[string]bool {
	set := map[string]bool{}
	for _, m := range strings.Split(s, ",") {
		if m = strings.ToUpper(strings.TrimSpace(m)); m != "" {
			set[m] = true
		}
	}
	return set
}
