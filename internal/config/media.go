package config

import "strings"

// MediaConfig controls where uploaded files are written and how their public
// URLs are built.  BaseURL may be empty, in which case URLs are built from
// the incoming request's scheme and host.
type MediaConfig struct {
	Root        string // filesystem directory that holds uploaded files
	URLPrefix   string // URL path under which Root is served, e.g. /media
	BaseURL     string // optional absolute origin, e.g. https://cdn.example.com
	MaxUploadMB int    // upper bound for a single upload
}

// LoadMediaConfig reads MEDIA_* variables with defaults suitable for local
// development.
func LoadMediaConfig() MediaConfig {
	cfg := MediaConfig{
		Root:        envStr("MEDIA_ROOT", "media"),
		URLPrefix:   envStr("MEDIA_URL", "/media"),
		BaseURL:     strings.TrimRight(envStr("MEDIA_BASE_URL", ""), "/"),
		MaxUploadMB: envInt("MEDIA_MAX_UPLOAD_MB", 5),
	}
	if !strings.HasPrefix(cfg.URLPrefix, "/") {
		cfg.URLPrefix = "/" + cfg.URLPrefix
	}
	cfg.URLPrefix = strings.TrimRight(cfg.URLPrefix, "/")
	if cfg.MaxUploadMB < 1 {
		cfg.MaxUploadMB = 1
	}
	return cfg
}

// MaxUploadBytes returns the upload limit in bytes.
func (m MediaConfig) MaxUploadBytes() int64 {
	return int64(m.MaxUploadMB) << 20
}
