package session

import (
	"time"
)

// Config holds session manager configuration.
type Config struct {
	TTL           time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	TouchInterval time.Duration `env:"SESSION_TOUCH_INTERVAL" envDefault:"5m"`
}

// NewManagerFromConfig creates a session manager from environment-driven configuration.
func NewManagerFromConfig(store Store, cfg Config) *Manager {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	touchInterval := cfg.TouchInterval
	if touchInterval < 0 {
		touchInterval = 0
	}
	return NewManager(store, ttl, touchInterval)
}
