// Package config provides type-safe environment variable loading with caching.
// Each configuration type is loaded once and cached for subsequent calls.
//
// A .env file, when present, is loaded into the process environment on first
// use. Parsing relies on the caarlos0/env struct tags:
//
//	type DatabaseConfig struct {
//		Host string `env:"DB_HOST" envDefault:"localhost"`
//		Port int    `env:"DB_PORT" envDefault:"5432"`
//		URL  string `env:"DATABASE_URL,required"`
//	}
//
//	var db DatabaseConfig
//	config.MustLoad(&db)
package config

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	cacheMu sync.Mutex
	cache   = map[reflect.Type]any{}

	loadDotEnv = sync.OnceFunc(func() {
		// Missing .env is not an error; real environments set vars directly.
		_ = godotenv.Load()
	})
)

// Load parses environment variables into cfg. The result is cached per
// concrete type, so repeated loads of the same type are cheap and
// guaranteed to agree.
func Load[T any](cfg *T) error {
	if cfg == nil {
		return fmt.Errorf("config: nil target")
	}

	loadDotEnv()

	cacheMu.Lock()
	defer cacheMu.Unlock()

	typ := reflect.TypeOf(*cfg)
	if cached, ok := cache[typ]; ok {
		*cfg = cached.(T)
		return nil
	}

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", typ, err)
	}

	cache[typ] = *cfg
	return nil
}

// MustLoad is Load that panics on failure. Intended for application startup.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
