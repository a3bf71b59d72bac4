package backend

import (
	"os"
	"strconv"
	"time"
)

// Config holds connection settings for the hosted post service.
type Config struct {
	// URL is the websocket endpoint. Empty means no backend is
	// configured and the app falls back to the local store.
	URL string

	// CallTimeout bounds each CRUD round trip.
	CallTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults and no URL.
func DefaultConfig() Config {
	return Config{
		CallTimeout: 10 * time.Second,
	}
}

// LoadConfig reads backend configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("KIWIKI_BACKEND_URL"); v != "" {
		cfg.URL = v
	}
	if v := os.Getenv("KIWIKI_CALL_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CallTimeout = time.Duration(n) * time.Millisecond
		}
	}
	return cfg
}
