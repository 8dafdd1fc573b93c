package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Enrichment
	FetchTimeout        time.Duration // timeout for metadata page fetches (default: 10s)
	FaviconFetchTimeout time.Duration // timeout for favicon-only fetches (default: 5s)
	MaxRedirects        int           // redirect cap for metadata fetches (default: 5)
	EnrichWorkers       int           // size of the background enrichment pool (default: 4)

	// Snapshot seed file (optional, empty = disabled)
	SnapshotFile     string        // path to a YAML bookmark snapshot synced on start
	SnapshotUserID   string        // owner the snapshot syncs into
	SnapshotProfile  string        // profile the snapshot syncs into
	SnapshotInterval time.Duration // interval between snapshot re-syncs (default: 24h)

	// Seed users (comma-separated "id:username" pairs)
	SeedUsers []string

	// Redis (optional, empty addr = in-memory store)
	RedisAddr           string
	RedisUser           string
	RedisPassword       string
	RedisDB             int
	RedisDT             time.Duration // dial timeout
	RedisRT             time.Duration // read timeout
	RedisWT             time.Duration // write timeout
	RedisMaxWait        time.Duration // max wait between retries
	RedisPingTimeout    time.Duration
	RedisPoolSize       int
	RedisConnectTimeout time.Duration // total time to retry connecting
	RedisRetryInterval  time.Duration // initial wait between retries, grows exponentially
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("BOOKSY_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("BOOKSY_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("BOOKSY_LOG_LEVEL", "info"),
		PrettyLog: mustBool("BOOKSY_PRETTY_LOG", false),

		// Enrichment
		FetchTimeout:        mustDuration("BOOKSY_FETCH_TIMEOUT", 10*time.Second),
		FaviconFetchTimeout: mustDuration("BOOKSY_FAVICON_FETCH_TIMEOUT", 5*time.Second),
		MaxRedirects:        getenvInt("BOOKSY_MAX_REDIRECTS", 5),
		EnrichWorkers:       getenvInt("BOOKSY_ENRICH_WORKERS", 4),

		// Snapshot seed file
		SnapshotFile:     getenv("BOOKSY_SNAPSHOT_FILE", ""),
		SnapshotUserID:   getenv("BOOKSY_SNAPSHOT_USER", ""),
		SnapshotProfile:  getenv("BOOKSY_SNAPSHOT_PROFILE", ""),
		SnapshotInterval: mustDuration("BOOKSY_SNAPSHOT_INTERVAL", 24*time.Hour),

		// Seed users
		SeedUsers: splitAndTrim(getenv("BOOKSY_SEED_USERS", "")),

		// Redis settings
		RedisAddr:           getenv("BOOKSY_REDIS_ADDR", ""),
		RedisUser:           getenv("BOOKSY_REDIS_USERNAME", "default"),
		RedisPassword:       getenv("BOOKSY_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("BOOKSY_REDIS_DB", 0),
		RedisDT:             mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:        mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:       getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
	}

	if cfg.SnapshotFile != "" && (cfg.SnapshotUserID == "" || cfg.SnapshotProfile == "") {
		panic("❌ FATAL: BOOKSY_SNAPSHOT_USER and BOOKSY_SNAPSHOT_PROFILE are required when BOOKSY_SNAPSHOT_FILE is set")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfg.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// ParseSeedUsers splits the "id:username" pairs of SeedUsers. Malformed
// entries are rejected.
func (c *Config) ParseSeedUsers() (map[string]string, error) {
	users := make(map[string]string, len(c.SeedUsers))
	for _, pair := range c.SeedUsers {
		id, username, ok := strings.Cut(pair, ":")
		if !ok || id == "" || username == "" {
			return nil, fmt.Errorf("invalid seed user entry %q, want id:username", pair)
		}
		users[id] = username
	}
	return users, nil
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
