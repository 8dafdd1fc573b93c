package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.ListenPort != ":8080" {
		t.Errorf("ListenPort = %q", cfg.ListenPort)
	}
	if cfg.FetchTimeout != 10*time.Second {
		t.Errorf("FetchTimeout = %v", cfg.FetchTimeout)
	}
	if cfg.FaviconFetchTimeout != 5*time.Second {
		t.Errorf("FaviconFetchTimeout = %v", cfg.FaviconFetchTimeout)
	}
	if cfg.EnrichWorkers != 4 {
		t.Errorf("EnrichWorkers = %d", cfg.EnrichWorkers)
	}
	if cfg.RedisAddr != "" {
		t.Errorf("RedisAddr = %q, want empty default", cfg.RedisAddr)
	}
	if cfg.SnapshotInterval != 24*time.Hour {
		t.Errorf("SnapshotInterval = %v", cfg.SnapshotInterval)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BOOKSY_LISTEN_PORT", ":9090")
	t.Setenv("BOOKSY_FETCH_TIMEOUT", "3s")
	t.Setenv("BOOKSY_ENRICH_WORKERS", "8")
	t.Setenv("BOOKSY_PRETTY_LOG", "true")

	cfg := Load()
	if cfg.ListenPort != ":9090" {
		t.Errorf("ListenPort = %q", cfg.ListenPort)
	}
	if cfg.FetchTimeout != 3*time.Second {
		t.Errorf("FetchTimeout = %v", cfg.FetchTimeout)
	}
	if cfg.EnrichWorkers != 8 {
		t.Errorf("EnrichWorkers = %d", cfg.EnrichWorkers)
	}
	if !cfg.PrettyLog {
		t.Error("PrettyLog = false")
	}
}

func TestLoadPanicsOnIncompleteSnapshotConfig(t *testing.T) {
	t.Setenv("BOOKSY_SNAPSHOT_FILE", "/etc/booksy/bookmarks.yaml")

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic when snapshot user/profile missing")
		}
	}()
	Load()
}

func TestParseSeedUsers(t *testing.T) {
	t.Setenv("BOOKSY_SEED_USERS", `u1:ada, u2:grace`)

	cfg := Load()
	users, err := cfg.ParseSeedUsers()
	if err != nil {
		t.Fatalf("ParseSeedUsers failed: %v", err)
	}
	if len(users) != 2 || users["u1"] != "ada" || users["u2"] != "grace" {
		t.Fatalf("users = %v", users)
	}
}

func TestParseSeedUsersRejectsMalformed(t *testing.T) {
	cfg := &Config{SeedUsers: []string{"missing-colon"}}
	if _, err := cfg.ParseSeedUsers(); err == nil {
		t.Fatal("expected error for malformed entry")
	}

	cfg = &Config{SeedUsers: []string{":noid"}}
	if _, err := cfg.ParseSeedUsers(); err == nil {
		t.Fatal("expected error for empty id")
	}
}

func TestParseSeedUsersEmpty(t *testing.T) {
	cfg := &Config{}
	users, err := cfg.ParseSeedUsers()
	if err != nil {
		t.Fatalf("ParseSeedUsers failed: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("users = %v, want empty", users)
	}
}
