package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	for _, name := range []string{
		"GOALMAP_CONFIG", "GOALMAP_STORE", "GOALMAP_STORE_PATH", "GOALMAP_ADDR",
		"GOALMAP_SEED", "GOALMAP_LOG_LEVEL", "GOALMAP_ALLOWED_ORIGINS",
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME",
	} {
		t.Setenv(name, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store != StoreSQLite {
		t.Errorf("store = %q, want %q", cfg.Store, StoreSQLite)
	}
	if cfg.DBPort != 5432 {
		t.Errorf("db port = %d, want 5432", cfg.DBPort)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("addr = %q, want :8080", cfg.Addr)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "goalmap.yaml")
	content := `
store: file
store_path: /tmp/goals.json
addr: ":9000"
db_port: 6543
allowed_origins:
  - http://localhost:5173
log_level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("GOALMAP_CONFIG", path)
	t.Setenv("GOALMAP_ADDR", ":9100")
	t.Setenv("DB_PORT", "not-a-port")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store != StoreFile || cfg.StorePath != "/tmp/goals.json" {
		t.Errorf("store = %q %q", cfg.Store, cfg.StorePath)
	}
	if cfg.Addr != ":9100" {
		t.Errorf("addr = %q, want env override :9100", cfg.Addr)
	}
	if cfg.DBPort != 6543 {
		t.Errorf("db port = %d, want 6543 from file", cfg.DBPort)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "http://localhost:5173" {
		t.Errorf("origins = %v", cfg.AllowedOrigins)
	}
	level, _ := cfg.Level()
	if level != slog.LevelDebug {
		t.Errorf("level = %v, want debug", level)
	}
}

func TestUnknownStoreFromEnvCanBeOverridden(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOALMAP_STORE", "redis")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected Validate error for unknown store")
	}

	// As a --store flag would.
	cfg.Store = StoreMemory
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate after override: %v", err)
	}
}

func TestValidateNeedsPath(t *testing.T) {
	cfg := Default()
	cfg.Store = StoreFile
	cfg.StorePath = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for file store without path")
	}
}

func TestOriginsFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOALMAP_ALLOWED_ORIGINS", "http://a.test, http://b.test ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "http://b.test" {
		t.Errorf("origins = %v", cfg.AllowedOrigins)
	}
}

func TestConnString(t *testing.T) {
	cfg := Default()
	cfg.DBHost = "db"
	cfg.DBUser = "u"
	cfg.DBPassword = "p"
	cfg.DBName = "goals"
	want := "host=db port=5432 user=u password=p dbname=goals sslmode=disable"
	if got := cfg.ConnString(); got != want {
		t.Errorf("ConnString = %q, want %q", got, want)
	}
}
