package config_test

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/backoffice-labs/catalog/internal/config"
)

func writeConfig(t *testing.T, name, content string) {
	t.Helper()

	if err := os.WriteFile(name, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoad_BaseConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	writeConfig(t, "config.toml", `shutdown_timeout = "45s"

[server]
port = 9090
`)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ShutdownTimeout != "45s" {
		t.Errorf("shutdown timeout = %q, want %q", cfg.ShutdownTimeout, "45s")
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server port = %d, want %d", cfg.Server.Port, 9090)
	}
}

func TestLoad_WithOverlay(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SERVICE_ENV", "test")

	writeConfig(t, "config.toml", `[server]
port = 8080

[logging]
level = "info"
`)

	writeConfig(t, "config.test.toml", `[server]
port = 9090
`)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server port = %d, want overlay value %d", cfg.Server.Port, 9090)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("logging level = %q, want base value %q", cfg.Logging.Level, "info")
	}
}

func TestFinalize_AppliesDefaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")

	cfg := &config.Config{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if cfg.ShutdownTimeoutDuration() != 30*time.Second {
		t.Errorf("shutdown timeout = %v, want %v", cfg.ShutdownTimeoutDuration(), 30*time.Second)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port = %d, want %d", cfg.Server.Port, 8080)
	}

	if cfg.Database.Name != "catalog" {
		t.Errorf("database name = %q, want %q", cfg.Database.Name, "catalog")
	}

	if cfg.Database.User != "postgres" {
		t.Errorf("database user = %q, want %q", cfg.Database.User, "postgres")
	}

	if cfg.Session.Name != "catalog_session" {
		t.Errorf("session name = %q, want %q", cfg.Session.Name, "catalog_session")
	}

	if cfg.Pagination.DefaultPageSize != 5 {
		t.Errorf("default page size = %d, want %d", cfg.Pagination.DefaultPageSize, 5)
	}

	if cfg.Storage.MaxUploadSizeBytes() != 2*1024*1024 {
		t.Errorf("max upload size = %d, want %d", cfg.Storage.MaxUploadSizeBytes(), 2*1024*1024)
	}
}

func TestFinalize_EnvOverrides(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")
	t.Setenv("SERVER_PORT", "9191")
	t.Setenv("DATABASE_HOST", "db.internal")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := &config.Config{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if cfg.Server.Port != 9191 {
		t.Errorf("server port = %d, want %d", cfg.Server.Port, 9191)
	}

	if cfg.Database.Host != "db.internal" {
		t.Errorf("database host = %q, want %q", cfg.Database.Host, "db.internal")
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("logging level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestFinalize_MissingSessionSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")

	cfg := &config.Config{}

	err := cfg.Finalize()
	if err == nil {
		t.Fatal("Finalize() error = nil, want secret error")
	}

	if !strings.Contains(err.Error(), "secret") {
		t.Errorf("Finalize() error = %v, want mention of secret", err)
	}
}

func TestDatabaseConfig_Dsn(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")

	cfg := &config.Config{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	dsn := cfg.Database.Dsn()
	for _, want := range []string{"host=", "port=", "dbname=", "user=", "sslmode=disable"} {
		if !strings.Contains(dsn, want) {
			t.Errorf("Dsn() = %q, missing %q", dsn, want)
		}
	}
}

func TestStorageConfig_InvalidMaxUploadSize(t *testing.T) {
	cfg := &config.StorageConfig{MaxUploadSize: "lots"}

	if err := cfg.Finalize(); err == nil {
		t.Error("Finalize() error = nil, want parse error")
	}
}
