package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	t.Run("defaults without a config file", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.Storage.Driver != "memory" {
			t.Errorf("default driver = %q, want memory", cfg.Storage.Driver)
		}
		if cfg.HTTPAddr() != "0.0.0.0:4000" {
			t.Errorf("HTTPAddr = %q", cfg.HTTPAddr())
		}
		if cfg.Redis.Enabled || cfg.RabbitMQ.Enabled {
			t.Error("optional dependencies enabled by default")
		}
	})

	t.Run("toml file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		content := `
[app]
port = 9000

[storage]
driver = "postgres"
retention_days = 3
`
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("write config failed: %v", err)
		}
		t.Setenv("CONFIG_FILE", path)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.App.Port != 9000 || cfg.Storage.Driver != "postgres" || cfg.Storage.RetentionDays != 3 {
			t.Errorf("cfg = %+v", cfg.Storage)
		}
	})

	t.Run("env overrides file and defaults", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))
		t.Setenv("STORAGE_DRIVER", "mysql")
		t.Setenv("APP_PORT", "8123")
		t.Setenv("REDIS_ENABLED", "true")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.Storage.Driver != "mysql" || cfg.App.Port != 8123 || !cfg.Redis.Enabled {
			t.Errorf("cfg = app=%+v storage=%+v redis=%+v", cfg.App, cfg.Storage, cfg.Redis)
		}
	})
}

func TestDSNBuilders(t *testing.T) {
	cfg := &Config{
		Storage: StorageConfig{
			MySQL: MySQLConfig{
				Host: "db", Port: 3306, User: "chat", Password: "s3cret", DB: "pulsechat",
				Params: "parseTime=true",
			},
			Postgres: PostgresConfig{
				Host: "db", Port: 5432, User: "chat", Password: "s3cret", DB: "pulsechat",
				SSLMode: "disable",
			},
		},
	}

	if got, want := cfg.MySQLDSN(), "chat:s3cret@tcp(db:3306)/pulsechat?parseTime=true"; got != want {
		t.Errorf("MySQLDSN = %q, want %q", got, want)
	}
	if got, want := cfg.PostgresDSN(), "host=db port=5432 user=chat password=s3cret dbname=pulsechat sslmode=disable"; got != want {
		t.Errorf("PostgresDSN = %q, want %q", got, want)
	}

	cfg.Storage.Driver = "postgres"
	if cfg.DatabaseDSN() != cfg.PostgresDSN() {
		t.Error("DatabaseDSN did not select postgres")
	}
	cfg.Storage.Driver = "mysql"
	if cfg.DatabaseDSN() != cfg.MySQLDSN() {
		t.Error("DatabaseDSN did not select mysql")
	}
}
