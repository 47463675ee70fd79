package config

import "testing"

func TestDefaults(t *testing.T) {
	var cfg Config
	cfg.applyDefaults()

	if cfg.Server.Port != "8000" {
		t.Fatalf("unexpected default API port: %s", cfg.Server.Port)
	}
	if cfg.Static.Port != "8001" || cfg.Static.Dir != "." {
		t.Fatalf("unexpected static defaults: %+v", cfg.Static)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 ||
		cfg.CORS.AllowedOrigins[0] != "http://127.0.0.1:8001" ||
		cfg.CORS.AllowedOrigins[1] != "http://localhost:8001" {
		t.Fatalf("unexpected CORS defaults: %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.Storage.Driver != "memory" || !cfg.Storage.Seed {
		t.Fatalf("unexpected storage defaults: %+v", cfg.Storage)
	}

	if err := cfg.parseDurations(); err != nil {
		t.Fatalf("default durations do not parse: %v", err)
	}
	if cfg.Server.GetReadTimeout() <= 0 || cfg.Redis.GetFlushInterval() <= 0 {
		t.Fatalf("parsed durations not positive")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("BOARD_PORT", "9000")
	t.Setenv("BOARD_STATIC_PORT", "9001")
	t.Setenv("BOARD_STATIC_DIR", "/srv/www")
	t.Setenv("BOARD_STORAGE_DRIVER", "sqlite")
	t.Setenv("BOARD_CORS_ORIGINS", "http://a.example, http://b.example")

	var cfg Config
	cfg.applyDefaults()
	cfg.applyEnvOverrides()

	if cfg.Server.Port != "9000" {
		t.Fatalf("BOARD_PORT not applied: %s", cfg.Server.Port)
	}
	if cfg.Static.Port != "9001" || cfg.Static.Dir != "/srv/www" {
		t.Fatalf("static overrides not applied: %+v", cfg.Static)
	}
	if cfg.Storage.Driver != "sqlite" {
		t.Fatalf("storage driver override not applied: %s", cfg.Storage.Driver)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "http://b.example" {
		t.Fatalf("CORS origins override not applied: %v", cfg.CORS.AllowedOrigins)
	}
}
