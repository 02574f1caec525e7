package config

import "testing"

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Storage.Driver != "redis" {
		t.Errorf("Storage.Driver = %q, want redis", cfg.Storage.Driver)
	}
	if cfg.Redis.RowsKey != "survey:rows" {
		t.Errorf("Redis.RowsKey = %q", cfg.Redis.RowsKey)
	}
	if cfg.Survey.MaxSituation != 2 {
		t.Errorf("Survey.MaxSituation = %d, want 2", cfg.Survey.MaxSituation)
	}
	if cfg.Transport.TimeoutSeconds != 10 || cfg.Transport.Strategy != "handshake" {
		t.Errorf("Transport = %+v", cfg.Transport)
	}
	if len(cfg.Transport.TrustedOrigins) != 0 {
		t.Errorf("no origin should be trusted by default, got %v", cfg.Transport.TrustedOrigins)
	}
	if cfg.Collector.OtherTag != "기타" || cfg.Collector.EtcPrefix != "✏️ 기타: " {
		t.Errorf("Collector = %+v", cfg.Collector)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SURVEY_TRANSPORT_STRATEGY", "form")
	t.Setenv("SURVEY_TRANSPORT_TIMEOUT_SECONDS", "3")
	t.Setenv("SURVEY_STORAGE_DRIVER", "sqlite")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Transport.Strategy != "form" {
		t.Errorf("Transport.Strategy = %q, want form", cfg.Transport.Strategy)
	}
	if cfg.Transport.TimeoutSeconds != 3 {
		t.Errorf("Transport.TimeoutSeconds = %d, want 3", cfg.Transport.TimeoutSeconds)
	}
	if cfg.Storage.Driver != "sqlite" {
		t.Errorf("Storage.Driver = %q, want sqlite", cfg.Storage.Driver)
	}
	if cfg.WebServer.Port != "8080" {
		t.Errorf("untouched defaults should survive, WebServer.Port = %q", cfg.WebServer.Port)
	}
}
