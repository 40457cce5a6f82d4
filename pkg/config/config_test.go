package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"SIM_RECOVERY_START_DELAY", "SIM_RECOVERY_COMPLETE_DELAY", "SIM_LATENCY_TICK_INTERVAL",
		"SIM_MAX_EVENTS", "REDIS_ENABLED", "NATS_ENABLED", "ALLOWED_ORIGINS", "SERVER_PORT",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Simulation.RecoveryStartDelay != time.Second ||
		cfg.Simulation.RecoveryCompleteDelay != 3*time.Second ||
		cfg.Simulation.LatencyTickInterval != 5*time.Second {
		t.Errorf("unexpected simulation timings: %+v", cfg.Simulation)
	}
	if cfg.Redis.Enabled || cfg.NATS.Enabled {
		t.Error("optional sinks must be disabled by default")
	}
	if len(cfg.Security.AllowedOrigins) != 2 {
		t.Errorf("expected two default origins, got %v", cfg.Security.AllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SIM_RECOVERY_START_DELAY", "250ms")
	t.Setenv("SIM_MAX_EVENTS", "50")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("RATE_LIMIT_TRIGGER_BURST", "10")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Simulation.RecoveryStartDelay != 250*time.Millisecond {
		t.Errorf("RecoveryStartDelay = %v", cfg.Simulation.RecoveryStartDelay)
	}
	if cfg.Simulation.MaxEvents != 50 || !cfg.Redis.Enabled || cfg.RateLimit.TriggerBurst != 10 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"SIM_RECOVERY_START_DELAY": "soon",
		"SIM_MAX_EVENTS":           "-1",
		"RATE_LIMIT_TRIGGER_RPS":   "0",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", key, value)
			}
		})
	}
}

func TestSplitCSV(t *testing.T) {
	got := splitCSV(" http://a:1, ,http://b:2 ,")
	want := []string{"http://a:1", "http://b:2"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("splitCSV() = %v, want %v", got, want)
	}
}
