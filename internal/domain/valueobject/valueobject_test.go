package valueobject

import "testing"

func TestLatencyBounds(t *testing.T) {
	tests := []struct {
		name     string
		latency  Latency
		delta    float64
		expected float64
	}{
		{"within range", 45, 4.5, 49.5},
		{"clamped high", 98, 5, MaxLatency},
		{"clamped low", 31, -5, MinLatency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.latency.Add(tt.delta).Clamp(MinLatency, MaxLatency)
			if got.Ms() != tt.expected {
				t.Errorf("Add(%v).Clamp() = %v, want %v", tt.delta, got, tt.expected)
			}
		})
	}

	if got := Latency(55).Add(-40).Floor(MinLatency); got.Ms() != MinLatency {
		t.Errorf("Floor() = %v, want %v", got, MinLatency)
	}
}

func TestLatencyLevel(t *testing.T) {
	tests := []struct {
		latency  Latency
		expected LatencyLevel
	}{
		{45, LatencyOK},
		{99.9, LatencyOK},
		{145, LatencyWarning},
		{250, LatencyCritical},
	}

	for _, tt := range tests {
		if got := tt.latency.Level(); got != tt.expected {
			t.Errorf("Latency(%v).Level() = %v, want %v", tt.latency, got, tt.expected)
		}
	}
}

func TestValidate(t *testing.T) {
	for _, et := range AllEventTypes() {
		if err := et.Validate(); err != nil {
			t.Errorf("expected %q to be valid: %v", et, err)
		}
	}
	if err := EventType("Disk Full").Validate(); err == nil {
		t.Error("expected unknown event type to be rejected")
	}

	for _, s := range AllSeverities() {
		if err := s.Validate(); err != nil {
			t.Errorf("expected %q to be valid: %v", s, err)
		}
	}
	if err := Severity("urgent").Validate(); err == nil {
		t.Error("expected unknown severity to be rejected")
	}

	if err := PodStatus("pending").Validate(); err == nil {
		t.Error("expected unknown pod status to be rejected")
	}
	if err := SystemStatus("degraded").Validate(); err == nil {
		t.Error("expected unknown system status to be rejected")
	}
}

func TestSystemStatusLabel(t *testing.T) {
	if StatusHealthy.Label() != "STABLE" {
		t.Errorf("unexpected healthy label %q", StatusHealthy.Label())
	}
	if StatusCrashDetected.Label() != "CRITICAL" {
		t.Errorf("unexpected crash label %q", StatusCrashDetected.Label())
	}
	if StatusRecovering.Label() != "HEALING" {
		t.Errorf("unexpected recovering label %q", StatusRecovering.Label())
	}
}
