package config

import (
	"testing"
	"time"
)

func TestDefaultSettings(t *testing.T) {
	s := Default()
	if s.ExecutionTimeout != 60*time.Second {
		t.Errorf("expected 60s default timeout, got %s", s.ExecutionTimeout)
	}
	if s.PatternStepLimit != 100000 {
		t.Errorf("expected 100000 default step limit, got %d", s.PatternStepLimit)
	}
}

func TestLoadYAML(t *testing.T) {
	s, err := Load("execution_timeout: 30s\nlog_level: debug\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ExecutionTimeout != 30*time.Second {
		t.Errorf("expected 30s, got %s", s.ExecutionTimeout)
	}
	if s.LogLevel != "debug" {
		t.Errorf("expected debug, got %s", s.LogLevel)
	}
	if s.PatternStepLimit != 100000 {
		t.Errorf("expected default step limit to survive a partial override, got %d", s.PatternStepLimit)
	}
}

func TestLoadJSON(t *testing.T) {
	s, err := Load(`{"execution_timeout": "15s", "pattern_step_limit": 5000}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ExecutionTimeout != 15*time.Second {
		t.Errorf("expected 15s, got %s", s.ExecutionTimeout)
	}
	if s.PatternStepLimit != 5000 {
		t.Errorf("expected 5000, got %d", s.PatternStepLimit)
	}
}

func TestLoadEmptyReturnsDefaults(t *testing.T) {
	s, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != Default() {
		t.Errorf("expected defaults for empty config, got %+v", s)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	if _, err := Load("{not valid"); err == nil {
		t.Fatal("expected an error for invalid JSON")
	}
}
