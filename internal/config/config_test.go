package config

import (
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	if err := Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if !AutoStartDaemon() {
		t.Fatalf("AutoStartDaemon() = false, want true")
	}
	if got := RequestTimeout(); got != 5*time.Second {
		t.Fatalf("RequestTimeout() = %v, want 5s", got)
	}
	if got := MaxPayloadBytes(); got != 16<<20 {
		t.Fatalf("MaxPayloadBytes() = %d, want %d", got, 16<<20)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("ENVCTL_LOG_LEVEL", "debug")
	if err := Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if got := LogLevel(); got != "debug" {
		t.Fatalf("LogLevel() = %q, want debug", got)
	}
}

func TestSetOverridesDefault(t *testing.T) {
	if err := Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	Set("request-timeout", 2*time.Second)
	if got := RequestTimeout(); got != 2*time.Second {
		t.Fatalf("RequestTimeout() after Set = %v, want 2s", got)
	}
}
