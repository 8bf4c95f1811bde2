// Package config wraps a singleton viper.Viper instance for envctl:
// environment variables auto-bound with a prefix, an optional config.yaml
// discovered by walking up from the working directory, then falling back
// to the XDG config home.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var v *viper.Viper

const envPrefix = "ENVCTL"

// Initialize sets up the singleton viper instance: defaults, env binding,
// and config file discovery. It is idempotent; later calls reset and
// redo discovery, which is useful in tests.
func Initialize() error {
	v = viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if path := discoverConfigFile(); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config: read %s: %w", path, err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("auto-start-daemon", true)
	v.SetDefault("request-timeout", 5*time.Second)
	v.SetDefault("connect-timeout", 200*time.Millisecond)
	v.SetDefault("max-payload-bytes", 16<<20)
	v.SetDefault("log-level", "info")
}

// discoverConfigFile walks up from the cwd looking for config.yaml, then
// falls back to $XDG_CONFIG_HOME/envctl/config.yaml (or
// $HOME/.config/envctl/config.yaml). Returns "" if nothing is found.
func discoverConfigFile() string {
	if cwd, err := os.Getwd(); err == nil {
		dir := cwd
		for {
			candidate := filepath.Join(dir, "config.yaml")
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	var configHome string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		configHome = xdg
	} else if home, err := os.UserHomeDir(); err == nil {
		configHome = filepath.Join(home, ".config")
	}
	if configHome == "" {
		return ""
	}
	candidate := filepath.Join(configHome, "envctl", "config.yaml")
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return ""
}

func ensure() *viper.Viper {
	if v == nil {
		_ = Initialize()
	}
	return v
}

// GetBool, GetDuration, GetInt, and GetString read a setting by key,
// honoring the ENVCTL_<KEY> environment override and any discovered
// config.yaml, per the precedence viper itself implements (explicit Set >
// flag > env > config file > default).
func GetBool(key string) bool              { return ensure().GetBool(key) }
func GetDuration(key string) time.Duration { return ensure().GetDuration(key) }
func GetInt(key string) int                { return ensure().GetInt(key) }
func GetString(key string) string          { return ensure().GetString(key) }

// Set overrides a setting at runtime, taking precedence over env, config
// file, and default for the rest of the process.
func Set(key string, value any) {
	ensure().Set(key, value)
}

// AutoStartDaemon reports whether the client should auto-spawn the daemon
// on connection failure.
func AutoStartDaemon() bool { return GetBool("auto-start-daemon") }

// RequestTimeout is the daemon's default per-request deadline.
func RequestTimeout() time.Duration { return GetDuration("request-timeout") }

// ConnectTimeout returns the configured connect-timeout setting. The
// client's auto-spawn path does not read it: its readiness probes use a
// fixed 200ms budget and the bootstrap deadline is a fixed 2s.
func ConnectTimeout() time.Duration { return GetDuration("connect-timeout") }

// MaxPayloadBytes is the configured payload cap, defaulting to the
// protocol's 16 MiB limit.
func MaxPayloadBytes() int { return GetInt("max-payload-bytes") }

// LogLevel is the configured minimum log level ("info" by default).
func LogLevel() string { return GetString("log-level") }
