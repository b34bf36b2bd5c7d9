package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoadValidConfig(t *testing.T) {
	_ = os.Setenv("PORT", "8002")
	_ = os.Setenv("ADDRESS", "127.0.0.1")
	_ = os.Setenv("ENV", "dev")
	_ = os.Setenv("LOG_LEVEL", "info")
	_ = os.Setenv("PROTOCOLS_RELOAD_INTERVAL", "30m")
	_ = os.Setenv("HMS_API_URL", "https://hms.example.org/api/")
	defer cleanupEnv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Port != "8002" {
		t.Errorf("Expected port 8002, got %s", cfg.Port)
	}
	if cfg.Env != EnvDevelopment {
		t.Errorf("Expected env dev, got %s", cfg.Env)
	}
	if cfg.ProtocolsReloadInterval != 30*time.Minute {
		t.Errorf("Expected reload interval 30m, got %s", cfg.ProtocolsReloadInterval)
	}
	if cfg.HospitalAPIURL != "https://hms.example.org/api" {
		t.Errorf("Expected trailing slash trimmed, got %s", cfg.HospitalAPIURL)
	}
	if !cfg.HospitalAPIEnabled() {
		t.Error("Expected hospital API to be enabled")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	cleanupEnv()
	defer cleanupEnv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Port != "8000" {
		t.Errorf("Expected default port 8000, got %s", cfg.Port)
	}
	if cfg.Address != "127.0.0.1" {
		t.Errorf("Expected default address 127.0.0.1, got %s", cfg.Address)
	}
	if cfg.Env != EnvDevelopment {
		t.Errorf("Expected default env dev, got %s", cfg.Env)
	}
	if cfg.LogDir != "logs" {
		t.Errorf("Expected default log dir logs, got %s", cfg.LogDir)
	}
	if cfg.ProtocolsReloadInterval != 6*time.Hour {
		t.Errorf("Expected default reload interval 6h, got %s", cfg.ProtocolsReloadInterval)
	}
	if cfg.HospitalAPITimeout != 15*time.Second {
		t.Errorf("Expected default timeout 15s, got %s", cfg.HospitalAPITimeout)
	}
	if cfg.HospitalAPIEnabled() {
		t.Error("Expected hospital API to be disabled by default")
	}
}

func TestLoadInvalidValues(t *testing.T) {
	testCases := []struct {
		name     string
		key      string
		value    string
		expected string
	}{
		{"port not a number", "PORT", "abc", "PORT must be a valid number"},
		{"port out of range", "PORT", "65536", "PORT must be between 1 and 65535"},
		{"privileged port", "PORT", "80", "PORT 80 is privileged"},
		{"invalid address", "ADDRESS", "invalid", "ADDRESS must be a valid IP address"},
		{"public address", "ADDRESS", "8.8.8.8", "is a public IP"},
		{"invalid env", "ENV", "invalid", "ENV must be one of"},
		{"invalid log level", "LOG_LEVEL", "trace", "LOG_LEVEL must be one of"},
		{"reload too fast", "PROTOCOLS_RELOAD_INTERVAL", "10s", "too small"},
		{"reload too slow", "PROTOCOLS_RELOAD_INTERVAL", "400h", "too large"},
		{"protocols url scheme", "PROTOCOLS_URL", "ftp://files.example.org/p.json", "scheme must be http or https"},
		{"hms url without host", "HMS_API_URL", "https://", "host cannot be empty"},
		{"hms timeout too long", "HMS_API_TIMEOUT", "5m", "HMS_API_TIMEOUT"},
		{"request body too large", "MAX_REQUEST_BODY", "209715200", "too large"},
		{"log file too small", "MAX_LOG_FILE_SIZE", "1024", "too small"},
		{"retention too long", "LOG_RETENTION_WEEKS", "60", "too large"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cleanupEnv()
			defer cleanupEnv()
			_ = os.Setenv(tc.key, tc.value)

			_, err := Load()
			if err == nil {
				t.Fatalf("Expected error for %s=%s, got nil", tc.key, tc.value)
			}
			if !strings.Contains(err.Error(), tc.expected) {
				t.Errorf("Expected error containing %q, got %v", tc.expected, err)
			}
		})
	}
}

func TestParseEnvironment(t *testing.T) {
	tests := []struct {
		input    string
		expected Environment
		hasError bool
	}{
		{"dev", EnvDevelopment, false},
		{"development", EnvDevelopment, false},
		{"staging", EnvStaging, false},
		{"PROD", EnvProduction, false},
		{"production", EnvProduction, false},
		{"test", EnvTest, false},
		{"invalid", EnvDevelopment, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			env, err := ParseEnvironment(tt.input)
			if tt.hasError {
				if err == nil {
					t.Errorf("Expected error for %s, got none", tt.input)
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error for %s: %v", tt.input, err)
			}
			if env != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, env)
			}
		})
	}
}

func TestEnvironmentString(t *testing.T) {
	tests := []struct {
		env      Environment
		expected string
	}{
		{EnvDevelopment, "dev"},
		{EnvStaging, "staging"},
		{EnvProduction, "prod"},
		{EnvTest, "test"},
	}

	for _, tt := range tests {
		if got := tt.env.String(); got != tt.expected {
			t.Errorf("Expected %s, got %s", tt.expected, got)
		}
	}
}

func cleanupEnv() {
	for _, key := range GetEnvVars() {
		_ = os.Unsetenv(key)
	}
}
