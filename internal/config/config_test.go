package config

import (
	"os"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Mode != ModeStdio {
		t.Errorf("Expected default mode to be 'stdio', got '%s'", cfg.Mode)
	}

	if cfg.Host != DefaultHost {
		t.Errorf("Expected default host to be '%s', got '%s'", DefaultHost, cfg.Host)
	}

	if cfg.Port != DefaultPort {
		t.Errorf("Expected default port to be %d, got %d", DefaultPort, cfg.Port)
	}

	if cfg.ServerName != "mcp-exam-extractor" {
		t.Errorf("Expected default server name to be 'mcp-exam-extractor', got '%s'", cfg.ServerName)
	}

	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("Expected default log level to be 'info', got '%s'", cfg.LogLevel)
	}

	if cfg.MaxFileSize != DefaultMaxFileSize {
		t.Errorf("Expected default max file size to be 100MB, got %d", cfg.MaxFileSize)
	}

	if cfg.MaxSetNumber != DefaultMaxSetNumber {
		t.Errorf("Expected default max set number to be %d, got %d", DefaultMaxSetNumber, cfg.MaxSetNumber)
	}

	if cfg.ChunkSize != DefaultChunkSize {
		t.Errorf("Expected default chunk size to be %d, got %d", DefaultChunkSize, cfg.ChunkSize)
	}

	// The PDF directory defaults to the current working directory
	currentDir, _ := os.Getwd()
	if cfg.PDFDirectory != currentDir {
		t.Errorf("Expected default PDF directory to be '%s', got '%s'", currentDir, cfg.PDFDirectory)
	}
}

func validTestConfig(t *testing.T) *Config {
	t.Helper()
	return &Config{
		Mode:         ModeStdio,
		Host:         DefaultHost,
		Port:         DefaultPort,
		PDFDirectory: t.TempDir(),
		LogLevel:     "info",
		MaxFileSize:  1024,
		MaxSetNumber: DefaultMaxSetNumber,
		ChunkSize:    DefaultChunkSize,
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config - stdio mode",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "valid config - server mode",
			mutate:  func(c *Config) { c.Mode = ModeServer },
			wantErr: false,
		},
		{
			name:    "invalid mode",
			mutate:  func(c *Config) { c.Mode = "invalid" },
			wantErr: true,
		},
		{
			name: "invalid port - too low (server mode)",
			mutate: func(c *Config) {
				c.Mode = ModeServer
				c.Port = 0
			},
			wantErr: true,
		},
		{
			name: "invalid port - too high (server mode)",
			mutate: func(c *Config) {
				c.Mode = ModeServer
				c.Port = 70000
			},
			wantErr: true,
		},
		{
			name:    "invalid port ignored in stdio mode",
			mutate:  func(c *Config) { c.Port = 0 },
			wantErr: false,
		},
		{
			name:    "empty PDF directory",
			mutate:  func(c *Config) { c.PDFDirectory = "" },
			wantErr: true,
		},
		{
			name:    "zero max file size",
			mutate:  func(c *Config) { c.MaxFileSize = 0 },
			wantErr: true,
		},
		{
			name:    "zero max set number",
			mutate:  func(c *Config) { c.MaxSetNumber = 0 },
			wantErr: true,
		},
		{
			name:    "zero chunk size",
			mutate:  func(c *Config) { c.ChunkSize = 0 },
			wantErr: true,
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.LogLevel = "verbose" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig(t)
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigValidateCreatesMissingDirectory(t *testing.T) {
	cfg := validTestConfig(t)
	cfg.PDFDirectory = cfg.PDFDirectory + "/nested/exams"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}

	if _, err := os.Stat(cfg.PDFDirectory); err != nil {
		t.Errorf("Expected directory to be created: %v", err)
	}
}

func TestConfigAddress(t *testing.T) {
	cfg := &Config{Host: "0.0.0.0", Port: 9090}
	if got := cfg.Address(); got != "0.0.0.0:9090" {
		t.Errorf("Address() = %s, want 0.0.0.0:9090", got)
	}
}

func TestConfigModeHelpers(t *testing.T) {
	cfg := validTestConfig(t)

	if !cfg.IsStdioMode() || cfg.IsServerMode() {
		t.Error("Expected stdio mode helpers to report stdio")
	}

	cfg.Mode = ModeServer
	if cfg.IsStdioMode() || !cfg.IsServerMode() {
		t.Error("Expected server mode helpers to report server")
	}
}

func TestConfigString(t *testing.T) {
	cfg := validTestConfig(t)
	s := cfg.String()

	for _, want := range []string{"Mode: stdio", "MaxFileSize: 1024", "MaxSetNumber: 20", "ChunkSize: 5"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() missing %q: %s", want, s)
		}
	}
}

func TestConfigIsDebug(t *testing.T) {
	cfg := validTestConfig(t)
	if cfg.IsDebug() {
		t.Error("info level must not report debug")
	}
	cfg.LogLevel = "debug"
	if !cfg.IsDebug() {
		t.Error("debug level must report debug")
	}
}
