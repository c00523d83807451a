package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Port:               "8081",
		RateLimitPerMinute: 60,
		DataBackend:        "memory",
		RankingTopN:        10,
		CategoryCacheTTL:   time.Minute,
		CategoryCacheSize:  100,
		LogLevel:           "info",
		LogFormat:          "text",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(c *Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid memory backend config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "valid sqlite backend config",
			modify: func(c *Config) {
				c.DataBackend = "sqlite"
				c.SQLiteDBPath = filepath.Join(t.TempDir(), "nested", "test.db")
			},
			wantErr: false,
		},
		{
			name:        "invalid port - non-numeric",
			modify:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range low",
			modify:      func(c *Config) { c.Port = "0" },
			wantErr:     true,
			errorString: "invalid port 0: must be between 1 and 65535",
		},
		{
			name:        "invalid port - out of range high",
			modify:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "invalid data backend",
			modify:      func(c *Config) { c.DataBackend = "sheets" },
			wantErr:     true,
			errorString: "invalid data backend 'sheets': must be one of [memory sqlite]",
		},
		{
			name: "sqlite backend missing database path",
			modify: func(c *Config) {
				c.DataBackend = "sqlite"
				c.SQLiteDBPath = ""
			},
			wantErr:     true,
			errorString: "SQLite database path cannot be empty when using sqlite backend",
		},
		{
			name: "seed file without user",
			modify: func(c *Config) {
				c.SeedFile = "seed.json"
				c.SeedUser = ""
			},
			wantErr:     true,
			errorString: "seed user cannot be empty",
		},
		{
			name:        "invalid rate limit",
			modify:      func(c *Config) { c.RateLimitPerMinute = 0 },
			wantErr:     true,
			errorString: "invalid rate limit 0",
		},
		{
			name:        "invalid ranking size - too small",
			modify:      func(c *Config) { c.RankingTopN = 0 },
			wantErr:     true,
			errorString: "invalid ranking size 0: must be at least 1",
		},
		{
			name:        "invalid ranking size - too large",
			modify:      func(c *Config) { c.RankingTopN = 101 },
			wantErr:     true,
			errorString: "invalid ranking size 101: must be at most 100",
		},
		{
			name:        "invalid cache TTL - too short",
			modify:      func(c *Config) { c.CategoryCacheTTL = 500 * time.Millisecond },
			wantErr:     true,
			errorString: "invalid category cache TTL 500ms: must be at least 1 second",
		},
		{
			name:        "invalid cache TTL - too long",
			modify:      func(c *Config) { c.CategoryCacheTTL = 25 * time.Hour },
			wantErr:     true,
			errorString: "invalid category cache TTL 25h0m0s: must be at most 24 hours",
		},
		{
			name:        "invalid cache size",
			modify:      func(c *Config) { c.CategoryCacheSize = 0 },
			wantErr:     true,
			errorString: "invalid category cache size 0",
		},
		{
			name:        "invalid log level",
			modify:      func(c *Config) { c.LogLevel = "trace" },
			wantErr:     true,
			errorString: "invalid log level 'trace'",
		},
		{
			name:        "invalid log format",
			modify:      func(c *Config) { c.LogFormat = "xml" },
			wantErr:     true,
			errorString: "invalid log format 'xml'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Config.Validate() error = nil, wantErr %v", tt.wantErr)
					return
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Config.Validate() error = %v, want error containing %v", err.Error(), tt.errorString)
				}
			} else if err != nil {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateCollectsAllProblems(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "abc"
	cfg.LogFormat = "xml"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected an error")
	}
	msg := err.Error()
	if !strings.HasPrefix(msg, "configuration validation failed:") ||
		!strings.Contains(msg, "invalid port") || !strings.Contains(msg, "invalid log format") {
		t.Fatalf("unexpected error %q", msg)
	}
}

func TestLoad(t *testing.T) {
	keys := []string{
		"PORT", "DATA_BACKEND", "SQLITE_DB_PATH", "SEED_FILE", "SEED_USER", "RANKING_TOP_N",
		"RATE_LIMIT_PER_MINUTE", "CATEGORY_CACHE_TTL", "CATEGORY_CACHE_SIZE", "LOG_LEVEL", "LOG_FORMAT",
	}

	t.Run("default values", func(t *testing.T) {
		for _, k := range keys {
			t.Setenv(k, "")
		}
		cfg := Load()

		if cfg.Port != "8081" {
			t.Errorf("Load() Port = %v, want 8081", cfg.Port)
		}
		if cfg.DataBackend != "memory" {
			t.Errorf("Load() DataBackend = %v, want memory", cfg.DataBackend)
		}
		if cfg.SQLiteDBPath != "./data/jizhang.db" {
			t.Errorf("Load() SQLiteDBPath = %v, want ./data/jizhang.db", cfg.SQLiteDBPath)
		}
		if cfg.RankingTopN != 10 || cfg.RateLimitPerMinute != 120 {
			t.Errorf("Load() RankingTopN = %d, RateLimitPerMinute = %d", cfg.RankingTopN, cfg.RateLimitPerMinute)
		}
		if cfg.CategoryCacheTTL != 10*time.Minute || cfg.CategoryCacheSize != 500 {
			t.Errorf("Load() cache = %v / %d", cfg.CategoryCacheTTL, cfg.CategoryCacheSize)
		}
		if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
			t.Errorf("Load() logging = %s / %s", cfg.LogLevel, cfg.LogFormat)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("defaults should validate: %v", err)
		}
	})

	t.Run("environment variables", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("DATA_BACKEND", "sqlite")
		t.Setenv("SQLITE_DB_PATH", "/tmp/test.db")
		t.Setenv("RANKING_TOP_N", "5")
		t.Setenv("CATEGORY_CACHE_TTL", "30s")
		t.Setenv("LOG_LEVEL", "DEBUG")
		t.Setenv("LOG_FORMAT", "json")

		cfg := Load()
		if cfg.Port != "9090" || cfg.DataBackend != "sqlite" || cfg.SQLiteDBPath != "/tmp/test.db" {
			t.Errorf("unexpected server/backend config %+v", cfg)
		}
		if cfg.RankingTopN != 5 || cfg.CategoryCacheTTL != 30*time.Second {
			t.Errorf("unexpected report config %+v", cfg)
		}
		if cfg.LogLevel != "debug" || cfg.LogFormat != "json" {
			t.Errorf("unexpected logging config %+v", cfg)
		}
	})

	t.Run("malformed numbers fall back to defaults", func(t *testing.T) {
		t.Setenv("RANKING_TOP_N", "many")
		t.Setenv("CATEGORY_CACHE_TTL", "soon")
		cfg := Load()
		if cfg.RankingTopN != 10 || cfg.CategoryCacheTTL != 10*time.Minute {
			t.Errorf("unexpected fallback values %d / %v", cfg.RankingTopN, cfg.CategoryCacheTTL)
		}
	})
}
