package config

import (
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadMemoryMode(t *testing.T) {
	t.Setenv("STORAGE_TYPE", StorageMemory)
	t.Setenv("STATE_STORE", StateStoreMemory)
	t.Setenv("JWT_ACCESS_SECRET", testSecret)
	t.Setenv("MATCH_PROBABILITY", "0.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 8080 || cfg.Server.Env != "development" {
		t.Errorf("server defaults = %+v", cfg.Server)
	}
	if cfg.Match.Probability != 0.5 {
		t.Errorf("probability = %v", cfg.Match.Probability)
	}
	if got := cfg.JWT.AccessTTL(); got != 7*24*time.Hour {
		t.Errorf("AccessTTL() = %v", got)
	}
	if got := cfg.Storage.StateTTL(); got != 30*24*time.Hour {
		t.Errorf("StateTTL() = %v", got)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Database: DatabaseConfig{Host: "db", User: "spark", DBName: "spark"},
			Redis:    RedisConfig{Host: "redis"},
			JWT:      JWTConfig{AccessSecret: testSecret, AccessExpiryMin: 60},
			Storage:  StorageConfig{Type: StoragePostgres, StateStore: StateStoreRedis},
			Match:    MatchConfig{Probability: 0.3},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"memory needs no database", func(c *Config) { c.Storage.Type = StorageMemory; c.Database = DatabaseConfig{} }, ""},
		{"missing db host", func(c *Config) { c.Database.Host = "" }, "database host"},
		{"unknown storage", func(c *Config) { c.Storage.Type = "sqlite" }, "unknown storage"},
		{"unknown state store", func(c *Config) { c.Storage.StateStore = "disk" }, "unknown state store"},
		{"missing redis host", func(c *Config) { c.Redis.Host = "" }, "redis host"},
		{"short secret", func(c *Config) { c.JWT.AccessSecret = "short" }, "at least 32"},
		{"zero expiry", func(c *Config) { c.JWT.AccessExpiryMin = 0 }, "expiry"},
		{"short external secret", func(c *Config) { c.JWT.ExternalSecret = "short" }, "external auth secret"},
		{"external secret", func(c *Config) { c.JWT.ExternalSecret = testSecret }, ""},
		{"probability above one", func(c *Config) { c.Match.Probability = 1.5 }, "probability"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestAddresses(t *testing.T) {
	db := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "spark", SSLMode: "disable"}
	if got := db.GetDSN(); got != "host=db port=5432 user=u password=p dbname=spark sslmode=disable" {
		t.Errorf("GetDSN() = %q", got)
	}
	r := RedisConfig{Host: "redis", Port: 6379}
	if got := r.GetAddr(); got != "redis:6379" {
		t.Errorf("GetAddr() = %q", got)
	}
}
