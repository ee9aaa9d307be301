package container

import (
	"context"
	"testing"

	"github.com/gdugdh24/spark-backend/internal/config"
	"github.com/gin-gonic/gin"
)

func TestNewContainerInMemory(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Server:  config.ServerConfig{Host: "127.0.0.1", Port: 0, Env: "test"},
		JWT:     config.JWTConfig{AccessSecret: "0123456789abcdef0123456789abcdef", AccessExpiryMin: 60},
		Storage: config.StorageConfig{Type: config.StorageMemory, StateStore: config.StateStoreMemory},
		Match:   config.MatchConfig{Probability: 0.3},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}

	app, err := NewContainer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewContainer() error = %v", err)
	}
	if app.Server == nil || app.Auth == nil {
		t.Fatal("container is missing the server or auth use case")
	}
	if app.DB != nil || app.Redis != nil || app.Gemini != nil {
		t.Error("memory mode opened external connections")
	}
	if got := app.Server.Addr(); got != "127.0.0.1:0" {
		t.Errorf("Addr() = %q", got)
	}
	if err := app.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
