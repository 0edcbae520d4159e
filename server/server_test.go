package server

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/adminkit/logger"
)

func TestConfig_Defaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Host != "127.0.0.1" || cfg.Port != 5000 {
		t.Errorf("unexpected defaults %s:%d", cfg.Host, cfg.Port)
	}
	if cfg.ReadTimeout != 15*time.Second {
		t.Errorf("expected 15s read timeout, got %v", cfg.ReadTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := Config{Port: 70000}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for out-of-range port")
	}
	cfg = Config{Port: 1, ReadTimeout: -1}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative timeout")
	}
}

func TestServer_StartStop(t *testing.T) {
	cfg := Config{Port: 0}
	cfg.ApplyDefaults()
	cfg.Port = 0

	s := New(cfg, logger.Nop())
	s.ApplyMiddleware()
	s.Engine().GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer func() {
		if err := s.Stop(context.Background()); err != nil {
			t.Errorf("stop: %v", err)
		}
	}()

	resp, err := http.Get("http://" + s.Addr() + "/ping")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if string(body) != `{"message":"pong"}` {
		t.Errorf("unexpected body %s", body)
	}
	if resp.Header.Get("X-Request-Id") == "" {
		t.Error("expected request id header from middleware")
	}
}
