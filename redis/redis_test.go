package redis

import (
	"testing"

	"go-away-stress/config"

	"github.com/alicebob/miniredis/v2"
)

func TestNewClient(t *testing.T) {
	s, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer s.Close()

	rdb, err := NewClient(config.RedisConfig{Address: s.Addr(), OperationTimeout: 1})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	defer rdb.Close()
}

func TestNewClient_Unreachable(t *testing.T) {
	s, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	addr := s.Addr()
	s.Close()

	if _, err := NewClient(config.RedisConfig{Address: addr, OperationTimeout: 1}); err == nil {
		t.Error("NewClient() should fail when Redis is down")
	}
}
