package main

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Sirpyerre/user-management/internal/core/domain"
	"github.com/Sirpyerre/user-management/internal/pkg/config"
)

func TestRun_InvalidSigningKeyStopsBeforeConnecting(t *testing.T) {
	cfg := &config.Config{
		JWT: config.JWTConfig{Secret: "c2hvcnQ=", ExpirationMS: 1000},
		// Unreachable on purpose: run must fail before dialing.
		Mongo: config.MongoConfig{URI: "mongodb://127.0.0.1:1", Database: "none"},
	}

	err := run(context.Background(), cfg, zerolog.Nop())
	if !errors.Is(err, domain.ErrInvalidSigningKey) {
		t.Fatalf("expected ErrInvalidSigningKey, got %v", err)
	}
}
