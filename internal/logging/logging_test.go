package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestComponentTagsLogger(t *testing.T) {
	var buf bytes.Buffer
	original := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = original }()

	logger := Component("watcher")
	logger.Info().Msg("started")

	out := buf.String()
	if !strings.Contains(out, `"component":"watcher"`) {
		t.Fatalf("expected component field, got %s", out)
	}
	if !strings.Contains(out, `"message":"started"`) {
		t.Fatalf("expected message field, got %s", out)
	}
}

func TestSetupFallsBackToInfo(t *testing.T) {
	Setup("not-a-level", "json")
	if got := zerolog.GlobalLevel(); got != zerolog.InfoLevel {
		t.Fatalf("expected info level fallback, got %s", got)
	}

	Setup("debug", "json")
	if got := zerolog.GlobalLevel(); got != zerolog.DebugLevel {
		t.Fatalf("expected debug level, got %s", got)
	}
}
