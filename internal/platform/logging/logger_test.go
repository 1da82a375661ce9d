package logging

import (
	"log/slog"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSlogLevel(t *testing.T) {
	t.Parallel()

	cases := map[Level]slog.Level{
		LevelDebug: slog.LevelDebug,
		LevelInfo:  slog.LevelInfo,
		LevelWarn:  slog.LevelWarn,
		LevelError: slog.LevelError,
	}
	for input, want := range cases {
		if got := SlogLevel(input); got != want {
			t.Fatalf("SlogLevel(%v) = %v, want %v", input, got, want)
		}
	}
}

func TestLogger_KeyValuePairs(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)
	logger := FromZap(zap.New(core))

	logger.Info("bet created", "bet_id", "b1", "stake", 100)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["bet_id"] != "b1" || fields["stake"] != int64(100) {
		t.Fatalf("unexpected fields: %v", fields)
	}
}

func TestLogger_DanglingKeyTolerated(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)
	logger := FromZap(zap.New(core))

	logger.Warn("odd arg count", "orphan")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if _, ok := entries[0].ContextMap()["orphan"]; !ok {
		t.Fatalf("dangling key dropped: %v", entries[0].ContextMap())
	}
}

func TestLogger_With(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)
	logger := FromZap(zap.New(core)).With("component", "sync")

	logger.Info("run finished")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].ContextMap()["component"] != "sync" {
		t.Fatalf("With fields lost: %v", entries[0].ContextMap())
	}
}

func TestLogger_NilSafe(t *testing.T) {
	t.Parallel()

	var logger *Logger
	logger.Info("must not panic")
	logger.With("k", "v").Warn("still fine")
	if err := logger.Sync(); err != nil {
		t.Fatalf("sync on nil logger: %v", err)
	}
}

func TestSetDefault(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	replaced := FromZap(zap.New(core))

	previous := Default()
	SetDefault(replaced)
	defer SetDefault(previous)

	Default().Info("routed through default")
	if logs.Len() != 1 {
		t.Fatalf("default logger not replaced: %d entries", logs.Len())
	}
}
