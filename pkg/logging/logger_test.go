package logging

import (
	"context"
	"log/slog"
	"testing"
)

func TestNew_Levels(t *testing.T) {
	cases := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	ctx := context.Background()
	for _, tc := range cases {
		logger := New(tc.level, "json")
		if logger == nil {
			t.Fatalf("New(%q) returned nil", tc.level)
		}
		if !logger.Enabled(ctx, tc.want) {
			t.Errorf("New(%q) should enable level %v", tc.level, tc.want)
		}
		if tc.want != slog.LevelDebug && logger.Enabled(ctx, tc.want-4) {
			t.Errorf("New(%q) should not enable level %v", tc.level, tc.want-4)
		}
	}
}

func TestDefault(t *testing.T) {
	logger := Default()
	if logger == nil {
		t.Fatal("Default() returned nil")
	}
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Default() should not enable debug")
	}
}

func TestWith(t *testing.T) {
	logger := Default().With("component", "test")
	if logger == nil || logger.Logger == nil {
		t.Fatal("With() returned nil logger")
	}
}
