package logger

import (
	"context"
	"io"
	"testing"
)

func TestInContext(t *testing.T) {
	t.Run("bare context carries no logger", func(t *testing.T) {
		if l := InContext(context.Background()); l != nil {
			t.Errorf("expected nil, got %v", l)
		}
		if l := InContext(nil); l != nil {
			t.Errorf("expected nil for nil context, got %v", l)
		}
	})

	t.Run("attached logger is returned", func(t *testing.T) {
		l := New(&Config{Level: "error", Output: io.Discard})
		ctx := l.WithContext(context.Background())
		if got := InContext(ctx); got != l {
			t.Errorf("expected the attached logger, got %v", got)
		}
	})

	t.Run("FromContext still falls back to the default", func(t *testing.T) {
		if l := FromContext(context.Background()); l == nil {
			t.Error("expected the default logger, got nil")
		}
	})

	t.Run("field helpers attach a logger", func(t *testing.T) {
		ctx := WithField(context.Background(), FieldRunID, "run-1")
		if l := InContext(ctx); l == nil {
			t.Error("expected a logger after WithField")
		}
	})
}
