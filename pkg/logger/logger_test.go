package logger

import (
	"context"
	"testing"

	"github.com/roguepikachu/sendy/internal/utils"
)

func TestSprintf(t *testing.T) {
	if got := Sprintf(""); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
	if got := Sprintf("hi %s", "there"); got != "hi there" {
		t.Fatalf("unexpected format: %q", got)
	}
}

func TestWithAndWithField(t *testing.T) {
	ctx := context.Background()
	e := With(ctx, map[string]any{"k": "v"})
	if e == nil {
		t.Fatal("expected non-nil entry")
	}
	e2 := WithField(ctx, "k2", 2)
	if e2 == nil {
		t.Fatal("expected non-nil entry")
	}
}

func TestWith_NilAndEmptyMap(t *testing.T) {
	ctx := context.Background()
	if e := With(ctx, nil); e == nil {
		t.Fatal("expected non-nil entry even with nil map")
	}
	if e := With(ctx, map[string]any{}); e == nil {
		t.Fatal("expected non-nil entry even with empty map")
	}
}

func TestWith_PicksUpContextIDs(t *testing.T) {
	ctx := utils.WithRequestID(context.Background(), "rid-42")
	ctx = utils.WithClientID(ctx, "cid-42")
	e := With(ctx, map[string]any{"domain": "demo"})
	if e.Data["request_id"] != "rid-42" {
		t.Fatalf("expected request_id in fields, got %v", e.Data)
	}
	if e.Data["client_id"] != "cid-42" {
		t.Fatalf("expected client_id in fields, got %v", e.Data)
	}
	if e.Data["domain"] != "demo" {
		t.Fatalf("expected caller field preserved, got %v", e.Data)
	}
}

func TestLoggingMethods(t *testing.T) {
	ctx := context.Background()

	// These should not panic
	Debug(ctx, "debug message")
	Info(ctx, "info message")
	Warn(ctx, "warn message")
	Error(ctx, "error message")
	Debug(ctx, "debug: %s %d", "test", 123)
	Info(ctx, "info: %v", map[string]int{"count": 42})
}

func TestChainedLogging(t *testing.T) {
	ctx := context.Background()

	e := WithField(ctx, "service", "sendy")
	e = e.WithField("version", "1.0.0")
	e = e.WithField("env", "test")

	e.Info("chained logging example")
}

func TestConcurrentLogging(t *testing.T) {
	ctx := context.Background()

	done := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		go func(id int) {
			e := WithField(ctx, "goroutine", id)
			e.Info("concurrent log message")
			Info(ctx, "global log message from goroutine %d", id)
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}
