package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/calyptra/vertex-agent/internal/telemetry"
)

func TestRunID_RoundTrip(t *testing.T) {
	ctx := telemetry.WithRunID(context.Background(), "run-123")
	got, ok := telemetry.RunIDFromContext(ctx)
	if !ok || got != "run-123" {
		t.Fatalf("want run-123,true; got %q,%v", got, ok)
	}
}

func TestRunID_EmptyIDRejectedOnRead(t *testing.T) {
	ctx := telemetry.WithRunID(context.Background(), "")
	got, ok := telemetry.RunIDFromContext(ctx)
	if ok || got != "" {
		t.Fatalf("want empty,false; got %q,%v", got, ok)
	}
}

func TestRunID_ParentCancellationPropagates(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	defer cancel()

	child := telemetry.WithRunID(parent, "r1")

	// Cancel the parent and ensure child's Done is closed promptly.
	cancel()

	select {
	case <-child.Done():
		// ok
	case <-time.After(100 * time.Millisecond):
		t.Fatal("child context did not observe parent cancellation")
	}
}

func TestRunID_LastWriteWins(t *testing.T) {
	ctx1 := telemetry.WithRunID(context.Background(), "r1")
	ctx2 := telemetry.WithRunID(ctx1, "r2")

	got, ok := telemetry.RunIDFromContext(ctx2)
	if !ok || got != "r2" {
		t.Fatalf("want r2,true; got %q,%v", got, ok)
	}
}

func TestRunID_UnrelatedValuesUnaffected(t *testing.T) {
	type otherKey struct{}
	parent := context.WithValue(context.Background(), otherKey{}, 123)

	child := telemetry.WithRunID(parent, "r1")

	// Unrelated value should still be accessible from child.
	v := child.Value(otherKey{})
	if v != 123 {
		t.Fatalf("want unrelated value 123; got %#v", v)
	}

	// And run ID remains intact.
	got, ok := telemetry.RunIDFromContext(child)
	if !ok || got != "r1" {
		t.Fatalf("want r1,true; got %q,%v", got, ok)
	}
}

func TestRunID_MissingValue(t *testing.T) {
	got, ok := telemetry.RunIDFromContext(context.Background())
	if ok || got != "" {
		t.Fatalf("want empty,false; got %q,%v", got, ok)
	}
}

func TestNewRunID_Unique(t *testing.T) {
	a, b := telemetry.NewRunID(), telemetry.NewRunID()
	if a == "" || a == b {
		t.Fatalf("run IDs must be fresh: %q %q", a, b)
	}
}
