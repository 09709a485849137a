package telemetry_test

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/calyptra/vertex-agent/internal/telemetry"
)

// traceDir points telemetry output at a fresh temp dir and enables emission.
func traceDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("VA_TRACE_DIR", dir)
	t.Setenv("VA_OBSERVE_JSON", "1")
	return dir
}

func TestEmit_Gating(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("VA_TRACE_DIR", dir)
	t.Setenv("VA_OBSERVE_JSON", "0")

	telemetry.Emit("test_event", map[string]any{"foo": "bar"})

	if _, err := os.Stat(filepath.Join(dir, "events.jsonl")); !os.IsNotExist(err) {
		t.Fatalf("expected no events file with observe off, got err=%v", err)
	}
}

func TestEmit_HappyPath(t *testing.T) {
	dir := traceDir(t)

	telemetry.Emit("test_event", map[string]any{"foo": "bar", "num": 42})

	data, err := os.ReadFile(filepath.Join(dir, "events.jsonl"))
	if err != nil {
		t.Fatalf("failed to read events.jsonl: %v", err)
	}

	// Should be exactly one line
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}

	var event map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &event); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if event["event"] != "test_event" {
		t.Errorf("expected event=test_event, got %v", event["event"])
	}
	if event["foo"] != "bar" {
		t.Errorf("expected foo=bar, got %v", event["foo"])
	}
	if event["num"] != float64(42) { // JSON numbers are float64
		t.Errorf("expected num=42, got %v", event["num"])
	}

	// Assert time field exists and is valid RFC3339Nano
	timeStr, ok := event["time"].(string)
	if !ok {
		t.Fatal("expected time field as string")
	}
	if _, err := time.Parse(time.RFC3339Nano, timeStr); err != nil {
		t.Errorf("time field not valid RFC3339Nano: %v", err)
	}
}

func TestEmit_MultipleEmissions(t *testing.T) {
	dir := traceDir(t)

	telemetry.Emit("event1", map[string]any{"id": 1})
	telemetry.Emit("event2", map[string]any{"id": 2})
	telemetry.Emit("event3", map[string]any{"id": 3})

	data, err := os.ReadFile(filepath.Join(dir, "events.jsonl"))
	if err != nil {
		t.Fatalf("failed to read events.jsonl: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}

	expectedEvents := []string{"event1", "event2", "event3"}
	for i, line := range lines {
		var event map[string]any
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			t.Fatalf("line %d invalid JSON: %v", i+1, err)
		}
		if event["event"] != expectedEvents[i] {
			t.Errorf("line %d: expected event=%s, got %v", i+1, expectedEvents[i], event["event"])
		}
	}
}

func TestEmit_MapIsolation(t *testing.T) {
	traceDir(t)

	fields := map[string]any{"key": "value"}
	telemetry.Emit("test", fields)

	// Assert original map is unchanged
	if len(fields) != 1 {
		t.Errorf("expected fields to have 1 key, got %d", len(fields))
	}
	if fields["key"] != "value" {
		t.Errorf("expected key=value, got %v", fields["key"])
	}
	if _, ok := fields["time"]; ok {
		t.Error("fields should not contain 'time' key")
	}
	if _, ok := fields["event"]; ok {
		t.Error("fields should not contain 'event' key")
	}
}

func TestEmit_ErrorHandling_MarshalError(t *testing.T) {
	dir := traceDir(t)

	// NaN cannot be marshaled by encoding/json (will error)
	telemetry.Emit("bad", map[string]any{"x": math.NaN()})

	// Should not create file (or directory) on marshal error
	if _, err := os.Stat(filepath.Join(dir, "events.jsonl")); !os.IsNotExist(err) {
		t.Fatalf("expected no events file on marshal error, got err=%v", err)
	}
}

func TestEmit_NilFields(t *testing.T) {
	dir := traceDir(t)

	// Pass nil map; should not panic and should write event+time only
	telemetry.Emit("nil_fields", nil)

	data, err := os.ReadFile(filepath.Join(dir, "events.jsonl"))
	if err != nil {
		t.Fatalf("failed to read events.jsonl: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}

	var event map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &event); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if event["event"] != "nil_fields" {
		t.Errorf("expected event=nil_fields, got %v", event["event"])
	}
	// Expect exactly 2 keys: event and time
	if len(event) != 2 {
		t.Fatalf("expected exactly 2 keys (event,time), got %d: %#v", len(event), event)
	}
	if _, ok := event["time"].(string); !ok {
		t.Fatal("expected time field as string")
	}
}

func TestEmit_ErrorHandling_ReadOnlyFile(t *testing.T) {
	dir := traceDir(t)

	path := filepath.Join(dir, "events.jsonl")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o444)
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	if err := os.Chmod(path, 0o444); err != nil {
		t.Fatal(err)
	}

	// Should not panic; open will fail and be logged to stderr
	telemetry.Emit("x", map[string]any{"a": 1})

	// File should remain unchanged (size 0)
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Size() != 0 {
		t.Fatalf("expected read-only file size 0, got %d", fi.Size())
	}
}

func TestNote_CarriesScopeAndText(t *testing.T) {
	dir := traceDir(t)

	telemetry.Note("run7", "something notable happened")

	data, err := os.ReadFile(filepath.Join(dir, "events.jsonl"))
	if err != nil {
		t.Fatalf("failed to read events.jsonl: %v", err)
	}
	var event map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &event); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if event["event"] != "note" {
		t.Fatalf("expected note event, got %v", event["event"])
	}
	if event["scope"] != "run7" || event["text"] != "something notable happened" {
		t.Fatalf("unexpected note payload: %#v", event)
	}
}

func TestNote_EmptyScopeOmitted(t *testing.T) {
	dir := traceDir(t)

	telemetry.Note("", "scopeless")

	data, err := os.ReadFile(filepath.Join(dir, "events.jsonl"))
	if err != nil {
		t.Fatalf("failed to read events.jsonl: %v", err)
	}
	var event map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &event); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, ok := event["scope"]; ok {
		t.Fatalf("empty scope must be omitted: %#v", event)
	}
}
