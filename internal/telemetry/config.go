package telemetry

import (
	"os"
)

var (
	observeEnabled         bool
	persistPayloadsEnabled bool
)

func init() {
	// Read once at process start. Mid-run environment changes have no effect.
	observeEnabled = os.Getenv("VA_OBSERVE_JSON") == "1"
	persistPayloadsEnabled = os.Getenv("VA_PERSIST_API_PAYLOADS") == "1"
}

// ObserveEnabled reports whether JSONL emission was enabled at startup.
func ObserveEnabled() bool {
	// Preserve startup-evaluated default, but allow tests to enable mid-run via env override.
	if os.Getenv("VA_OBSERVE_JSON") == "1" {
		return true
	}
	return observeEnabled
}

// PersistPayloadsEnabled reports whether request and response payload persistence was enabled at startup.
func PersistPayloadsEnabled() bool {
	// Preserve startup-evaluated default, but allow tests to enable mid-run via env override.
	if os.Getenv("VA_PERSIST_API_PAYLOADS") == "1" {
		return true
	}
	return persistPayloadsEnabled
}

// TraceDir returns the directory trace artifacts are written under.
// Defaults to .agent when VA_TRACE_DIR is unset.
func TraceDir() string {
	if d := os.Getenv("VA_TRACE_DIR"); d != "" {
		return d
	}
	return ".agent"
}
