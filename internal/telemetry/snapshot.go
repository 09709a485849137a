package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// maxSnapshotValueRunes clamps individual string values inside persisted
// payloads; large tool results would otherwise bloat the trace directory.
const maxSnapshotValueRunes = 4000

// SnapshotJSON persists payload as <trace dir>/<scope>/<name>.json when
// VA_PERSIST_API_PAYLOADS=1. Oversized string values are truncated in the
// persisted copy; the in-flight payload is never touched.
func SnapshotJSON(scope, name string, payload any) {
	if !PersistPayloadsEnabled() {
		return
	}

	b, err := json.Marshal(payload)
	if err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: snapshot marshal: %v\n", err)
		return
	}
	b = redactLongStrings(b)

	dir := TraceDir()
	if scope != "" {
		dir = filepath.Join(dir, scope)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: mkdir %s: %v\n", dir, err)
		return
	}

	path := filepath.Join(dir, name+".json")
	if err := os.WriteFile(path, b, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: write %s: %v\n", path, err)
	}
}

// redactLongStrings truncates every string value longer than
// maxSnapshotValueRunes, appending an ellipsis marker.
func redactLongStrings(b []byte) []byte {
	var paths []string
	collectLongStringPaths(gjson.ParseBytes(b), "", &paths)
	for _, p := range paths {
		s := gjson.GetBytes(b, p).String()
		r := []rune(s)
		if len(r) <= maxSnapshotValueRunes {
			continue
		}
		out, err := sjson.SetBytes(b, p, string(r[:maxSnapshotValueRunes])+"…[truncated]")
		if err != nil {
			continue
		}
		b = out
	}
	return b
}

func collectLongStringPaths(v gjson.Result, prefix string, paths *[]string) {
	switch {
	case v.IsObject():
		v.ForEach(func(key, val gjson.Result) bool {
			p := escapePathKey(key.String())
			if prefix != "" {
				p = prefix + "." + p
			}
			collectLongStringPaths(val, p, paths)
			return true
		})
	case v.IsArray():
		i := 0
		v.ForEach(func(_, val gjson.Result) bool {
			p := fmt.Sprintf("%s.%d", prefix, i)
			if prefix == "" {
				p = fmt.Sprintf("%d", i)
			}
			collectLongStringPaths(val, p, paths)
			i++
			return true
		})
	case v.Type == gjson.String:
		if len([]rune(v.String())) > maxSnapshotValueRunes {
			*paths = append(*paths, prefix)
		}
	}
}

// escapePathKey escapes characters gjson and sjson treat as path syntax, so
// object keys containing dots or wildcards address themselves and never a
// sibling field.
func escapePathKey(k string) string {
	var b strings.Builder
	for _, r := range k {
		switch r {
		case '\\', '.', '*', '?', '|', '#', '@', ':':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
