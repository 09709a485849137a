package telemetry

import (
	"context"

	"github.com/calyptra/vertex-agent/internal/metrics"
)

// EmitPromptFeatures records basic local text features of a user prompt.
func EmitPromptFeatures(ctx context.Context, prompt string) {
	if !ObserveEnabled() {
		return
	}
	runID, _ := RunIDFromContext(ctx)
	f := metrics.SummarizePrompt(prompt)
	Emit("prompt_features", map[string]any{
		"run_id":           runID,
		"features_version": "2",
		"prompt": map[string]any{
			"bytes":          f.Bytes,
			"runes":          f.Runes,
			"words":          f.Words,
			"lines":          f.Lines,
			"max_line_runes": f.MaxLineRunes,
		},
	})
}
