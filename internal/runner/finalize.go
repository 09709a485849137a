package runner

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/calyptra/vertex-agent/internal/genai"
	"github.com/calyptra/vertex-agent/internal/telemetry"
)

// finalize turns the loop's final text into the run result: reshape via a
// second request when JSON was requested alongside tools, parse directly
// when the JSON directive was already attached, or return the text verbatim.
func (r *Runner) finalize(ctx context.Context, payload *genai.GenerateRequest, req Request, finalText string, count int, hasTools bool, log zerolog.Logger) (*Result, error) {
	// The loop only folds function-call turns back into the payload; the
	// final answer must still enter the transcript or a resumed conversation
	// would show the model a history missing its own replies.
	transcript := append(append([]genai.Content{}, payload.Contents...), genai.ModelText(finalText))
	res := &Result{Text: finalText, Transcript: transcript}

	switch {
	case req.JSONFormat && hasTools:
		return r.reformatAsJSON(ctx, payload, req, res, count, log)
	case req.JSONFormat:
		var v any
		if err := json.Unmarshal([]byte(finalText), &v); err != nil {
			msg := fmt.Sprintf("Warning: failed to parse JSON response: %v. Returning raw text.", err)
			telemetry.Note(req.TraceScope, msg)
			log.Warn().Err(err).Msg("structured output did not parse; returning raw text")
			return res, nil
		}
		res.Structured = v
		return res, nil
	default:
		return res, nil
	}
}

// reformatAsJSON issues exactly one additional request asking the model to
// restate the final answer as structured output. Any failure falls back to
// the raw final text; the run itself has already succeeded.
func (r *Runner) reformatAsJSON(ctx context.Context, payload *genai.GenerateRequest, req Request, res *Result, count int, log zerolog.Logger) (*Result, error) {
	telemetry.Note(req.TraceScope, "making final JSON formatting call")
	log.Debug().Msg("making final JSON formatting call")

	contents := append([]genai.Content{}, payload.Contents...)
	contents = append(contents, genai.UserText(
		"Based on our conversation above, please format your response as JSON. Here is the current response: "+res.Text,
	))
	reshape := &genai.GenerateRequest{
		SystemInstruction: payload.SystemInstruction,
		Contents:          contents,
		GenerationConfig:  &genai.GenerationConfig{ResponseMIMEType: genai.MIMEJSON},
	}
	telemetry.SnapshotJSON(req.TraceScope, fmt.Sprintf("formatting_payload_%d", count), reshape)

	resp, err := r.transport.GenerateContent(ctx, reshape, req.Config)
	if err != nil {
		r.reformatFallback(req.TraceScope, log, err)
		return res, nil
	}
	text, ok := firstText(resp)
	if !ok {
		r.reformatFallback(req.TraceScope, log, fmt.Errorf("formatting response carries no text"))
		return res, nil
	}
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		r.reformatFallback(req.TraceScope, log, err)
		return res, nil
	}
	res.Text = text
	res.Structured = v
	return res, nil
}

func (r *Runner) reformatFallback(scope string, log zerolog.Logger, err error) {
	telemetry.Note(scope, fmt.Sprintf("JSON formatting failed: %v. Returning raw text.", err))
	log.Warn().Err(err).Msg("JSON formatting failed; returning raw text")
}

// firstText returns the first text part of the first candidate.
func firstText(resp *genai.GenerateResponse) (string, bool) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", false
	}
	for _, p := range resp.Candidates[0].Content.Parts {
		if p.Text != "" {
			return p.Text, true
		}
	}
	return "", false
}
