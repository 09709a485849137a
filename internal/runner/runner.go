package runner

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/calyptra/vertex-agent/internal/executor"
	"github.com/calyptra/vertex-agent/internal/genai"
	"github.com/calyptra/vertex-agent/internal/provider"
	"github.com/calyptra/vertex-agent/internal/telemetry"
	"github.com/calyptra/vertex-agent/internal/vars"
	"github.com/calyptra/vertex-agent/tools"
)

// Generator is the transport surface the runner drives. *provider.Client
// satisfies it; tests substitute fakes.
type Generator interface {
	GenerateContent(ctx context.Context, req *genai.GenerateRequest, cfg *provider.CallConfig) (*genai.GenerateResponse, error)
}

// DefaultMaxTurns bounds the conversation loop. The model deciding to call
// functions forever would otherwise keep the run alive indefinitely.
const DefaultMaxTurns = 32

// Request is one prompt invocation.
type Request struct {
	Prompt       string
	SystemPrompt string
	// JSONFormat asks for structured output. With tools registered the
	// reshaping happens in a second pass after the loop concludes; strict
	// JSON mode and tool calling are never requested together.
	JSONFormat bool
	// History is an optional prior transcript used as the initial prefix.
	History    []genai.Content
	TraceScope string
	Config     *provider.CallConfig
}

// Result is a completed run. Structured is non-nil only when JSON output
// was requested and the final text parsed; Transcript reflects every tool
// call attempted, including failed and unknown ones, in order.
type Result struct {
	Text       string
	Structured any
	Transcript []genai.Content
}

// Runner drives the multi-turn exchange: it builds each request, interprets
// response parts, dispatches tool execution, folds results back into the
// conversation, and decides when the exchange has produced a final answer.
type Runner struct {
	transport Generator
	registry  *tools.Registry
	exec      *executor.Executor
	store     *vars.Store
	log       zerolog.Logger
	maxTurns  int
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the runner's logger.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Runner) { r.log = log }
}

// WithMaxTurns overrides the loop's round-trip ceiling. Values <= 0 keep
// the default.
func WithMaxTurns(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.maxTurns = n
		}
	}
}

// New returns a runner over the given collaborators.
func New(transport Generator, registry *tools.Registry, exec *executor.Executor, store *vars.Store, opts ...Option) *Runner {
	r := &Runner{
		transport: transport,
		registry:  registry,
		exec:      exec,
		store:     store,
		log:       zerolog.Nop(),
		maxTurns:  DefaultMaxTurns,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Run executes one full prompt exchange and returns the final answer.
// Transport failures, blocked responses, and structurally invalid responses
// are fatal; unknown-tool and tool-execution failures are folded back into
// the conversation so the model can recover.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	// Stale result names from a previous run must never leak into this one.
	r.exec.Reset()

	runID := telemetry.NewRunID()
	ctx = telemetry.WithRunID(ctx, runID)
	telemetry.EmitPromptFeatures(ctx, req.Prompt)
	log := r.log.With().Str("run_id", runID).Logger()

	payload := r.buildPayload(req)
	hasTools := r.registry.Len() > 0

	count := 0
	for {
		if count >= r.maxTurns {
			return nil, &TurnLimitError{Limit: r.maxTurns}
		}
		telemetry.SnapshotJSON(req.TraceScope, fmt.Sprintf("payload_%d", count), payload)
		count++

		resp, err := r.transport.GenerateContent(ctx, payload, req.Config)
		if err != nil {
			telemetry.Note(req.TraceScope, "api call failed: "+err.Error())
			log.Error().Err(err).Msg("transport call failed")
			return nil, err
		}
		telemetry.SnapshotJSON(req.TraceScope, fmt.Sprintf("response_%d", count-1), resp)

		if len(resp.Candidates) == 0 {
			blocked := &BlockedError{Reason: "Unknown", Feedback: resp.PromptFeedback}
			if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
				blocked.Reason = resp.PromptFeedback.BlockReason
			}
			telemetry.Note(req.TraceScope, blocked.Error())
			log.Error().Str("reason", blocked.Reason).Msg("request blocked")
			return nil, blocked
		}

		content := resp.Candidates[0].Content
		if content == nil || len(content.Parts) == 0 {
			return nil, &ResponseParseError{Reason: "candidate carries no content parts", Raw: resp.Raw}
		}

		finalText, found := r.processParts(ctx, payload, content.Parts, req.TraceScope, log)
		if !found {
			// All parts were function calls; loop for the next response.
			continue
		}
		return r.finalize(ctx, payload, req, finalText, count, hasTools, log)
	}
}

// buildPayload assembles the initial request: system instruction (caller
// prompt + auto-generated block), prior history, the new user turn, and
// tool declarations when any tools are registered.
func (r *Runner) buildPayload(req Request) *genai.GenerateRequest {
	payload := &genai.GenerateRequest{
		SystemInstruction: &genai.Content{Parts: []genai.Part{
			{Text: req.SystemPrompt},
			{Text: r.systemInstruction()},
		}},
		Contents: append([]genai.Content{}, req.History...),
	}
	payload.Contents = append(payload.Contents, genai.UserText(req.Prompt))

	if r.registry.Len() > 0 {
		payload.Tools = []genai.Tool{{FunctionDeclarations: r.registry.Declarations()}}
		payload.ToolConfig = &genai.ToolConfig{
			FunctionCallingConfig: genai.FunctionCallingConfig{Mode: genai.ModeAuto},
		}
	}
	// With tools registered, JSON shaping is deferred to a second pass; the
	// model may need free-form reasoning between tool calls.
	if req.JSONFormat && r.registry.Len() == 0 {
		payload.GenerationConfig = &genai.GenerationConfig{ResponseMIMEType: genai.MIMEJSON}
	}
	return payload
}

// processParts walks the candidate's parts in order, dispatching function
// calls and looking for the final text. A text part counts as final only
// when no function call remains after it in the same content; earlier text
// parts are commentary preceding further tool use.
func (r *Runner) processParts(ctx context.Context, payload *genai.GenerateRequest, parts []genai.Part, scope string, log zerolog.Logger) (string, bool) {
	for i, part := range parts {
		if part.FunctionCall != nil {
			r.handleFunctionCall(ctx, payload, part, scope, log)
			continue
		}
		// A text part counts even when empty: the wire carries exactly one
		// key per part, so a zero part is an empty text part, not absence.
		if functionCallRemains(parts[i+1:]) {
			continue
		}
		return part.Text, true
	}
	return "", false
}

func functionCallRemains(parts []genai.Part) bool {
	for _, p := range parts {
		if p.IsFunctionCall() {
			return true
		}
	}
	return false
}

// handleFunctionCall appends the model's turn, executes the requested tool,
// and folds the outcome back into the conversation. Unknown tools and
// execution failures become function-response errors the model can react to.
func (r *Runner) handleFunctionCall(ctx context.Context, payload *genai.GenerateRequest, part genai.Part, scope string, log zerolog.Logger) {
	payload.Contents = append(payload.Contents, genai.ModelPart(part))
	fc := part.FunctionCall

	if !r.registry.Has(fc.Name) {
		msg := fmt.Sprintf("Model attempted to call unknown function %q.", fc.Name)
		telemetry.Note(scope, msg)
		log.Warn().Str("tool", fc.Name).Msg("unknown function requested")
		payload.Contents = append(payload.Contents, genai.UserFunctionError(fc.Name, msg))
		return
	}

	log.Debug().Str("tool", fc.Name).Interface("args", fc.Args).Msg("calling function")
	result, varName, err := r.exec.Execute(ctx, fc.Name, fc.Args, scope)
	if err != nil {
		telemetry.Note(scope, err.Error())
		log.Warn().Err(err).Str("tool", fc.Name).Msg("function execution failed")
		payload.Contents = append(payload.Contents, genai.UserFunctionError(fc.Name, err.Error()))
		return
	}

	def, _ := r.registry.Get(fc.Name)
	payload.Contents = append(payload.Contents,
		genai.UserText(fmt.Sprintf("the return value of the function stored in the variable %s", varName)),
		genai.UserFunctionResult(fc.Name, result, varName, string(def.ResultKind)),
	)
	log.Debug().Str("tool", fc.Name).Str("variable", varName).Msg("function result stored")
}
