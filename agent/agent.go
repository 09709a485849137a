// Package agent is the public entry point: it composes the variable store,
// tool registry, executor, transport, and runner into a single surface.
package agent

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/calyptra/vertex-agent/internal/executor"
	"github.com/calyptra/vertex-agent/internal/genai"
	"github.com/calyptra/vertex-agent/internal/provider"
	"github.com/calyptra/vertex-agent/internal/runner"
	"github.com/calyptra/vertex-agent/internal/vars"
	"github.com/calyptra/vertex-agent/tools"
)

// Result is a completed prompt exchange.
type Result = runner.Result

// CallConfig overrides model and region for one prompt.
type CallConfig = provider.CallConfig

// Agent owns one conversation stack. The variable store lives as long as
// the agent and is shared across prompts; everything else is per-prompt.
type Agent struct {
	store    *vars.Store
	registry *tools.Registry
	exec     *executor.Executor
	client   *provider.Client
	runner   *runner.Runner

	log       zerolog.Logger
	transport runner.Generator
	keyPath   string
	model     string
	region    string
	maxTurns  int
	defs      []tools.ToolDefinition
}

// Option configures a new Agent.
type Option func(*Agent)

// WithKeyPath sets the service-account key file used for Vertex AI access.
func WithKeyPath(path string) Option {
	return func(a *Agent) { a.keyPath = path }
}

// WithModel sets the default model identifier.
func WithModel(model string) Option {
	return func(a *Agent) { a.model = model }
}

// WithRegion sets the default region target.
func WithRegion(region string) Option {
	return func(a *Agent) { a.region = region }
}

// WithTools registers tool definitions at construction time.
func WithTools(defs ...tools.ToolDefinition) Option {
	return func(a *Agent) { a.defs = append(a.defs, defs...) }
}

// WithStore substitutes a pre-populated variable store.
func WithStore(s *vars.Store) Option {
	return func(a *Agent) { a.store = s }
}

// WithLogger sets the agent's logger.
func WithLogger(log zerolog.Logger) Option {
	return func(a *Agent) { a.log = log }
}

// WithMaxTurns bounds the conversation loop per prompt.
func WithMaxTurns(n int) Option {
	return func(a *Agent) { a.maxTurns = n }
}

// WithTransport substitutes the model transport. When set, no Vertex client
// is constructed and the key path is not required.
func WithTransport(t runner.Generator) Option {
	return func(a *Agent) { a.transport = t }
}

// New builds an agent. A key path is required unless a custom transport is
// supplied.
func New(ctx context.Context, opts ...Option) (*Agent, error) {
	a := &Agent{
		store: vars.NewStore(),
		log:   zerolog.Nop(),
	}
	for _, o := range opts {
		o(a)
	}

	registry, err := tools.NewRegistry(a.defs...)
	if err != nil {
		return nil, err
	}
	a.registry = registry
	a.exec = executor.New(a.store, a.registry)

	if a.transport == nil {
		client, err := provider.NewClient(ctx, a.keyPath, a.model, a.region)
		if err != nil {
			return nil, errors.Wrap(err, "build vertex client")
		}
		a.client = client
		a.transport = client
	}

	ropts := []runner.Option{runner.WithLogger(a.log)}
	if a.maxTurns > 0 {
		ropts = append(ropts, runner.WithMaxTurns(a.maxTurns))
	}
	a.runner = runner.New(a.transport, a.registry, a.exec, a.store, ropts...)
	return a, nil
}

// SetProject reloads credentials from a new service-account key file.
func (a *Agent) SetProject(ctx context.Context, keyPath string) error {
	if a.client == nil {
		return errors.New("agent has no vertex client")
	}
	return a.client.SetProject(ctx, keyPath)
}

// RegisterTool adds a tool after construction.
func (a *Agent) RegisterTool(def tools.ToolDefinition) error {
	return a.registry.Register(def)
}

// Store exposes the agent's variable store.
func (a *Agent) Store() *vars.Store {
	return a.store
}

// SetVariable stores a variable and returns its name.
func (a *Agent) SetVariable(name string, value any, description, kind string) string {
	return a.store.Set(name, value, description, kind)
}

// GetVariable retrieves a stored variable's value.
func (a *Agent) GetVariable(name string) (any, error) {
	return a.store.Get(name)
}

// ListVariables returns information about all stored variables.
func (a *Agent) ListVariables() map[string]vars.Binding {
	return a.store.List()
}

// PromptOption adjusts a single prompt exchange.
type PromptOption func(*runner.Request)

// WithSystemPrompt sets the caller's system prompt for this exchange.
func WithSystemPrompt(prompt string) PromptOption {
	return func(r *runner.Request) { r.SystemPrompt = prompt }
}

// WithJSONFormat asks for structured output.
func WithJSONFormat() PromptOption {
	return func(r *runner.Request) { r.JSONFormat = true }
}

// WithHistory supplies a prior transcript as the conversation prefix.
func WithHistory(history []genai.Content) PromptOption {
	return func(r *runner.Request) { r.History = history }
}

// WithTraceScope names the trace scope snapshots are recorded under.
func WithTraceScope(scope string) PromptOption {
	return func(r *runner.Request) { r.TraceScope = scope }
}

// WithCallConfig overrides model and region for this exchange only.
func WithCallConfig(cfg *CallConfig) PromptOption {
	return func(r *runner.Request) { r.Config = cfg }
}

// Prompt runs one full exchange and returns the final answer. Fatal
// failures (transport, blocked content, malformed responses) surface as
// errors; tool-level failures are folded into the conversation and never
// terminate the exchange.
func (a *Agent) Prompt(ctx context.Context, prompt string, opts ...PromptOption) (*Result, error) {
	req := runner.Request{Prompt: prompt}
	for _, o := range opts {
		o(&req)
	}
	return a.runner.Run(ctx, req)
}

// ErrorEnvelope renders err in the {error: {message, details}} shape the
// wire contract uses for caller-facing failures.
func ErrorEnvelope(err error) map[string]any {
	inner := map[string]any{"message": err.Error()}

	var blocked *runner.BlockedError
	if errors.As(err, &blocked) && blocked.Feedback != nil {
		inner["details"] = blocked.Feedback
	}
	var parse *runner.ResponseParseError
	if errors.As(err, &parse) && len(parse.Raw) > 0 {
		inner["details"] = parse.Raw
	}
	var api *provider.APIError
	if errors.As(err, &api) && api.Details != "" {
		inner["details"] = api.Details
	}

	return map[string]any{"error": inner}
}
