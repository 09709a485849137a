// Package executor dispatches tool invocations, resolving variable
// indirections in arguments and storing results as named variables.
package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/calyptra/vertex-agent/internal/telemetry"
	"github.com/calyptra/vertex-agent/internal/vars"
	"github.com/calyptra/vertex-agent/tools"
)

// ToolExecutionError reports a failed tool invocation. It is recoverable:
// the runner folds it back into the conversation.
type ToolExecutionError struct {
	Tool string
	Err  error
}

func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("error during execution of tool %q: %v", e.Tool, e.Err)
}

func (e *ToolExecutionError) Unwrap() error { return e.Err }

// Executor invokes registered tools one at a time. Its naming scope (the
// variable names assigned during the current run) is transient state owned
// by the runner, which resets it at the start of every run.
type Executor struct {
	store    *vars.Store
	registry *tools.Registry
	assigned map[string]struct{}
}

// New returns an executor backed by the given store and registry.
func New(store *vars.Store, registry *tools.Registry) *Executor {
	return &Executor{
		store:    store,
		registry: registry,
		assigned: make(map[string]struct{}),
	}
}

// Reset clears the per-run naming scope. Stale result names from a previous
// run must never leak into a new one.
func (e *Executor) Reset() {
	e.assigned = make(map[string]struct{})
}

// Execute resolves variable indirections in rawArgs, invokes the tool, and
// stores the result in the variable store. It returns the result value and
// the name it was stored under.
func (e *Executor) Execute(ctx context.Context, name string, rawArgs map[string]any, scope string) (any, string, error) {
	def, ok := e.registry.Get(name)
	if !ok {
		return nil, "", &ToolExecutionError{Tool: name, Err: errors.New("tool is not registered")}
	}

	resolved, err := ResolveArgs(rawArgs, e.store)
	if err != nil {
		return nil, "", &ToolExecutionError{Tool: name, Err: err}
	}

	start := time.Now()
	result, err := def.Handler(ctx, resolved)
	if err != nil {
		e.emit(ctx, scope, name, time.Since(start), err)
		return nil, "", &ToolExecutionError{Tool: name, Err: err}
	}
	e.emit(ctx, scope, name, time.Since(start), nil)

	varName := e.assignName(name)
	e.store.Set(varName, result, fmt.Sprintf("result of tool %s", name), string(def.ResultKind))
	e.assigned[varName] = struct{}{}
	return result, varName, nil
}

// assignName picks a fresh variable name for a tool result. The base is
// <tool>_result; collisions with existing bindings or names assigned earlier
// in this run get a numeric suffix.
func (e *Executor) assignName(tool string) string {
	base := tool + "_result"
	candidate := base
	for n := 2; e.taken(candidate); n++ {
		candidate = fmt.Sprintf("%s_%d", base, n)
	}
	return candidate
}

func (e *Executor) taken(name string) bool {
	if _, ok := e.assigned[name]; ok {
		return true
	}
	return e.store.Has(name)
}

func (e *Executor) emit(ctx context.Context, scope, tool string, d time.Duration, err error) {
	runID, _ := telemetry.RunIDFromContext(ctx)
	fields := map[string]any{
		"tool_name":   tool,
		"duration_ms": d.Milliseconds(),
		"run_id":      runID,
	}
	if scope != "" {
		fields["scope"] = scope
	}
	if err != nil {
		// Emit a generic error marker to avoid leaking raw payloads.
		fields["error"] = "tool error"
	} else {
		fields["error"] = nil
	}
	telemetry.Emit("tool_exec", fields)
}

// ResolveArgs substitutes stored values for every argument value shaped as
// the single-key indirection marker {"variable": "<name>"}. Resolution
// recurses through nested objects and lists and happens exactly once,
// immediately before invocation.
func ResolveArgs(args map[string]any, store *vars.Store) (map[string]any, error) {
	if args == nil {
		return map[string]any{}, nil
	}
	out := make(map[string]any, len(args))
	for k, v := range args {
		rv, err := resolveValue(v, store)
		if err != nil {
			return nil, err
		}
		out[k] = rv
	}
	return out, nil
}

func resolveValue(v any, store *vars.Store) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		if name, ok := indirectionTarget(t); ok {
			val, err := store.Get(name)
			if err != nil {
				return nil, err
			}
			return val, nil
		}
		out := make(map[string]any, len(t))
		for k, nested := range t {
			rv, err := resolveValue(nested, store)
			if err != nil {
				return nil, err
			}
			out[k] = rv
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, nested := range t {
			rv, err := resolveValue(nested, store)
			if err != nil {
				return nil, err
			}
			out[i] = rv
		}
		return out, nil
	default:
		return v, nil
	}
}

// indirectionTarget reports whether m is exactly {"variable": "<name>"}.
func indirectionTarget(m map[string]any) (string, bool) {
	if len(m) != 1 {
		return "", false
	}
	name, ok := m["variable"].(string)
	if !ok || name == "" {
		return "", false
	}
	return name, true
}
