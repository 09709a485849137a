package tools

import (
	"fmt"

	"github.com/calyptra/vertex-agent/internal/genai"
)

// Registry holds tool definitions in registration order. Declarations are
// built once at registration time and shared read-only afterwards.
type Registry struct {
	order []string
	defs  map[string]ToolDefinition
}

// NewRegistry returns a registry preloaded with the given definitions.
func NewRegistry(defs ...ToolDefinition) (*Registry, error) {
	r := &Registry{defs: make(map[string]ToolDefinition)}
	for _, d := range defs {
		if err := r.Register(d); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a definition. Names must be unique and handlers non-nil.
func (r *Registry) Register(d ToolDefinition) error {
	if d.Name == "" {
		return fmt.Errorf("tools: definition has no name")
	}
	if d.Handler == nil {
		return fmt.Errorf("tools: %s has no handler", d.Name)
	}
	if _, exists := r.defs[d.Name]; exists {
		return fmt.Errorf("tools: %s registered twice", d.Name)
	}
	if d.ResultKind == "" {
		d.ResultKind = KindText
	}
	r.defs[d.Name] = d
	r.order = append(r.order, d.Name)
	return nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.defs[name]
	return ok
}

// Get returns the definition for name.
func (r *Registry) Get(name string) (ToolDefinition, bool) {
	d, ok := r.defs[name]
	return d, ok
}

// Len returns the number of registered tools.
func (r *Registry) Len() int { return len(r.order) }

// Names returns tool names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Definitions returns the definitions in registration order.
func (r *Registry) Definitions() []ToolDefinition {
	out := make([]ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.defs[name])
	}
	return out
}

// Declarations returns the Gemini function declarations in registration order.
func (r *Registry) Declarations() []genai.FunctionDeclaration {
	out := make([]genai.FunctionDeclaration, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.defs[name].Declaration())
	}
	return out
}

// Workspace returns the built-in file tools wired for the agent.
func Workspace() []ToolDefinition {
	return []ToolDefinition{ReadFileDefinition, ListFilesDefinition, EditFileDefinition}
}
