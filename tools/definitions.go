package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/calyptra/vertex-agent/internal/genai"
)

// Kind is the closed tag set describing a tool's declared result value.
// The tag is part of the tool's contract; results are never introspected.
type Kind string

const (
	KindText    Kind = "text"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindObject  Kind = "object"
	KindList    Kind = "list"
	KindNull    Kind = "null"
)

// Handler executes a tool with fully resolved arguments.
type Handler func(ctx context.Context, args map[string]any) (any, error)

// ToolDefinition binds a name, description, parameter schema, declared
// result kind, and handler into one registrable tool.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema map[string]any
	ResultKind  Kind
	Handler     Handler
}

// Declaration renders the definition as a Gemini function declaration.
func (d ToolDefinition) Declaration() genai.FunctionDeclaration {
	return genai.FunctionDeclaration{
		Name:        d.Name,
		Description: d.Description,
		Parameters:  d.InputSchema,
	}
}

// GenerateSchema derives a {type, properties, required} parameter schema
// from a Go struct. Field descriptions come from jsonschema_description tags.
func GenerateSchema[T any]() map[string]any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)

	b, err := json.Marshal(schema)
	if err != nil {
		panic(fmt.Sprintf("tools: reflect schema: %v", err))
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		panic(fmt.Sprintf("tools: decode schema: %v", err))
	}
	// The endpoint rejects draft metadata keys; keep only the object shape.
	delete(m, "$schema")
	delete(m, "$id")
	return m
}

// DecodeArgs maps resolved argument values onto a typed input struct.
func DecodeArgs(args map[string]any, out any) error {
	b, err := json.Marshal(args)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}
