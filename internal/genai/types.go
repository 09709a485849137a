// Package genai defines the Gemini generateContent wire types shared by the
// transport and the conversation runner.
package genai

import "encoding/json"

// Roles used in conversation contents. The Gemini API only knows these two;
// function responses travel back under the user role.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Content is one role-attributed turn holding ordered parts.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Part is the smallest request/response unit: plain text, a function call
// requested by the model, or a function result sent back to it. Exactly one
// field is set.
type Part struct {
	Text             string            `json:"text,omitempty"`
	FunctionCall     *FunctionCall     `json:"functionCall,omitempty"`
	FunctionResponse *FunctionResponse `json:"functionResponse,omitempty"`
}

// IsFunctionCall reports whether the part carries a function-call request.
func (p Part) IsFunctionCall() bool { return p.FunctionCall != nil }

// FunctionCall is the model asking for a tool invocation.
type FunctionCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// FunctionResponse carries a tool result (or tool error) back to the model.
// Response is either {content, key, content_type} or {error}.
type FunctionResponse struct {
	Name     string         `json:"name"`
	Response map[string]any `json:"response"`
}

// FunctionDeclaration describes one callable tool to the model.
type FunctionDeclaration struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

// Tool wraps function declarations for the request payload.
type Tool struct {
	FunctionDeclarations []FunctionDeclaration `json:"functionDeclarations"`
}

// FunctionCallingConfig selects the calling mode; only AUTO is used here.
type FunctionCallingConfig struct {
	Mode string `json:"mode"`
}

// ToolConfig holds the function calling configuration.
type ToolConfig struct {
	FunctionCallingConfig FunctionCallingConfig `json:"functionCallingConfig"`
}

// ModeAuto lets the model decide when to call functions.
const ModeAuto = "AUTO"

// GenerationConfig constrains response generation. Only the structured
// output directive is used.
type GenerationConfig struct {
	ResponseMIMEType string `json:"response_mime_type,omitempty"`
}

// MIMEJSON asks the endpoint to emit valid JSON text.
const MIMEJSON = "application/json"

// GenerateRequest is the full generateContent request payload.
type GenerateRequest struct {
	SystemInstruction *Content          `json:"system_instruction,omitempty"`
	Contents          []Content         `json:"contents"`
	Tools             []Tool            `json:"tools,omitempty"`
	ToolConfig        *ToolConfig       `json:"toolConfig,omitempty"`
	GenerationConfig  *GenerationConfig `json:"generationConfig,omitempty"`
}

// GenerateResponse is the generateContent response payload. An absent or
// empty Candidates slice signals a block; PromptFeedback names the cause.
type GenerateResponse struct {
	Candidates     []Candidate     `json:"candidates,omitempty"`
	PromptFeedback *PromptFeedback `json:"promptFeedback,omitempty"`

	// Raw preserves the undecoded body for diagnostics on structural errors.
	Raw json.RawMessage `json:"-"`
}

// Candidate is one answer the model produced.
type Candidate struct {
	Content      *Content `json:"content,omitempty"`
	FinishReason string   `json:"finishReason,omitempty"`
}

// PromptFeedback explains why the endpoint refused to answer.
type PromptFeedback struct {
	BlockReason   string          `json:"blockReason,omitempty"`
	SafetyRatings json.RawMessage `json:"safetyRatings,omitempty"`
}

// UserText builds a user turn holding a single text part.
func UserText(text string) Content {
	return Content{Role: RoleUser, Parts: []Part{{Text: text}}}
}

// ModelPart builds a model turn holding the given part.
func ModelPart(p Part) Content {
	return Content{Role: RoleModel, Parts: []Part{p}}
}

// ModelText builds a model turn holding a single text part.
func ModelText(text string) Content {
	return Content{Role: RoleModel, Parts: []Part{{Text: text}}}
}

// UserFunctionResult builds the user turn carrying a successful tool result.
// key is the variable name the result was stored under; kind tags the value.
func UserFunctionResult(name string, content any, key, kind string) Content {
	return Content{Role: RoleUser, Parts: []Part{{
		FunctionResponse: &FunctionResponse{
			Name: name,
			Response: map[string]any{
				"content":      content,
				"key":          key,
				"content_type": kind,
			},
		},
	}}}
}

// UserFunctionError builds the user turn reporting a tool failure so the
// model can recover.
func UserFunctionError(name, message string) Content {
	return Content{Role: RoleUser, Parts: []Part{{
		FunctionResponse: &FunctionResponse{
			Name:     name,
			Response: map[string]any{"error": message},
		},
	}}}
}
