package runner

import (
	"encoding/json"
	"fmt"

	"github.com/calyptra/vertex-agent/internal/genai"
)

// BlockedError is a response with no candidates: the endpoint refused to
// answer. Fatal to the run.
type BlockedError struct {
	Reason   string
	Feedback *genai.PromptFeedback
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("request blocked by the endpoint, reason: %s", e.Reason)
}

// ResponseParseError is a response missing expected structural fields.
// Raw carries the undecoded body for diagnostics. Fatal to the run.
type ResponseParseError struct {
	Reason string
	Raw    json.RawMessage
}

func (e *ResponseParseError) Error() string {
	return fmt.Sprintf("error parsing endpoint response: %s", e.Reason)
}

// TurnLimitError reports that the conversation loop hit its round-trip
// ceiling without producing a final answer.
type TurnLimitError struct {
	Limit int
}

func (e *TurnLimitError) Error() string {
	return fmt.Sprintf("conversation exceeded %d round trips without a final answer", e.Limit)
}
