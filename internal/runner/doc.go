// Package runner coordinates the multi-turn exchange with the Gemini
// generateContent endpoint and dispatches function calls.
//
// Invariants:
//   - a model turn carrying a functionCall is always followed by one or more
//     user turns encoding the function response, never by another model turn
//     without an intervening request.
//   - the transcript is append-only for the duration of one run and records
//     every tool call attempted, including failed and unknown ones.
//
// Flow:
//
//	user(text) -> model(functionCall) -> user(text + functionResponse) -> model(text)
package runner
