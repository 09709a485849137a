// Package memory provides conversation transcript persistence.
//
// Persistence model:
//   - Full part fidelity: text, functionCall, and functionResponse parts are
//     all stored, so a resumed conversation replays tool activity verbatim.
//   - Trailing function calls without their responses are trimmed on save; a
//     persisted transcript never ends mid-exchange.
package memory
