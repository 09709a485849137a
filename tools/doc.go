// Package tools defines tool contracts and implementations.
//
// Includes:
//   - ToolDefinition: name, description, parameter schema, declared result
//     kind, handler.
//   - GenerateSchema[T](): derive a Gemini parameter schema from Go structs.
//   - Registry: explicit registration; declarations built once and shared
//     read-only.
//   - File tools: read_file, list_files (non-recursive), edit_file.
package tools
