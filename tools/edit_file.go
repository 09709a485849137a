package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/calyptra/vertex-agent/internal/fsops"
)

type EditFileInput struct {
	Path   string `json:"path" jsonschema_description:"Target relative file path"`
	OldStr string `json:"old_str" jsonschema_description:"Exact text to replace; must be present once when editing an existing file."`
	NewStr string `json:"new_str" jsonschema_description:"New text to write or replace old_str with"`
}

var EditFileDefinition = ToolDefinition{
	Name: "edit_file",
	Description: `Create or modify a text file addressed by a relative path within the workspace.

When old_str is empty and the file doesn't exist, a new file is created.

When editing an existing file, all occurrences of old_str are replaced with new_str; old_str and new_str must be different.
`,
	InputSchema: EditFileInputSchema,
	ResultKind:  KindText,
	Handler:     EditFile,
}

var EditFileInputSchema = GenerateSchema[EditFileInput]()

func EditFile(ctx context.Context, args map[string]any) (any, error) {
	var in EditFileInput
	if err := DecodeArgs(args, &in); err != nil {
		return nil, err
	}

	if in.Path == "" || in.OldStr == in.NewStr {
		return nil, fmt.Errorf("invalid edit parameters")
	}

	// Try to read the existing file via fsops.
	oldContent, readErr := fsops.ReadFile(in.Path)
	if readErr != nil {
		// If file does not exist and OldStr is empty, create new file with NewStr
		if in.OldStr == "" {
			if err := fsops.WriteFile(in.Path, in.NewStr); err != nil {
				return nil, err
			}
			return fmt.Sprintf("Successfully created file %s", in.Path), nil
		}
		// Otherwise propagate the read error (could be a policy error or other I/O error)
		return nil, readErr
	}

	// If the file exists, require a non-empty old_str to avoid ambiguous behaviour
	if in.OldStr == "" {
		return nil, fmt.Errorf("old_str must be provided when editing an existing file")
	}

	// Replace existing content
	newContent := strings.Replace(oldContent, in.OldStr, in.NewStr, -1)
	if newContent == oldContent && in.OldStr != "" {
		return nil, fmt.Errorf("old_str not found in file")
	}

	if err := fsops.WriteFile(in.Path, newContent); err != nil {
		return nil, err
	}
	return "OK", nil
}
