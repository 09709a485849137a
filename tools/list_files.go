package tools

import (
	"context"
	"sort"

	"github.com/calyptra/vertex-agent/internal/fsops"
)

type ListFilesInput struct {
	Path     string `json:"path,omitempty" jsonschema_description:"Optional relative path to list files from (defaults to current directory)."`
	Page     int    `json:"page,omitempty" jsonschema_description:"1-based page number (default 1)."`
	PageSize int    `json:"page_size,omitempty" jsonschema_description:"Page size (default 200)."`
}

// defaultListFilesPageSize is the fallback page size when page_size <= 0.
const defaultListFilesPageSize = 200

var ListFilesDefinition = ToolDefinition{
	Name:        "list_files",
	Description: "List names of files in a directory within the workspace (non-recursive).",
	InputSchema: ListFilesInputSchema,
	ResultKind:  KindList,
	Handler:     ListFiles,
}

var ListFilesInputSchema = GenerateSchema[ListFilesInput]()

// ListFiles lists non-recursive directory entries under the sandbox via fsops,
// then applies deterministic sorting and simple paging at the tool layer.
// Defaults:
//   - page: 1 when <= 0
//   - page_size: 200 when <= 0
//
// Contract: returns a list of names, with directories suffixed by "/".
func ListFiles(ctx context.Context, args map[string]any) (any, error) {
	var in ListFilesInput
	if err := DecodeArgs(args, &in); err != nil {
		return nil, err
	}
	page := in.Page
	// Default benign inputs for model callers to keep behaviour predictable.
	if page <= 0 {
		page = 1
	}
	pageSize := in.PageSize
	if pageSize <= 0 {
		pageSize = defaultListFilesPageSize
	}

	names, err := fsops.ListFiles(in.Path)
	if err != nil {
		return nil, err
	}
	// Standardise order so paging is deterministic across filesystems.
	sort.Strings(names)

	start := (page - 1) * pageSize
	// Out-of-range page returns an empty list; keep the output contract.
	if start >= len(names) {
		return []string{}, nil
	}
	end := start + pageSize
	if end > len(names) {
		end = len(names)
	}
	return names[start:end], nil
}
