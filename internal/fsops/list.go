package fsops

import (
	"os"

	"github.com/calyptra/vertex-agent/internal/safety"
)

// ListFiles lists non-recursive directory entries for a relative directory path under the sandbox.
// It returns entry names with directories suffixed by "/".
func ListFiles(relDir string) ([]string, error) {
	readRoot, _, err := getRoots()
	if err != nil {
		return nil, err
	}

	if relDir == "" {
		relDir = "."
	}
	absDir, err := safety.ValidateRelPath(readRoot, relDir)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(absDir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			name += "/"
		}
		names = append(names, name)
	}
	return names, nil
}
