package safety

import (
	"path/filepath"
	"strings"
)

// ValidateWritePath resolves relPath against the write root and returns an
// absolute path inside the sandbox. Beyond the read-side boundary rules it
// denies writes under .git/ and .agent/ and to module metadata files
// (go.mod, go.sum) anywhere in the tree.
func ValidateWritePath(absRoot, relPath string) (string, error) {
	candidate, rel, err := resolveInRoot(absRoot, relPath)
	if err != nil {
		return "", err
	}

	relClean := filepath.ToSlash(rel)
	if relClean == ".git" || strings.HasPrefix(relClean, ".git/") || relClean == ".agent" || strings.HasPrefix(relClean, ".agent/") {
		return "", PolicyError{Code: "ERR_DENIED_WRITE", Message: "writes under .git/ or .agent/ are not allowed"}
	}

	base := filepath.Base(relClean)
	if base == "go.mod" || base == "go.sum" {
		return "", PolicyError{Code: "ERR_DENIED_WRITE", Message: "writes to go.mod/go.sum are not allowed"}
	}

	return candidate, nil
}
