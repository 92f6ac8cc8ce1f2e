package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// MaxIDLength is the longest node or edge identifier accepted.
const MaxIDLength = 128

// ValidateID validates a node or edge identifier.
// IDs appear in URLs, cache keys and Graphviz output, so the rules are
// conservative:
//   - No empty IDs
//   - Maximum length of MaxIDLength characters
//   - No control characters or whitespace
//   - No path separators ('/' or '\')
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "id cannot be empty")
	}
	if len(id) > MaxIDLength {
		return New(ErrCodeInvalidInput, "id too long (max %d characters)", MaxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "id %q contains whitespace or control characters", id)
		}
	}
	if strings.ContainsAny(id, "/\\") {
		return New(ErrCodeInvalidInput, "id %q cannot contain path separators", id)
	}
	return nil
}

// graphExtensions lists the file extensions accepted as graph documents.
var graphExtensions = map[string]bool{
	".json": true,
	".toml": true,
	".hcl":  true,
}

// ValidateGraphPath checks that path names a supported graph document.
func ValidateGraphPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "graph path cannot be empty")
	}
	if strings.ContainsRune(path, '\x00') {
		return New(ErrCodeInvalidPath, "graph path contains invalid characters")
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !graphExtensions[ext] {
		return New(ErrCodeInvalidFormat, "unsupported graph file %q (must be .json, .toml or .hcl)", filepath.Base(path))
	}
	return nil
}
