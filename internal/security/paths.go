// Package security guards the file names the cleaner derives from user input.
package security

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrOutsideDir is returned when a path resolves outside its output directory.
var ErrOutsideDir = errors.New("security: path escapes output directory")

// maxNameLen bounds names built from user-supplied tags.
const maxNameLen = 64

// WithinDir checks that path stays inside dir once both are cleaned and any
// existing symlinks are resolved. path itself need not exist yet.
func WithinDir(path, dir string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	rel, err := filepath.Rel(resolveExisting(absDir), resolveExisting(absPath))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s not in %s", ErrOutsideDir, path, dir)
	}
	return nil
}

// resolveExisting evaluates symlinks on the longest existing prefix of p and
// re-attaches the rest.
func resolveExisting(p string) string {
	rest := ""
	for cur := p; ; {
		if resolved, err := filepath.EvalSymlinks(cur); err == nil {
			return filepath.Join(resolved, rest)
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return p
		}
		rest = filepath.Join(filepath.Base(cur), rest)
		cur = parent
	}
}

// SanitizeFilename turns a tag such as a modality name into a file name
// component: runs of characters outside [A-Za-z0-9._-] become one underscore
// and leading or trailing dots and underscores are trimmed. An empty result
// becomes "unknown".
func SanitizeFilename(s string) string {
	var b strings.Builder
	underscore := false
	for _, r := range s {
		if b.Len() >= maxNameLen {
			break
		}
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
			underscore = false
		case !underscore:
			b.WriteByte('_')
			underscore = true
		}
	}
	if out := strings.Trim(b.String(), "._"); out != "" {
		return out
	}
	return "unknown"
}
