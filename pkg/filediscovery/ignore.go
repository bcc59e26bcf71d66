package filediscovery

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// IgnoreFiles are read, relative to the discovery root, in this order.
var IgnoreFiles = []string{".gitignore", filepath.Join(".choices", ".ignore")}

// IgnoreRules is the combined pattern set of every ignore file found under a
// root. A nil *IgnoreRules ignores nothing.
type IgnoreRules struct {
	matcher  *ignore.GitIgnore
	patterns []string
}

// LoadIgnoreRules reads IgnoreFiles under rootDir and appends extra patterns.
// It returns nil when no pattern was found.
func LoadIgnoreRules(rootDir string, extra ...string) (*IgnoreRules, error) {
	var patterns []string
	for _, name := range IgnoreFiles {
		lines, err := readPatterns(filepath.Join(rootDir, name))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, lines...)
	}
	for _, p := range extra {
		if p = strings.TrimSpace(p); p != "" {
			patterns = append(patterns, p)
		}
	}
	if len(patterns) == 0 {
		return nil, nil
	}
	return &IgnoreRules{matcher: ignore.CompileIgnoreLines(patterns...), patterns: patterns}, nil
}

// Patterns returns the compiled patterns in file order.
func (r *IgnoreRules) Patterns() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.patterns...)
}

// Ignored reports whether rel, a slash-separated path relative to the root,
// is excluded. Directories are matched with a trailing slash so that
// "build/" style patterns apply.
func (r *IgnoreRules) Ignored(rel string, isDir bool) bool {
	if r == nil {
		return false
	}
	if isDir && !strings.HasSuffix(rel, "/") {
		rel += "/"
	}
	return r.matcher.MatchesPath(rel)
}

// readPatterns returns the non-blank, non-comment lines of an ignore file.
func readPatterns(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}
