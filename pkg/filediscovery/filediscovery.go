// Package filediscovery finds item files under a directory tree.
package filediscovery

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/alantheprice/choices/pkg/itemfile"
	"github.com/alantheprice/choices/pkg/utils"
)

// DefaultExcludeDirs are never descended into.
var DefaultExcludeDirs = []string{".git", "node_modules", "vendor"}

// DiscoveryOptions controls a walk.
type DiscoveryOptions struct {
	RootPath    string
	ExcludeDirs []string
	// IgnorePatterns are applied on top of the ignore files.
	IgnorePatterns []string
	IncludeHidden  bool
	MaxFiles       int
}

// FileResult represents the result of a file discovery operation
type FileResult struct {
	Files        []string
	Duration     time.Duration
	TotalFiles   int
	MatchedFiles int
}

// FileDiscovery walks a tree looking for JSON and YAML item files.
type FileDiscovery struct {
	logger *utils.Logger
}

// NewFileDiscovery creates a new file discovery instance
func NewFileDiscovery(logger *utils.Logger) *FileDiscovery {
	return &FileDiscovery{logger: logger}
}

// Discover returns the item files below options.RootPath in lexical order.
// Paths matched by .gitignore or .choices/.ignore are skipped.
func (fd *FileDiscovery) Discover(options *DiscoveryOptions) (*FileResult, error) {
	startTime := time.Now()
	if options == nil {
		options = &DiscoveryOptions{}
	}
	root := options.RootPath
	if root == "" {
		root = "."
	}
	excludes := options.ExcludeDirs
	if excludes == nil {
		excludes = DefaultExcludeDirs
	}
	rules, err := LoadIgnoreRules(root, options.IgnorePatterns...)
	if err != nil {
		return nil, utils.NewFileSystemError("read ignore rules", root, err)
	}

	var files []string
	total := 0
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip unreadable entries
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)
		name := d.Name()

		if d.IsDir() {
			for _, exclude := range excludes {
				if name == exclude {
					return filepath.SkipDir
				}
			}
			if !options.IncludeHidden && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if rules.Ignored(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}

		total++
		if !options.IncludeHidden && strings.HasPrefix(name, ".") {
			return nil
		}
		if _, err := itemfile.FormatOf(path); err != nil {
			return nil
		}
		if rules.Ignored(rel, false) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, utils.NewFileSystemError("walk", root, fmt.Errorf("failed to walk directory: %w", err))
	}

	sort.Strings(files)
	if options.MaxFiles > 0 && len(files) > options.MaxFiles {
		files = files[:options.MaxFiles]
	}

	result := &FileResult{
		Files:        files,
		Duration:     time.Since(startTime),
		TotalFiles:   total,
		MatchedFiles: len(files),
	}
	if fd.logger != nil {
		fd.logger.Debugf("Discovered %d item files out of %d in %v", result.MatchedFiles, total, result.Duration)
	}
	return result, nil
}
