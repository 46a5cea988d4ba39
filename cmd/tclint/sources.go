// Copyright © 2026 The tclint authors

package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// resolveSources expands CLI path arguments to the list of files to
// analyze. Files pass through verbatim; directories are searched
// recursively for files whose extension appears in extensions. Paths
// matching an exclude pattern (gitignore format, relative to the
// working directory) are skipped. "-" denotes stdin and resolves to the
// empty string.
func resolveSources(paths, excludePatterns, extensions []string) ([]string, error) {
	exts := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[strings.ToLower(ext)] = true
	}

	excludeRoot, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	exclude := gitignore.CompileIgnoreLines(excludePatterns...)

	isExcluded := func(path string) bool {
		abs, err := filepath.Abs(path)
		if err != nil {
			return false
		}
		rel, err := filepath.Rel(excludeRoot, abs)
		if err != nil {
			rel = abs
		}
		return exclude.MatchesPath(rel)
	}

	var sources []string
	for _, path := range paths {
		if path == "-" {
			sources = append(sources, "")
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("invalid path provided: %s", path)
		}

		if isExcluded(path) {
			continue
		}

		if !info.IsDir() {
			sources = append(sources, path)
			continue
		}

		err = filepath.WalkDir(path, func(child string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if !exts[strings.ToLower(filepath.Ext(child))] {
				return nil
			}
			if isExcluded(child) {
				return nil
			}
			sources = append(sources, child)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return sources, nil
}

// readSource reads a resolved source: the empty string means stdin.
func readSource(path string) ([]byte, string, error) {
	if path == "" {
		data, err := os.ReadFile("/dev/stdin")
		return data, "(stdin)", err
	}
	data, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files
	return data, path, err
}
