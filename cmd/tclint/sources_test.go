// Copyright © 2026 The tclint authors

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return dir
}

func TestResolveSourcesWalksExtensions(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"a.tcl":          "",
		"b.sdc":          "",
		"c.txt":          "",
		"sub/d.xdc":      "",
		"sub/deep/e.upf": "",
	})

	sources, err := resolveSources([]string{dir}, nil, []string{"tcl", "sdc", "xdc", "upf"})
	require.NoError(t, err)
	assert.Len(t, sources, 4)
	for _, s := range sources {
		assert.NotEqual(t, ".txt", filepath.Ext(s))
	}
}

func TestResolveSourcesFilesVerbatim(t *testing.T) {
	dir := writeTree(t, map[string]string{"weird.ext": ""})
	path := filepath.Join(dir, "weird.ext")

	// Explicit files pass through even with unmatched extensions.
	sources, err := resolveSources([]string{path}, nil, []string{"tcl"})
	require.NoError(t, err)
	assert.Equal(t, []string{path}, sources)
}

func TestResolveSourcesStdin(t *testing.T) {
	sources, err := resolveSources([]string{"-"}, nil, []string{"tcl"})
	require.NoError(t, err)
	assert.Equal(t, []string{""}, sources)
}

func TestResolveSourcesMissingPath(t *testing.T) {
	_, err := resolveSources([]string{"/no/such/path.tcl"}, nil, []string{"tcl"})
	assert.Error(t, err)
}

func TestResolveSourcesExclude(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"keep.tcl":       "",
		"build/skip.tcl": "",
	})
	wd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(wd) })
	require.NoError(t, os.Chdir(dir))

	sources, err := resolveSources([]string{"."}, []string{"build/"}, []string{"tcl"})
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Contains(t, sources[0], "keep.tcl")
}

func TestColorModeFlag(t *testing.T) {
	colorFlag = "never"
	assert.Equal(t, 2, int(colorMode()))
	colorFlag = "always"
	assert.Equal(t, 1, int(colorMode()))
	colorFlag = "auto"
	assert.Equal(t, 0, int(colorMode()))
}
