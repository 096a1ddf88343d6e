package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/grimoire/pkg/errors"
)

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExtractFrontMatter(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "reviewer.md"), `---
name: code-reviewer
description: Reviews pull requests
model: opus
tools:
  - read
  - grep
color: blue
---

# Code Reviewer

Instructions follow.
`)

	meta, err := NewFrontMatter().Extract(path)
	require.NoError(t, err)
	assert.Equal(t, "code-reviewer", meta.Name)
	assert.Equal(t, "Reviews pull requests", meta.Description)
	assert.Equal(t, "opus", meta.Model)
	assert.Equal(t, []string{"read", "grep"}, meta.Tools)
	assert.Equal(t, "blue", meta.Color)
}

func TestExtractCommandFields(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "deploy.md"), `---
name: deploy
description: Deploy the current branch
aliases:
  - ship
requires_tools:
  - git
tags:
  - ci
  - release
---
body
`)

	meta, err := NewFrontMatter().Extract(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"ship"}, meta.Aliases)
	assert.Equal(t, []string{"git"}, meta.RequiresTools)
	assert.Equal(t, []string{"ci", "release"}, meta.Tags)
}

func TestExtractMissingFrontMatter(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "plain.md"), "# Just markdown\n")

	_, err := NewFrontMatter().Extract(path)
	require.Error(t, err)
	assert.True(t, errors.IsParseError(err), "expected parse error, got %v", err)
}

func TestExtractUnterminatedFrontMatter(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "broken.md"), "---\nname: broken\n")

	_, err := NewFrontMatter().Extract(path)
	require.Error(t, err)
	assert.True(t, errors.IsParseError(err))
}

func TestExtractMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "bad.md"), "---\nname: [unclosed\n---\nbody\n")

	_, err := NewFrontMatter().Extract(path)
	require.Error(t, err)
	assert.True(t, errors.IsParseError(err))
}

func TestExtractNameFallback(t *testing.T) {
	dir := t.TempDir()

	t.Run("filename stem", func(t *testing.T) {
		path := writeFile(t, filepath.Join(dir, "triage.md"), "---\ndescription: No name given\n---\nbody\n")
		meta, err := NewFrontMatter().Extract(path)
		require.NoError(t, err)
		assert.Equal(t, "triage", meta.Name)
	})

	t.Run("skill directory name", func(t *testing.T) {
		path := writeFile(t, filepath.Join(dir, "pdf-tools", "SKILL.md"), "---\ndescription: Works with PDFs\n---\nbody\n")
		meta, err := NewFrontMatter().Extract(path)
		require.NoError(t, err)
		assert.Equal(t, "pdf-tools", meta.Name)
	})
}

func TestExtractMissingFile(t *testing.T) {
	_, err := NewFrontMatter().Extract(filepath.Join(t.TempDir(), "absent.md"))
	require.Error(t, err)
	assert.True(t, errors.IsIOError(err))
}
