package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/grimoire/pkg/catalogs"
	"github.com/agentstation/grimoire/pkg/errors"
	"github.com/agentstation/grimoire/pkg/logging"
)

func writeAgent(t *testing.T, dir, name, body string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, name+".md")
	content := "---\nname: " + name + "\ndescription: " + body + "\n---\n# " + name + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writeSkill(t *testing.T, root, name string, withScripts bool) string {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	content := "---\nname: " + name + "\ndescription: a skill\n---\nbody\n"
	path := filepath.Join(dir, "SKILL.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "REFERENCE.md"), []byte("notes\n"), 0o644))
	if withScripts {
		scripts := filepath.Join(dir, "scripts")
		require.NoError(t, os.MkdirAll(scripts, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(scripts, "run.sh"), []byte("#!/bin/sh\n"), 0o755))
	}
	return path
}

func newTestScanner(opts ...Option) *Scanner {
	opts = append([]Option{WithLogger(logging.Nop)}, opts...)
	return New(opts...)
}

func TestScanAgents(t *testing.T) {
	root := t.TempDir()
	writeAgent(t, root, "reviewer", "Reviews code")
	writeAgent(t, root, "planner", "Plans work")

	// Files in subdirectories and non-markdown files are ignored.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "nested", "deep.md"), []byte("---\nname: deep\n---\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("not markdown"), 0o644))

	entries, skipped, err := newTestScanner().Scan(context.Background(), catalogs.KindAgent,
		[]Root{{Scope: catalogs.ScopeProject, Dir: root}})
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, entries, 2)

	// Sorted by path.
	assert.Equal(t, "planner", entries[0].Name)
	assert.Equal(t, "reviewer", entries[1].Name)

	for _, entry := range entries {
		assert.Equal(t, catalogs.KindAgent, entry.Kind)
		assert.Equal(t, catalogs.ScopeProject, entry.Scope)
		assert.NotNil(t, entry.Agent)
		assert.Positive(t, entry.FileSize)
		assert.False(t, entry.FileModTime.IsZero())
		assert.Empty(t, entry.ID, "scanner must not assign ids")
	}
}

func TestScanSkills(t *testing.T) {
	root := t.TempDir()
	writeSkill(t, root, "pdf-tools", true)
	writeSkill(t, root, "web-scrape", false)

	// A directory without SKILL.md is not a skill.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "not-a-skill"), 0o755))

	entries, skipped, err := newTestScanner().Scan(context.Background(), catalogs.KindSkill,
		[]Root{{Scope: catalogs.ScopeGlobal, Dir: root}})
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, entries, 2)

	byName := map[string]*catalogs.Entry{}
	for _, e := range entries {
		byName[e.Name] = e
	}

	pdf := byName["pdf-tools"]
	require.NotNil(t, pdf)
	require.NotNil(t, pdf.Skill)
	assert.True(t, pdf.Skill.HasScripts)
	assert.Equal(t, 3, pdf.Skill.FileCount)

	web := byName["web-scrape"]
	require.NotNil(t, web)
	require.NotNil(t, web.Skill)
	assert.False(t, web.Skill.HasScripts)
	assert.Equal(t, 2, web.Skill.FileCount)
}

func TestScanSkipsInvalidFiles(t *testing.T) {
	root := t.TempDir()
	writeAgent(t, root, "good", "A valid agent")
	badPath := filepath.Join(root, "bad.md")
	require.NoError(t, os.WriteFile(badPath, []byte("no front matter here\n"), 0o644))

	entries, skipped, err := newTestScanner().Scan(context.Background(), catalogs.KindAgent,
		[]Root{{Scope: catalogs.ScopeProject, Dir: root}})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "good", entries[0].Name)

	require.Len(t, skipped, 1)
	assert.Contains(t, skipped[0].Path, "bad.md")
	assert.NotEmpty(t, skipped[0].Reason)
}

func TestScanStrictMode(t *testing.T) {
	root := t.TempDir()
	writeAgent(t, root, "good", "A valid agent")
	require.NoError(t, os.WriteFile(filepath.Join(root, "bad.md"), []byte("no front matter\n"), 0o644))

	_, _, err := newTestScanner(WithStrict(true)).Scan(context.Background(), catalogs.KindAgent,
		[]Root{{Scope: catalogs.ScopeProject, Dir: root}})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrStrictScan)
}

func TestScanMissingRoot(t *testing.T) {
	entries, skipped, err := newTestScanner().Scan(context.Background(), catalogs.KindAgent,
		[]Root{{Scope: catalogs.ScopeGlobal, Dir: filepath.Join(t.TempDir(), "absent")}})
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Empty(t, skipped)
}

func TestScanDeduplicatesSymlinkedFiles(t *testing.T) {
	rootA := t.TempDir()
	rootB := t.TempDir()
	original := writeAgent(t, rootA, "shared", "Lives in root A")
	link := filepath.Join(rootB, "shared.md")
	if err := os.Symlink(original, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	entries, skipped, err := newTestScanner().Scan(context.Background(), catalogs.KindAgent, []Root{
		{Scope: catalogs.ScopeGlobal, Dir: rootA},
		{Scope: catalogs.ScopeProject, Dir: rootB},
	})
	require.NoError(t, err)
	require.Len(t, entries, 1, "same resolved file must appear once")
	assert.Equal(t, catalogs.ScopeGlobal, entries[0].Scope, "first occurrence wins")

	// The dropped duplicate is accounted for, not silently discarded.
	require.Len(t, skipped, 1)
	assert.Equal(t, link, skipped[0].Path)
	assert.Contains(t, skipped[0].Reason, "duplicate of ")
}

func TestScanSkipsDuplicateNames(t *testing.T) {
	root := t.TempDir()
	first := filepath.Join(root, "aaa.md")
	second := filepath.Join(root, "bbb.md")
	content := "---\nname: helper\ndescription: declared twice\n---\nbody\n"
	require.NoError(t, os.MkdirAll(root, 0o755))
	require.NoError(t, os.WriteFile(first, []byte(content), 0o644))
	require.NoError(t, os.WriteFile(second, []byte(content), 0o644))

	entries, skipped, err := newTestScanner().Scan(context.Background(), catalogs.KindAgent,
		[]Root{{Scope: catalogs.ScopeProject, Dir: root}})
	require.NoError(t, err)

	// First declaring file by path wins; the other is reported.
	require.Len(t, entries, 1)
	assert.Equal(t, first, entries[0].Path)
	require.Len(t, skipped, 1)
	assert.Equal(t, second, skipped[0].Path)
	assert.Contains(t, skipped[0].Reason, "already declared in this scope")
}

func TestScanAllowsSameNameAcrossScopes(t *testing.T) {
	rootA := t.TempDir()
	rootB := t.TempDir()
	writeAgent(t, rootA, "reviewer", "Global reviewer")
	writeAgent(t, rootB, "reviewer", "Project reviewer")

	entries, skipped, err := newTestScanner().Scan(context.Background(), catalogs.KindAgent, []Root{
		{Scope: catalogs.ScopeGlobal, Dir: rootA},
		{Scope: catalogs.ScopeProject, Dir: rootB},
	})
	require.NoError(t, err)
	assert.Empty(t, skipped)
	assert.Len(t, entries, 2, "names are only unique within one scope")
}

func TestScanContinuesPastUnreadableRoot(t *testing.T) {
	goodRoot := t.TempDir()
	writeAgent(t, goodRoot, "reviewer", "Reviews code")

	// A root that is a regular file cannot be walked.
	badRoot := filepath.Join(t.TempDir(), "agents")
	require.NoError(t, os.WriteFile(badRoot, []byte("not a directory"), 0o644))

	entries, skipped, err := newTestScanner().Scan(context.Background(), catalogs.KindAgent, []Root{
		{Scope: catalogs.ScopeGlobal, Dir: badRoot},
		{Scope: catalogs.ScopeProject, Dir: goodRoot},
	})
	require.NoError(t, err)

	require.Len(t, entries, 1, "healthy roots are still scanned")
	assert.Equal(t, "reviewer", entries[0].Name)
	require.Len(t, skipped, 1)
	assert.Equal(t, badRoot, skipped[0].Path)
	assert.Contains(t, skipped[0].Reason, "not a directory")
}

func TestScanStrictFailsOnUnreadableRoot(t *testing.T) {
	badRoot := filepath.Join(t.TempDir(), "agents")
	require.NoError(t, os.WriteFile(badRoot, []byte("not a directory"), 0o644))

	_, _, err := newTestScanner(WithStrict(true)).Scan(context.Background(), catalogs.KindAgent,
		[]Root{{Scope: catalogs.ScopeGlobal, Dir: badRoot}})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrStrictScan)
}

func TestScanInvalidKind(t *testing.T) {
	_, _, err := newTestScanner().Scan(context.Background(), catalogs.Kind("widget"), nil)
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestScanCancelledContext(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a", "b", "c", "d"} {
		writeAgent(t, root, name, "agent "+name)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := newTestScanner().Scan(ctx, catalogs.KindAgent,
		[]Root{{Scope: catalogs.ScopeProject, Dir: root}})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
