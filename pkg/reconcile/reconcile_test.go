package reconcile

import (
	"testing"
	"time"

	"github.com/agentstation/utc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/grimoire/pkg/catalogs"
)

func scanned(name, path string) *catalogs.Entry {
	return &catalogs.Entry{
		Kind:        catalogs.KindAgent,
		Name:        name,
		Description: "agent " + name,
		Scope:       catalogs.ScopeProject,
		Path:        path,
		FileSize:    100,
		FileModTime: utc.New(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)),
		Agent:       &catalogs.AgentSpec{},
	}
}

func TestReconcileAdds(t *testing.T) {
	now := utc.Now()
	existing := catalogs.NewCatalog(catalogs.KindAgent)

	next, report, err := Reconcile(catalogs.KindAgent,
		[]*catalogs.Entry{scanned("reviewer", "/p/reviewer.md")}, existing, now)
	require.NoError(t, err)

	require.Len(t, report.Added, 1)
	assert.Empty(t, report.Updated)
	assert.Empty(t, report.Removed)
	assert.Empty(t, report.Unchanged)

	added := report.Added[0]
	assert.NotEmpty(t, added.ID, "added entries get a fresh id")
	assert.True(t, added.CreatedAt.Time.Equal(now.Time))
	assert.True(t, added.UpdatedAt.Time.Equal(now.Time))
	assert.Equal(t, 1, next.Len())
}

func TestReconcileIdempotent(t *testing.T) {
	files := []*catalogs.Entry{
		scanned("reviewer", "/p/reviewer.md"),
		scanned("planner", "/p/planner.md"),
	}

	first, firstReport, err := Reconcile(catalogs.KindAgent, files, catalogs.NewCatalog(catalogs.KindAgent), utc.Now())
	require.NoError(t, err)
	require.Len(t, firstReport.Added, 2)

	later := utc.New(time.Now().Add(time.Hour))
	second, secondReport, err := Reconcile(catalogs.KindAgent, files, first, later)
	require.NoError(t, err)

	assert.False(t, secondReport.HasChanges(), "unchanged tree must be a no-op")
	require.Len(t, secondReport.Unchanged, 2)

	// Entries carried over untouched: same ids, no timestamp bump.
	for _, entry := range second.List() {
		original, ok := first.GetByKey(entry.Key())
		require.True(t, ok)
		assert.Equal(t, original.ID, entry.ID)
		assert.True(t, original.UpdatedAt.Time.Equal(entry.UpdatedAt.Time))
	}
}

func TestReconcileUpdates(t *testing.T) {
	created := utc.New(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	existing, _, err := Reconcile(catalogs.KindAgent,
		[]*catalogs.Entry{scanned("reviewer", "/p/reviewer.md")},
		catalogs.NewCatalog(catalogs.KindAgent), created)
	require.NoError(t, err)
	originalID := existing.List()[0].ID

	changed := scanned("reviewer", "/p/reviewer.md")
	changed.Description = "rewritten"
	changed.FileSize = 200

	now := utc.Now()
	next, report, err := Reconcile(catalogs.KindAgent, []*catalogs.Entry{changed}, existing, now)
	require.NoError(t, err)

	require.Len(t, report.Updated, 1)
	updated := report.Updated[0]
	assert.Equal(t, originalID, updated.ID, "updates preserve identity")
	assert.True(t, updated.CreatedAt.Time.Equal(created.Time), "updates preserve created_at")
	assert.True(t, updated.UpdatedAt.Time.Equal(now.Time), "updates bump updated_at")
	assert.Equal(t, "rewritten", updated.Description)
	assert.Equal(t, 1, next.Len())
}

func TestReconcileRemoves(t *testing.T) {
	existing, _, err := Reconcile(catalogs.KindAgent,
		[]*catalogs.Entry{
			scanned("reviewer", "/p/reviewer.md"),
			scanned("planner", "/p/planner.md"),
		},
		catalogs.NewCatalog(catalogs.KindAgent), utc.Now())
	require.NoError(t, err)

	next, report, err := Reconcile(catalogs.KindAgent,
		[]*catalogs.Entry{scanned("reviewer", "/p/reviewer.md")}, existing, utc.Now())
	require.NoError(t, err)

	require.Len(t, report.Removed, 1)
	assert.Equal(t, "planner", report.Removed[0].Name)
	assert.Equal(t, 1, next.Len())
	_, ok := next.GetByKey(catalogs.Key{Scope: catalogs.ScopeProject, Path: "/p/planner.md"})
	assert.False(t, ok)
}

func TestReconcileRejectsForeignKind(t *testing.T) {
	skill := &catalogs.Entry{
		Kind:  catalogs.KindSkill,
		Name:  "oops",
		Scope: catalogs.ScopeProject,
		Path:  "/p/oops/SKILL.md",
		Skill: &catalogs.SkillSpec{},
	}
	_, _, err := Reconcile(catalogs.KindAgent, []*catalogs.Entry{skill},
		catalogs.NewCatalog(catalogs.KindAgent), utc.Now())
	require.Error(t, err)
}

func TestReportSummary(t *testing.T) {
	report := &Report{
		Kind:    catalogs.KindAgent,
		Added:   []*catalogs.Entry{scanned("a", "/a.md")},
		Removed: []*catalogs.Entry{scanned("b", "/b.md")},
	}
	assert.Equal(t, "agents: 1 added, 0 updated, 1 removed, 0 unchanged", report.Summary())
	assert.True(t, report.HasChanges())
	assert.Equal(t, 2, report.TotalChanges())
}
