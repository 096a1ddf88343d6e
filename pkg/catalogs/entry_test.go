package catalogs

import (
	"testing"
	"time"

	"github.com/agentstation/utc"
)

func testEntry() *Entry {
	return &Entry{
		ID:          "id-1",
		Kind:        KindCommand,
		Name:        "deploy",
		Description: "Deploy the current branch",
		Scope:       ScopeProject,
		Path:        "/repo/.grimoire/commands/deploy.md",
		FileSize:    421,
		FileModTime: utc.New(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
		Command: &CommandSpec{
			Aliases:       []string{"ship"},
			RequiresTools: []string{"git"},
			Tags:          []string{"ci"},
		},
		CreatedAt: utc.New(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
		UpdatedAt: utc.New(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
	}
}

func TestContentEquals(t *testing.T) {
	base := testEntry()

	t.Run("identical content", func(t *testing.T) {
		other := base.Clone()
		if !base.ContentEquals(other) {
			t.Error("expected clones to be content-equal")
		}
	})

	t.Run("id and timestamps excluded", func(t *testing.T) {
		other := base.Clone()
		other.ID = "id-2"
		other.CreatedAt = utc.Now()
		other.UpdatedAt = utc.Now()
		if !base.ContentEquals(other) {
			t.Error("id and timestamp differences must not affect content equality")
		}
	})

	t.Run("description differs", func(t *testing.T) {
		other := base.Clone()
		other.Description = "changed"
		if base.ContentEquals(other) {
			t.Error("description change must break content equality")
		}
	})

	t.Run("file mod time differs", func(t *testing.T) {
		other := base.Clone()
		other.FileModTime = base.FileModTime.Add(time.Second)
		if base.ContentEquals(other) {
			t.Error("mod time change must break content equality")
		}
	})

	t.Run("payload differs", func(t *testing.T) {
		other := base.Clone()
		other.Command.Tags = []string{"ci", "release"}
		if base.ContentEquals(other) {
			t.Error("payload change must break content equality")
		}
	})

	t.Run("nil other", func(t *testing.T) {
		if base.ContentEquals(nil) {
			t.Error("nil must never be content-equal")
		}
	})
}

func TestClone(t *testing.T) {
	base := testEntry()
	clone := base.Clone()

	clone.Command.Aliases[0] = "mutated"
	clone.Command.Tags = append(clone.Command.Tags, "extra")

	if base.Command.Aliases[0] != "ship" {
		t.Error("mutating the clone leaked into the original aliases")
	}
	if len(base.Command.Tags) != 1 {
		t.Error("mutating the clone leaked into the original tags")
	}
}

func TestKey(t *testing.T) {
	base := testEntry()
	key := base.Key()
	if key.Scope != ScopeProject || key.Path != base.Path {
		t.Errorf("unexpected key: %+v", key)
	}
}
