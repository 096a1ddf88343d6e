package catalogs

import (
	"github.com/agentstation/utc"
)

// Entry is one catalog record describing a single configuration element.
// The envelope fields are shared by every kind; exactly one of the
// kind-discriminated payloads (Agent, Skill, Command) is non-nil, resolved
// once at parse time rather than by runtime field probing.
type Entry struct {
	// Core identity
	ID          string `json:"id" yaml:"id"`                                       // Stable unique identifier, generated once at first discovery
	Kind        Kind   `json:"kind" yaml:"kind"`                                   // Element kind discriminator
	Name        string `json:"name" yaml:"name"`                                   // Declared slug; unique within (kind, scope)
	Description string `json:"description,omitempty" yaml:"description,omitempty"` // Free text used for search scoring

	// Location
	Scope Scope  `json:"scope" yaml:"scope"` // Precedence tier (global/project/local)
	Path  string `json:"path" yaml:"path"`   // Absolute path to the source file (back-reference only)

	// Source file provenance observed at sync time
	FileSize    int64    `json:"file_size" yaml:"file_size"`         // Size of the source file in bytes
	FileModTime utc.Time `json:"file_mod_time" yaml:"file_mod_time"` // Modification time of the source file

	// Kind-specific payload (exactly one is non-nil)
	Agent   *AgentSpec   `json:"agent,omitempty" yaml:"agent,omitempty"`
	Skill   *SkillSpec   `json:"skill,omitempty" yaml:"skill,omitempty"`
	Command *CommandSpec `json:"command,omitempty" yaml:"command,omitempty"`

	// Timestamps set by the catalog, never by the source file
	CreatedAt utc.Time `json:"created_at" yaml:"created_at"` // When the element was first discovered
	UpdatedAt utc.Time `json:"updated_at" yaml:"updated_at"` // When the element last changed
}

// AgentSpec holds agent-specific metadata extracted from front matter.
type AgentSpec struct {
	Model string   `json:"model,omitempty" yaml:"model,omitempty"` // Preferred model slug, if pinned
	Tools []string `json:"tools,omitempty" yaml:"tools,omitempty"` // Tools the agent is allowed to use
	Color string   `json:"color,omitempty" yaml:"color,omitempty"` // Display color hint
}

// SkillSpec holds skill-specific metadata. HasScripts and FileCount are
// derived from the skill directory contents, not from front matter.
type SkillSpec struct {
	Template   string `json:"template,omitempty" yaml:"template,omitempty"` // Template the skill was generated from
	HasScripts bool   `json:"has_scripts" yaml:"has_scripts"`               // Whether the skill ships a scripts/ directory
	FileCount  int    `json:"file_count" yaml:"file_count"`                 // Number of files in the skill directory
}

// CommandSpec holds command-specific metadata extracted from front matter.
type CommandSpec struct {
	Aliases       []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`               // Alternate invocation names
	RequiresTools []string `json:"requires_tools,omitempty" yaml:"requires_tools,omitempty"` // Tools the command depends on
	Tags          []string `json:"tags,omitempty" yaml:"tags,omitempty"`                     // Free-form category tags
}

// Key uniquely identifies at most one entry within a kind's catalog.
type Key struct {
	Scope Scope
	Path  string
}

// Key returns the entry's (scope, path) identity key.
func (e *Entry) Key() Key {
	return Key{Scope: e.Scope, Path: e.Path}
}

// Tags returns the entry's searchable tags, if its kind declares any.
func (e *Entry) Tags() []string {
	if e.Command != nil {
		return e.Command.Tags
	}
	return nil
}

// Aliases returns the entry's alternate names, if its kind declares any.
func (e *Entry) Aliases() []string {
	if e.Command != nil {
		return e.Command.Aliases
	}
	return nil
}

// ContentEquals reports whether two entries describe the same element
// content. Identity (ID) and catalog timestamps are excluded so the
// comparison answers "did the underlying file's metadata change", which
// is what reconciliation needs for the idempotence guarantee.
func (e *Entry) ContentEquals(other *Entry) bool {
	if other == nil {
		return false
	}
	if e.Kind != other.Kind ||
		e.Name != other.Name ||
		e.Description != other.Description ||
		e.Scope != other.Scope ||
		e.Path != other.Path ||
		e.FileSize != other.FileSize ||
		!e.FileModTime.Time.Equal(other.FileModTime.Time) {
		return false
	}
	return agentSpecEquals(e.Agent, other.Agent) &&
		skillSpecEquals(e.Skill, other.Skill) &&
		commandSpecEquals(e.Command, other.Command)
}

// Clone returns a deep copy of the entry to prevent shared references.
func (e *Entry) Clone() *Entry {
	clone := *e
	if e.Agent != nil {
		agent := *e.Agent
		agent.Tools = cloneStrings(e.Agent.Tools)
		clone.Agent = &agent
	}
	if e.Skill != nil {
		skill := *e.Skill
		clone.Skill = &skill
	}
	if e.Command != nil {
		command := *e.Command
		command.Aliases = cloneStrings(e.Command.Aliases)
		command.RequiresTools = cloneStrings(e.Command.RequiresTools)
		command.Tags = cloneStrings(e.Command.Tags)
		clone.Command = &command
	}
	return &clone
}

func agentSpecEquals(a, b *AgentSpec) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Model == b.Model && a.Color == b.Color && equalStrings(a.Tools, b.Tools)
}

func skillSpecEquals(a, b *SkillSpec) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func commandSpecEquals(a, b *CommandSpec) bool {
	if a == nil || b == nil {
		return a == b
	}
	return equalStrings(a.Aliases, b.Aliases) &&
		equalStrings(a.RequiresTools, b.RequiresTools) &&
		equalStrings(a.Tags, b.Tags)
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
