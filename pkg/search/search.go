// Package search ranks catalog entries against a text query with a
// deterministic total order.
package search

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/agentstation/grimoire/pkg/catalogs"
)

// Score weights. An entry's score is the sum of its sub-scores: the
// strongest name tier plus tag, alias, and description contributions.
const (
	scoreNameExact     = 100
	scoreNamePrefix    = 60
	scoreNameSubstring = 30
	scoreTagExact      = 15
	scoreAliasExact    = 15
	scoreDescription   = 5
)

// Filters narrow the candidate set before any scoring happens.
type Filters struct {
	Kinds        []catalogs.Kind
	Scopes       []catalogs.Scope
	Tag          string
	HasScripts   *bool
	RequiresTool string
}

// Query is one search request.
type Query struct {
	Text    string
	Filters Filters
	Limit   int // 0 means unlimited
}

// Result pairs an entry with its relevance score.
type Result struct {
	Entry *catalogs.Entry `json:"entry" yaml:"entry"`
	Score int             `json:"score" yaml:"score"`
}

// Run scores entries against the query and returns matches ordered by
// score descending, then name, then scope priority (local outranks
// project outranks global), then id. Entries scoring zero are excluded
// unless the query text is empty, in which case every entry passing the
// filters is returned in tie-break order.
func Run(entries []*catalogs.Entry, q Query) []Result {
	text := foldString(strings.TrimSpace(q.Text))

	results := make([]Result, 0, len(entries))
	for _, entry := range entries {
		if !q.Filters.admit(entry) {
			continue
		}
		score := scoreEntry(entry, text)
		if score == 0 && text != "" {
			continue
		}
		results = append(results, Result{Entry: entry, Score: score})
	}

	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Entry.Name != b.Entry.Name {
			return a.Entry.Name < b.Entry.Name
		}
		if a.Entry.Scope.Priority() != b.Entry.Scope.Priority() {
			return a.Entry.Scope.Priority() > b.Entry.Scope.Priority()
		}
		return a.Entry.ID < b.Entry.ID
	})

	if q.Limit > 0 && len(results) > q.Limit {
		results = results[:q.Limit]
	}
	return results
}

// admit applies the hard filters.
func (f Filters) admit(entry *catalogs.Entry) bool {
	if len(f.Kinds) > 0 && !containsKind(f.Kinds, entry.Kind) {
		return false
	}
	if len(f.Scopes) > 0 && !containsScope(f.Scopes, entry.Scope) {
		return false
	}
	if f.Tag != "" && !containsFolded(entry.Tags(), f.Tag) {
		return false
	}
	if f.HasScripts != nil {
		if entry.Skill == nil || entry.Skill.HasScripts != *f.HasScripts {
			return false
		}
	}
	if f.RequiresTool != "" {
		if entry.Command == nil || !containsFolded(entry.Command.RequiresTools, f.RequiresTool) {
			return false
		}
	}
	return true
}

// scoreEntry sums the weighted sub-scores for the folded query text.
// The name contributes its strongest matching tier once; tag, alias,
// and description matches each add their weight on top, so an entry
// matching on several fields outranks one matching on a single field
// of the same tier.
func scoreEntry(entry *catalogs.Entry, text string) int {
	if text == "" {
		return 0
	}

	score := 0
	name := foldString(entry.Name)
	switch {
	case name == text:
		score += scoreNameExact
	case strings.HasPrefix(name, text):
		score += scoreNamePrefix
	case strings.Contains(name, text):
		score += scoreNameSubstring
	}

	if containsFolded(entry.Tags(), text) {
		score += scoreTagExact
	}
	if containsFolded(entry.Aliases(), text) {
		score += scoreAliasExact
	}
	if strings.Contains(foldString(entry.Description), text) {
		score += scoreDescription
	}
	return score
}

// foldString applies Unicode case folding for caseless comparison.
// A Caser is stateful, so one is created per call.
func foldString(s string) string {
	return cases.Fold().String(s)
}

func containsFolded(values []string, target string) bool {
	folded := foldString(target)
	for _, v := range values {
		if foldString(v) == folded {
			return true
		}
	}
	return false
}

func containsKind(kinds []catalogs.Kind, kind catalogs.Kind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

func containsScope(scopes []catalogs.Scope, scope catalogs.Scope) bool {
	for _, s := range scopes {
		if s == scope {
			return true
		}
	}
	return false
}
