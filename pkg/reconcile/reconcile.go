// Package reconcile computes the difference between a filesystem scan
// and a stored catalog, producing the next catalog state and a report
// of what changed.
package reconcile

import (
	"fmt"
	"time"

	"github.com/agentstation/utc"
	"github.com/google/uuid"

	"github.com/agentstation/grimoire/pkg/catalogs"
	"github.com/agentstation/grimoire/pkg/errors"
)

// Report summarizes one reconciliation pass for a kind.
type Report struct {
	Kind      catalogs.Kind     `json:"kind"                yaml:"kind"`
	Added     []*catalogs.Entry `json:"added,omitempty"     yaml:"added,omitempty"`
	Updated   []*catalogs.Entry `json:"updated,omitempty"   yaml:"updated,omitempty"`
	Unchanged []*catalogs.Entry `json:"unchanged,omitempty" yaml:"unchanged,omitempty"`
	Removed   []*catalogs.Entry `json:"removed,omitempty"   yaml:"removed,omitempty"`
	Timestamp utc.Time          `json:"timestamp"           yaml:"timestamp"`
	Duration  time.Duration     `json:"duration"            yaml:"duration"`
}

// HasChanges reports whether anything was added, updated, or removed.
func (r *Report) HasChanges() bool {
	return len(r.Added) > 0 || len(r.Updated) > 0 || len(r.Removed) > 0
}

// TotalChanges returns the number of entries that changed state.
func (r *Report) TotalChanges() int {
	return len(r.Added) + len(r.Updated) + len(r.Removed)
}

// Summary returns a one line human readable account of the pass.
func (r *Report) Summary() string {
	return fmt.Sprintf("%s: %d added, %d updated, %d removed, %d unchanged",
		r.Kind.Plural(), len(r.Added), len(r.Updated), len(r.Removed), len(r.Unchanged))
}

// Reconcile merges a scan result into the existing catalog for kind.
//
// Entries are matched by (scope, path). A scanned entry with no match is
// added with a fresh id and both timestamps set to now. A matched entry
// whose content differs keeps its id and created_at and gets updated_at
// bumped to now. A matched entry with identical content is carried over
// untouched, so reconciling the same tree twice is a no-op. Existing
// entries absent from the scan are removed.
//
// The returned catalog is the complete next state in scan order; the
// caller persists it with a single save.
func Reconcile(kind catalogs.Kind, scanned []*catalogs.Entry, existing *catalogs.Catalog, now utc.Time) (*catalogs.Catalog, *Report, error) {
	start := time.Now()

	report := &Report{Kind: kind, Timestamp: now}
	next := catalogs.NewCatalog(kind)
	matched := make(map[catalogs.Key]bool, len(scanned))

	for _, scannedEntry := range scanned {
		if scannedEntry.Kind != kind {
			return nil, nil, errors.NewValidationError("kind", scannedEntry.Kind,
				fmt.Sprintf("scanned entry %s does not belong to the %s catalog", scannedEntry.Path, kind))
		}

		key := scannedEntry.Key()
		matched[key] = true

		current, ok := existingByKey(existing, key)
		var merged *catalogs.Entry
		switch {
		case !ok:
			merged = scannedEntry.Clone()
			merged.ID = uuid.NewString()
			merged.CreatedAt = now
			merged.UpdatedAt = now
			report.Added = append(report.Added, merged)
		case current.ContentEquals(scannedEntry):
			merged = current
			report.Unchanged = append(report.Unchanged, merged)
		default:
			merged = scannedEntry.Clone()
			merged.ID = current.ID
			merged.CreatedAt = current.CreatedAt
			merged.UpdatedAt = now
			report.Updated = append(report.Updated, merged)
		}

		if err := next.Add(merged); err != nil {
			return nil, nil, errors.WrapResource("reconcile", kind.String(), merged.Name, err)
		}
	}

	if existing != nil {
		for _, entry := range existing.List() {
			if !matched[entry.Key()] {
				report.Removed = append(report.Removed, entry)
			}
		}
	}

	report.Duration = time.Since(start)
	return next, report, nil
}

func existingByKey(existing *catalogs.Catalog, key catalogs.Key) (*catalogs.Entry, bool) {
	if existing == nil {
		return nil, false
	}
	return existing.GetByKey(key)
}
