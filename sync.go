package grimoire

import (
	"context"
	"time"

	"github.com/agentstation/utc"

	"github.com/agentstation/grimoire/pkg/catalogs"
	"github.com/agentstation/grimoire/pkg/errors"
	"github.com/agentstation/grimoire/pkg/logging"
	"github.com/agentstation/grimoire/pkg/reconcile"
	"github.com/agentstation/grimoire/pkg/scanner"
)

// SyncResult is the outcome of syncing one kind.
type SyncResult struct {
	Report  *reconcile.Report `json:"report"            yaml:"report"`
	Skipped []scanner.Skip    `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// Diagnosis is a dry scan of one kind: what would be admitted and what
// would be skipped, without touching the manifest.
type Diagnosis struct {
	Kind    catalogs.Kind  `json:"kind"              yaml:"kind"`
	Found   int            `json:"found"             yaml:"found"`
	Skipped []scanner.Skip `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// Sync implements Grimoire. Each kind is scanned, reconciled against
// its stored catalog, and persisted with a single atomic save. Sync
// never consults the snapshot cache and always invalidates it. A kind
// that fails leaves the remaining kinds untouched; the results of the
// kinds that succeeded are returned alongside the joined per-kind
// errors.
func (g *grimoire) Sync(ctx context.Context, kinds ...catalogs.Kind) ([]*SyncResult, error) {
	if len(kinds) == 0 {
		kinds = catalogs.AllKinds()
	}

	results := make([]*SyncResult, 0, len(kinds))
	var errs []error
	for _, kind := range kinds {
		result, err := g.syncKind(ctx, kind)
		if err != nil {
			errs = append(errs, errors.NewSyncError(kind.String(), err))
			continue
		}
		results = append(results, result)
	}
	return results, errors.Join(errs...)
}

func (g *grimoire) syncKind(ctx context.Context, kind catalogs.Kind) (*SyncResult, error) {
	ctx = logging.WithKind(logging.WithLogger(ctx, &g.logger), kind.String())

	existing, err := g.store.Load(kind)
	if err != nil {
		return nil, err
	}

	scanned, skipped, err := g.scanner.Scan(ctx, kind, g.config.rootsFor(kind))
	if err != nil {
		return nil, err
	}

	next, report, err := reconcile.Reconcile(kind, scanned, existing, utc.Now())
	if err != nil {
		return nil, err
	}

	if err := g.store.Save(kind, next); err != nil {
		return nil, err
	}

	mtime, err := g.store.ManifestModTime(kind)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	g.snapshots[kind] = &snapshot{
		catalog:       next,
		loadedAt:      time.Now(),
		manifestMtime: mtime,
	}
	g.mu.Unlock()

	logging.Ctx(ctx).Info().
		Int("added", len(report.Added)).
		Int("updated", len(report.Updated)).
		Int("removed", len(report.Removed)).
		Int("unchanged", len(report.Unchanged)).
		Int("skipped", len(skipped)).
		Dur("duration", report.Duration).
		Msg("catalog synced")

	return &SyncResult{Report: report, Skipped: skipped}, nil
}

// Doctor implements Grimoire.
func (g *grimoire) Doctor(ctx context.Context, kinds ...catalogs.Kind) ([]*Diagnosis, error) {
	if len(kinds) == 0 {
		kinds = catalogs.AllKinds()
	}

	ctx = logging.WithOperation(logging.WithLogger(ctx, &g.logger), "doctor")

	diagnoses := make([]*Diagnosis, 0, len(kinds))
	var errs []error
	for _, kind := range kinds {
		scanned, skipped, err := g.scanner.Scan(ctx, kind, g.config.rootsFor(kind))
		if err != nil {
			errs = append(errs, errors.NewSyncError(kind.String(), err))
			continue
		}
		logging.Ctx(ctx).Debug().
			Str("kind", kind.String()).
			Int("found", len(scanned)).
			Int("skipped", len(skipped)).
			Msg("dry scan complete")
		diagnoses = append(diagnoses, &Diagnosis{
			Kind:    kind,
			Found:   len(scanned),
			Skipped: skipped,
		})
	}
	return diagnoses, errors.Join(errs...)
}
