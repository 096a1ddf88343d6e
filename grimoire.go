// Package grimoire manages catalogs of markdown-defined agents, skills,
// and commands discovered from scoped directory trees. It keeps one
// manifest per element kind, reconciles it against the filesystem on
// demand, and serves list, search, and lookup queries from cached
// snapshots.
package grimoire

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/grimoire/pkg/catalogs"
	"github.com/agentstation/grimoire/pkg/errors"
	"github.com/agentstation/grimoire/pkg/logging"
	"github.com/agentstation/grimoire/pkg/scanner"
	"github.com/agentstation/grimoire/pkg/search"
)

// Grimoire serves catalog queries and keeps manifests in step with the
// element files on disk.
type Grimoire interface {
	// List returns every entry of a kind in manifest order
	List(ctx context.Context, kind catalogs.Kind) ([]*catalogs.Entry, error)

	// Search ranks entries across kinds against a query
	Search(ctx context.Context, query search.Query) ([]search.Result, error)

	// Show resolves one entry by name. With a nil scope the highest
	// priority scope wins (local over project over global); with an
	// explicit scope only that scope is consulted.
	Show(ctx context.Context, kind catalogs.Kind, name string, scope *catalogs.Scope) (*catalogs.Entry, error)

	// Sync rescans the filesystem and rewrites the manifests for the
	// given kinds (all kinds when none are named). A failing kind does
	// not stop the rest; results for the kinds that succeeded are
	// returned alongside the joined error.
	Sync(ctx context.Context, kinds ...catalogs.Kind) ([]*SyncResult, error)

	// Doctor scans without persisting and reports every file that
	// would be skipped and why
	Doctor(ctx context.Context, kinds ...catalogs.Kind) ([]*Diagnosis, error)
}

// grimoire is the internal implementation of the Grimoire interface
type grimoire struct {
	mu        sync.RWMutex
	refreshMu sync.Mutex // serializes snapshot refreshes
	config    *config
	store     *catalogs.Store
	scanner   *scanner.Scanner
	logger    zerolog.Logger
	snapshots map[catalogs.Kind]*snapshot
}

// snapshot is one cached catalog plus the facts needed to judge its
// freshness.
type snapshot struct {
	catalog       *catalogs.Catalog
	loadedAt      time.Time
	manifestMtime time.Time
}

// New creates a Grimoire instance with the given options
func New(opts ...Option) (Grimoire, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("applying options: %w", err)
		}
	}

	logger := *logging.Default()
	if cfg.logger != nil {
		logger = *cfg.logger
	}

	scanOpts := []scanner.Option{
		scanner.WithStrict(cfg.strict),
		scanner.WithWorkers(cfg.workers),
		scanner.WithLogger(logger),
	}
	if cfg.extractor != nil {
		scanOpts = append(scanOpts, scanner.WithExtractor(cfg.extractor))
	}
	if cfg.validator != nil {
		scanOpts = append(scanOpts, scanner.WithValidator(cfg.validator))
	}

	return &grimoire{
		config:    cfg,
		store:     catalogs.NewStore(cfg.catalogDir),
		scanner:   scanner.New(scanOpts...),
		logger:    logger,
		snapshots: make(map[catalogs.Kind]*snapshot),
	}, nil
}

// List implements Grimoire.
func (g *grimoire) List(ctx context.Context, kind catalogs.Kind) ([]*catalogs.Entry, error) {
	catalog, err := g.catalogFor(ctx, kind)
	if err != nil {
		return nil, err
	}
	return catalog.List(), nil
}

// Search implements Grimoire. The kind filter decides which catalogs
// are loaded; without one every kind is consulted.
func (g *grimoire) Search(ctx context.Context, query search.Query) ([]search.Result, error) {
	kinds := query.Filters.Kinds
	if len(kinds) == 0 {
		kinds = catalogs.AllKinds()
	}

	var entries []*catalogs.Entry
	for _, kind := range kinds {
		catalog, err := g.catalogFor(ctx, kind)
		if err != nil {
			return nil, err
		}
		entries = append(entries, catalog.List()...)
	}
	return search.Run(entries, query), nil
}

// Show implements Grimoire.
func (g *grimoire) Show(ctx context.Context, kind catalogs.Kind, name string, scope *catalogs.Scope) (*catalogs.Entry, error) {
	catalog, err := g.catalogFor(ctx, kind)
	if err != nil {
		return nil, err
	}
	return catalog.Resolve(name, scope)
}

// catalogFor returns a fresh catalog for the kind, reusing the cached
// snapshot while it is valid. A snapshot is valid while it is younger
// than the TTL and the manifest on disk has not been modified since it
// was loaded. A stale or missing snapshot is refreshed by syncing the
// kind from the filesystem, so element files edited, added, or deleted
// outside a Sync call still surface on the next read.
func (g *grimoire) catalogFor(ctx context.Context, kind catalogs.Kind) (*catalogs.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.RLock()
	snap, ok := g.snapshots[kind]
	g.mu.RUnlock()
	if ok && g.valid(kind, snap) {
		return snap.catalog, nil
	}

	g.refreshMu.Lock()
	defer g.refreshMu.Unlock()

	// Another caller may have refreshed while we waited for the lock.
	g.mu.RLock()
	snap, ok = g.snapshots[kind]
	g.mu.RUnlock()
	if ok && g.valid(kind, snap) {
		return snap.catalog, nil
	}

	if _, err := g.syncKind(ctx, kind); err != nil {
		return nil, errors.NewSyncError(kind.String(), err)
	}

	g.mu.RLock()
	snap = g.snapshots[kind]
	g.mu.RUnlock()
	g.logger.Debug().Str("kind", kind.String()).Int("entries", snap.catalog.Len()).Msg("catalog snapshot refreshed")
	return snap.catalog, nil
}

func (g *grimoire) valid(kind catalogs.Kind, snap *snapshot) bool {
	if time.Since(snap.loadedAt) >= g.config.ttl {
		return false
	}
	mtime, err := g.store.ManifestModTime(kind)
	if err != nil {
		return false
	}
	return mtime.Equal(snap.manifestMtime)
}
