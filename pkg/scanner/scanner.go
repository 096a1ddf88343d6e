// Package scanner discovers element files on disk and turns them into
// catalog entries. It performs no persistence; callers reconcile its
// output against a stored catalog.
package scanner

import (
	"context"
	"os"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/grimoire/pkg/catalogs"
	"github.com/agentstation/grimoire/pkg/constants"
	"github.com/agentstation/grimoire/pkg/errors"
	"github.com/agentstation/grimoire/pkg/extract"
	"github.com/agentstation/grimoire/pkg/logging"
	"github.com/agentstation/grimoire/pkg/validate"
)

// Root is one directory to scan, tagged with the scope its elements
// belong to.
type Root struct {
	Scope catalogs.Scope
	Dir   string
}

// Skip records a file that was found but not admitted, with the reason.
type Skip struct {
	Path   string `json:"path"   yaml:"path"`
	Reason string `json:"reason" yaml:"reason"`
}

// Scanner walks configured roots and extracts catalog entries.
type Scanner struct {
	extractor extract.Extractor
	validator validate.Validator
	logger    zerolog.Logger
	strict    bool
	workers   int
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithExtractor replaces the front matter extractor.
func WithExtractor(e extract.Extractor) Option {
	return func(s *Scanner) { s.extractor = e }
}

// WithValidator replaces the metadata validator.
func WithValidator(v validate.Validator) Option {
	return func(s *Scanner) { s.validator = v }
}

// WithStrict makes the first extraction or validation failure abort the
// scan instead of skipping the file.
func WithStrict(strict bool) Option {
	return func(s *Scanner) { s.strict = strict }
}

// WithWorkers bounds per-file extraction concurrency.
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithLogger sets the scan logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Scanner) { s.logger = logger }
}

// New creates a Scanner with the default extractor and validator.
func New(opts ...Option) *Scanner {
	s := &Scanner{
		extractor: extract.NewFrontMatter(),
		validator: validate.NewRules(),
		logger:    *logging.Default(),
		workers:   constants.MaxScanWorkers,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan walks every root in order and returns the admitted entries sorted
// by path, plus the files that were skipped and why.
//
// Missing root directories contribute nothing. A root that exists but
// cannot be read is skipped whole with the failure as its reason; the
// remaining roots are still scanned. Duplicate files reached through
// different roots (or symlinks) are deduplicated by their resolved path;
// the first occurrence wins and the rest are recorded as skipped. The
// same applies to two files in one scope declaring the same name. In
// strict mode any of these failures aborts the scan instead.
func (s *Scanner) Scan(ctx context.Context, kind catalogs.Kind, roots []Root) ([]*catalogs.Entry, []Skip, error) {
	if !kind.IsValid() {
		return nil, nil, errors.NewValidationError("kind", kind, "unknown element kind")
	}

	candidates, skipped, err := s.collect(kind, roots)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Debug().
		Str("kind", kind.String()).
		Int("candidates", len(candidates)).
		Int("roots", len(roots)).
		Msg("scan collected candidates")

	entries, extractSkips, err := s.extractAll(ctx, kind, candidates)
	if err != nil {
		return nil, nil, err
	}
	skipped = append(skipped, extractSkips...)

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})

	entries, skipped, err = s.dedupeNames(entries, skipped)
	if err != nil {
		return nil, nil, err
	}

	sort.Slice(skipped, func(i, j int) bool {
		return skipped[i].Path < skipped[j].Path
	})
	return entries, skipped, nil
}

// dedupeNames enforces name uniqueness within one scope. Entries are
// already sorted by path, so the first declaring file wins and later
// ones are skipped. Names may still repeat across scopes; resolution by
// scope priority handles those.
func (s *Scanner) dedupeNames(entries []*catalogs.Entry, skipped []Skip) ([]*catalogs.Entry, []Skip, error) {
	byName := make(map[string]string) // scope/name -> first declaring path
	kept := make([]*catalogs.Entry, 0, len(entries))

	for _, entry := range entries {
		key := string(entry.Scope) + "/" + entry.Name
		first, ok := byName[key]
		if !ok {
			byName[key] = entry.Path
			kept = append(kept, entry)
			continue
		}
		_, skip, err := s.reject(entry.Path,
			errors.NewValidationError("name", entry.Name, "already declared in this scope by "+first))
		if err != nil {
			return nil, nil, err
		}
		skipped = append(skipped, *skip)
	}
	return kept, skipped, nil
}

// extractAll runs extraction and validation for every candidate on a
// bounded worker pool. Result order is restored by index, so concurrency
// never changes output order.
func (s *Scanner) extractAll(ctx context.Context, kind catalogs.Kind, candidates []candidate) ([]*catalogs.Entry, []Skip, error) {
	type result struct {
		entry *catalogs.Entry
		skip  *Skip
		err   error
	}

	results := make([]result, len(candidates))
	jobs := make(chan int)

	parent := ctx
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workers := s.workers
	if workers > len(candidates) {
		workers = len(candidates)
	}
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				entry, skip, err := s.process(kind, candidates[i])
				results[i] = result{entry: entry, skip: skip, err: err}
				if err != nil {
					cancel()
					return
				}
			}
		}()
	}

feed:
	for i := range candidates {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := parent.Err(); err != nil {
		return nil, nil, err
	}

	entries := make([]*catalogs.Entry, 0, len(candidates))
	skips := make([]Skip, 0)
	for _, r := range results {
		if r.err != nil {
			return nil, nil, r.err
		}
		if r.skip != nil {
			skips = append(skips, *r.skip)
		}
		if r.entry != nil {
			entries = append(entries, r.entry)
		}
	}
	return entries, skips, nil
}

// process turns one candidate file into an entry, a skip, or a fatal
// error depending on strict mode.
func (s *Scanner) process(kind catalogs.Kind, c candidate) (*catalogs.Entry, *Skip, error) {
	meta, err := s.extractor.Extract(c.path)
	if err != nil {
		return s.reject(c.path, err)
	}
	if err := s.validator.Validate(kind, meta); err != nil {
		return s.reject(c.path, err)
	}

	info, err := os.Stat(c.path)
	if err != nil {
		return s.reject(c.path, errors.WrapIO("stat", c.path, err))
	}

	entry := &catalogs.Entry{
		Kind:        kind,
		Name:        meta.Name,
		Description: meta.Description,
		Scope:       c.scope,
		Path:        c.path,
		FileSize:    info.Size(),
		FileModTime: utcFromTime(info.ModTime()),
	}

	switch kind {
	case catalogs.KindAgent:
		entry.Agent = &catalogs.AgentSpec{
			Model: meta.Model,
			Tools: meta.Tools,
			Color: meta.Color,
		}
	case catalogs.KindSkill:
		hasScripts, fileCount := skillDirStats(c.dir)
		entry.Skill = &catalogs.SkillSpec{
			Template:   meta.Template,
			HasScripts: hasScripts,
			FileCount:  fileCount,
		}
	case catalogs.KindCommand:
		entry.Command = &catalogs.CommandSpec{
			Aliases:       meta.Aliases,
			RequiresTools: meta.RequiresTools,
			Tags:          meta.Tags,
		}
	}

	return entry, nil, nil
}

// reject converts a per-file failure into a skip, or into a fatal error
// in strict mode.
func (s *Scanner) reject(path string, err error) (*catalogs.Entry, *Skip, error) {
	if s.strict {
		return nil, nil, errors.WrapStrictScan(path, err)
	}
	s.logger.Warn().Str("path", path).Err(err).Msg("skipping element file")
	return nil, &Skip{Path: path, Reason: err.Error()}, nil
}
