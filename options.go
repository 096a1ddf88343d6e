package grimoire

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/grimoire/pkg/catalogs"
	"github.com/agentstation/grimoire/pkg/constants"
	"github.com/agentstation/grimoire/pkg/errors"
	"github.com/agentstation/grimoire/pkg/extract"
	"github.com/agentstation/grimoire/pkg/scanner"
	"github.com/agentstation/grimoire/pkg/validate"
)

// Option is a function that configures a Grimoire instance
type Option func(*config) error

// config holds resolved settings for a Grimoire instance.
type config struct {
	catalogDir string
	bases      map[catalogs.Scope]string
	roots      map[catalogs.Kind][]scanner.Root
	ttl        time.Duration
	strict     bool
	workers    int
	extractor  extract.Extractor
	validator  validate.Validator
	logger     *zerolog.Logger
}

// defaultBaseDirName is the element tree directory name used for every
// scope: ~/.grimoire for global, ./.grimoire for project, and
// ./.grimoire.local for local overrides.
const (
	defaultBaseDirName  = ".grimoire"
	defaultLocalDirName = ".grimoire.local"
)

func defaultConfig() *config {
	bases := map[catalogs.Scope]string{
		catalogs.ScopeProject: defaultBaseDirName,
		catalogs.ScopeLocal:   defaultLocalDirName,
	}
	if home, err := os.UserHomeDir(); err == nil {
		bases[catalogs.ScopeGlobal] = filepath.Join(home, defaultBaseDirName)
	}
	return &config{
		catalogDir: filepath.Join(defaultBaseDirName, constants.ManifestDirName),
		bases:      bases,
		roots:      make(map[catalogs.Kind][]scanner.Root),
		ttl:        constants.DefaultCacheTTL,
		workers:    constants.MaxScanWorkers,
	}
}

// rootsFor returns the scan roots for a kind: explicit roots when set,
// otherwise the <base>/<kind-plural> directory of each scope base.
func (c *config) rootsFor(kind catalogs.Kind) []scanner.Root {
	if roots, ok := c.roots[kind]; ok {
		return roots
	}
	scopes := catalogs.AllScopes()
	roots := make([]scanner.Root, 0, len(scopes))
	for _, scope := range scopes {
		base, ok := c.bases[scope]
		if !ok {
			continue
		}
		roots = append(roots, scanner.Root{
			Scope: scope,
			Dir:   filepath.Join(base, kind.Plural()),
		})
	}
	return roots
}

// WithCatalogDir sets the directory where catalog manifests are stored
func WithCatalogDir(dir string) Option {
	return func(c *config) error {
		if dir == "" {
			return errors.NewConfigError("catalog_dir", "directory cannot be empty", nil)
		}
		c.catalogDir = dir
		return nil
	}
}

// WithScopeDir sets the base directory scanned for a scope. Element
// directories are resolved underneath it (agents/, skills/, commands/).
func WithScopeDir(scope catalogs.Scope, dir string) Option {
	return func(c *config) error {
		if !scope.IsValid() {
			return errors.NewConfigError("scope", "unknown scope "+string(scope), nil)
		}
		if dir == "" {
			delete(c.bases, scope)
			return nil
		}
		c.bases[scope] = dir
		return nil
	}
}

// WithRoots overrides the scan roots for a kind entirely
func WithRoots(kind catalogs.Kind, roots ...scanner.Root) Option {
	return func(c *config) error {
		if !kind.IsValid() {
			return errors.NewConfigError("kind", "unknown kind "+string(kind), nil)
		}
		c.roots[kind] = roots
		return nil
	}
}

// WithTTL sets how long a loaded catalog snapshot stays fresh before
// the manifest is re-checked
func WithTTL(ttl time.Duration) Option {
	return func(c *config) error {
		if ttl < 0 {
			return errors.NewConfigError("ttl", "ttl cannot be negative", nil)
		}
		c.ttl = ttl
		return nil
	}
}

// WithStrict makes sync fail on the first invalid element file instead
// of skipping it
func WithStrict(strict bool) Option {
	return func(c *config) error {
		c.strict = strict
		return nil
	}
}

// WithScanWorkers bounds per-file extraction concurrency during scans
func WithScanWorkers(n int) Option {
	return func(c *config) error {
		if n < 1 {
			return errors.NewConfigError("scan_workers", "worker count must be positive", nil)
		}
		c.workers = n
		return nil
	}
}

// WithExtractor replaces the front matter extractor
func WithExtractor(e extract.Extractor) Option {
	return func(c *config) error {
		if e == nil {
			return errors.NewConfigError("extractor", "extractor cannot be nil", nil)
		}
		c.extractor = e
		return nil
	}
}

// WithValidator replaces the metadata validator
func WithValidator(v validate.Validator) Option {
	return func(c *config) error {
		if v == nil {
			return errors.NewConfigError("validator", "validator cannot be nil", nil)
		}
		c.validator = v
		return nil
	}
}

// WithLogger sets the logger used by the instance and its scanner
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = &logger
		return nil
	}
}
