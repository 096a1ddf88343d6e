// Package app provides the application context and dependency management
// for the grimoire CLI. It centralizes configuration, logging, and the
// lazily created library instance.
package app

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/grimoire"
	"github.com/agentstation/grimoire/pkg/catalogs"
	"github.com/agentstation/grimoire/pkg/errors"
)

// App represents the grimoire application with all its dependencies.
type App struct {
	version string
	commit  string
	date    string

	config *Config
	logger *zerolog.Logger

	// Library instance, lazy-initialized singleton.
	mu       sync.RWMutex
	grimoire grimoire.Grimoire
}

// New creates a new App instance with the given version information.
func New(version, commit, date string) (*App, error) {
	a := &App{
		version: version,
		commit:  commit,
		date:    date,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	a.config = config

	logger := NewLogger(config)
	a.logger = &logger

	return a, nil
}

// Version returns the version information.
func (a *App) Version() string { return a.version }

// Commit returns the git commit hash.
func (a *App) Commit() string { return a.commit }

// Date returns the build date.
func (a *App) Date() string { return a.date }

// Config returns the application configuration.
func (a *App) Config() *Config { return a.config }

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger { return a.logger }

// Format returns the requested output format, empty when unset.
func (a *App) Format() string { return a.config.Format }

// Grimoire returns the library instance, creating it lazily from the
// loaded configuration.
func (a *App) Grimoire() (grimoire.Grimoire, error) {
	a.mu.RLock()
	if a.grimoire != nil {
		defer a.mu.RUnlock()
		return a.grimoire, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.grimoire != nil {
		return a.grimoire, nil
	}

	opts := []grimoire.Option{
		grimoire.WithStrict(a.config.Strict),
		grimoire.WithLogger(*a.logger),
	}
	if a.config.CatalogDir != "" {
		opts = append(opts, grimoire.WithCatalogDir(a.config.CatalogDir))
	}
	if a.config.GlobalDir != "" {
		opts = append(opts, grimoire.WithScopeDir(catalogs.ScopeGlobal, a.config.GlobalDir))
	}
	if a.config.ProjectDir != "" {
		opts = append(opts, grimoire.WithScopeDir(catalogs.ScopeProject, a.config.ProjectDir))
	}
	if a.config.LocalDir != "" {
		opts = append(opts, grimoire.WithScopeDir(catalogs.ScopeLocal, a.config.LocalDir))
	}
	if a.config.CacheTTL > 0 {
		opts = append(opts, grimoire.WithTTL(a.config.CacheTTL))
	}
	if a.config.ScanWorkers > 0 {
		opts = append(opts, grimoire.WithScanWorkers(a.config.ScanWorkers))
	}

	g, err := grimoire.New(opts...)
	if err != nil {
		return nil, err
	}
	a.grimoire = g
	return g, nil
}
