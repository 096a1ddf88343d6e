package catalogs

import (
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/grimoire/pkg/constants"
	"github.com/agentstation/grimoire/pkg/errors"
)

// Store persists catalogs as one manifest file per kind inside a single
// directory. Saves are atomic with respect to crashes: the manifest is
// written to a temporary file in the same directory and renamed into
// place, so a reader never observes a partially-written manifest.
//
// Only one in-process writer per manifest is assumed. The atomic rename
// prevents corruption from a concurrent cross-process writer but not
// lost updates; cross-process coordination is out of scope.
type Store struct {
	dir string
}

// manifest is the persisted document shape: a schema-version tag and an
// ordered sequence of entry records with stable key ordering.
type manifest struct {
	SchemaVersion int      `yaml:"schema_version"`
	Kind          Kind     `yaml:"kind"`
	Entries       []*Entry `yaml:"entries"`
}

// NewStore creates a store rooted at dir. The directory is created on
// first save, not here.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the directory holding the manifests.
func (s *Store) Dir() string {
	return s.dir
}

// ManifestPath returns the manifest file path for a kind.
func (s *Store) ManifestPath(kind Kind) string {
	return filepath.Join(s.dir, kind.ManifestName())
}

// ManifestModTime returns the manifest's modification time, or the zero
// time if the manifest does not exist yet.
func (s *Store) ManifestModTime(kind Kind) (time.Time, error) {
	info, err := os.Stat(s.ManifestPath(kind))
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, nil
		}
		return time.Time{}, errors.WrapIO("stat", s.ManifestPath(kind), err)
	}
	return info.ModTime(), nil
}

// Load reads a kind's manifest into a Catalog. A missing manifest is not
// an error: it yields an empty catalog. A manifest that cannot be decoded
// or violates catalog invariants fails with a CorruptManifestError rather
// than silently discarding data.
func (s *Store) Load(kind Kind) (*Catalog, error) {
	path := s.ManifestPath(kind)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewCatalog(kind), nil
		}
		return nil, errors.WrapIO("read", path, err)
	}

	var doc manifest
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewCorruptManifestError(kind.String(), path, err)
	}
	if doc.SchemaVersion != constants.ManifestSchemaVersion {
		return nil, &errors.CorruptManifestError{
			Kind:    kind.String(),
			Path:    path,
			Message: "unsupported schema version",
		}
	}

	cat := NewCatalog(kind)
	if err := cat.ReplaceWith(doc.Entries); err != nil {
		return nil, errors.NewCorruptManifestError(kind.String(), path, err)
	}
	return cat, nil
}

// Save writes a kind's catalog to its manifest atomically.
func (s *Store) Save(kind Kind, cat *Catalog) error {
	if cat == nil {
		return &errors.ConfigError{Component: "store", Message: "catalog cannot be nil"}
	}

	if err := os.MkdirAll(s.dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("create", s.dir, err)
	}

	doc := manifest{
		SchemaVersion: constants.ManifestSchemaVersion,
		Kind:          kind,
		Entries:       cat.List(),
	}

	data, err := formatManifestYAML(&doc)
	if err != nil {
		return errors.WrapResource("save", "manifest", kind.String(), err)
	}

	path := s.ManifestPath(kind)
	if err := writeFileAtomic(path, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// writeFileAtomic writes data to path via a temporary file in the same
// directory followed by a rename, so readers never see a torn write.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return err
	}

	tmpPath := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	// Best-effort; some filesystems may not support chmod here.
	_ = tmp.Chmod(perm)

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}
	committed = true
	return nil
}
