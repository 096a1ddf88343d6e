// Package constants provides shared constants used throughout the grimoire codebase.
// This includes cache policy values, file permissions, scanner limits, and other
// configuration values that should be consistent across the application.
package constants

import "time"

// Cache policy constants control snapshot freshness.
const (
	// DefaultCacheTTL is how long an in-memory catalog snapshot is trusted
	// before it must be revalidated against the manifest on disk.
	DefaultCacheTTL = 5 * time.Minute

	// DefaultSyncTimeout is the upper bound a caller should allow for a
	// full scan and reconcile pass across all roots.
	DefaultSyncTimeout = 2 * time.Minute
)

// File permission constants define standard Unix file permissions.
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Scanner constants bound filesystem work.
const (
	// MaxScanWorkers is the number of files extracted concurrently per root.
	MaxScanWorkers = 8

	// MaxNameLength is the maximum allowed length for element names.
	MaxNameLength = 64

	// MaxDescriptionLength is the maximum allowed length for descriptions.
	MaxDescriptionLength = 4096
)

// Manifest constants describe the persisted catalog format.
const (
	// ManifestSchemaVersion is the current manifest schema version tag.
	ManifestSchemaVersion = 1

	// ManifestDirName is the directory under the grimoire home that holds
	// one manifest file per element kind.
	ManifestDirName = "catalog"
)
