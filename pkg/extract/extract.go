// Package extract reads structured metadata out of element source files.
// Elements are markdown documents with a YAML front matter block; the
// extractor is a pure function from a file path to metadata, consumed by
// the scanner. Parse failures are recoverable ParseErrors that callers
// surface as skipped files.
package extract

// Metadata is the structured front matter of one element source file.
// It is a superset across kinds; the scanner maps it onto the
// kind-discriminated catalog payload.
type Metadata struct {
	Name        string
	Description string

	// Agent fields
	Model string
	Tools []string
	Color string

	// Skill fields
	Template string

	// Command fields
	Aliases       []string
	RequiresTools []string
	Tags          []string
}

// Extractor produces metadata from an element source file.
type Extractor interface {
	// Extract parses the file at path. A malformed file yields a
	// *errors.ParseError; an unreadable file yields a *errors.IOError.
	Extract(path string) (*Metadata, error)
}
