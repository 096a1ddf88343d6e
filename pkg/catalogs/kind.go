package catalogs

import (
	"fmt"
)

// Kind identifies which family of configuration elements an entry
// belongs to. Each kind has its own manifest and its own on-disk layout.
type Kind string

// Element kinds known to the catalog system.
const (
	// KindAgent is a single-file agent definition (flat *.md).
	KindAgent Kind = "agent"
	// KindSkill is a directory-per-element skill (SKILL.md per directory).
	KindSkill Kind = "skill"
	// KindCommand is a single-file slash command (flat *.md).
	KindCommand Kind = "command"
)

// AllKinds returns every element kind in stable order.
func AllKinds() []Kind {
	return []Kind{KindAgent, KindSkill, KindCommand}
}

// String returns the string representation of the kind.
func (k Kind) String() string {
	return string(k)
}

// IsValid reports whether the kind is recognized.
func (k Kind) IsValid() bool {
	switch k {
	case KindAgent, KindSkill, KindCommand:
		return true
	default:
		return false
	}
}

// Plural returns the pluralized kind name, used for directory and
// manifest naming ("agents", "skills", "commands").
func (k Kind) Plural() string {
	return string(k) + "s"
}

// ManifestName returns the manifest filename for this kind.
func (k Kind) ManifestName() string {
	return k.Plural() + ".yaml"
}

// ParseKind parses a kind from user input, accepting singular and
// plural spellings.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "agent", "agents":
		return KindAgent, nil
	case "skill", "skills":
		return KindSkill, nil
	case "command", "commands":
		return KindCommand, nil
	default:
		return "", fmt.Errorf("unknown element kind: %q", s)
	}
}
