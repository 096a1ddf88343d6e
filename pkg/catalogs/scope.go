package catalogs

import (
	"fmt"
)

// Scope is the precedence tier an element belongs to. Scopes determine
// both where an element's source file lives and which element wins when
// the same name exists in more than one tier.
type Scope string

// Precedence tiers, from widest to narrowest.
const (
	// ScopeGlobal elements live under the user's home grimoire directory.
	ScopeGlobal Scope = "global"
	// ScopeProject elements live under the project's grimoire directory
	// and are typically committed with the project.
	ScopeProject Scope = "project"
	// ScopeLocal elements live under the project's local (uncommitted)
	// grimoire directory and override everything else.
	ScopeLocal Scope = "local"
)

// AllScopes returns every scope ordered from lowest to highest priority.
func AllScopes() []Scope {
	return []Scope{ScopeGlobal, ScopeProject, ScopeLocal}
}

// String returns the string representation of the scope.
func (s Scope) String() string {
	return string(s)
}

// IsValid reports whether the scope is recognized.
func (s Scope) IsValid() bool {
	switch s {
	case ScopeGlobal, ScopeProject, ScopeLocal:
		return true
	default:
		return false
	}
}

// Priority returns the resolution priority of the scope. Higher values
// win: local > project > global. Name resolution consults this order
// explicitly rather than relying on directory scan order.
func (s Scope) Priority() int {
	switch s {
	case ScopeLocal:
		return 3
	case ScopeProject:
		return 2
	case ScopeGlobal:
		return 1
	default:
		return 0
	}
}

// ParseScope parses a scope from user input.
func ParseScope(s string) (Scope, error) {
	switch s {
	case "global", "g":
		return ScopeGlobal, nil
	case "project", "p":
		return ScopeProject, nil
	case "local", "l":
		return ScopeLocal, nil
	default:
		return "", fmt.Errorf("unknown scope: %q", s)
	}
}
