package model

import (
	"fmt"
	"strings"
)

// Scope represents the kind of relationship graph a crawl explores.
// The scope selects which expansion adapter is semantically valid; the
// traversal engine itself contains no scope-specific logic.
//
// Design decision: We use string-typed constants rather than iota because
// scopes appear verbatim in CLI flags, YAML config files, JSON reports, and
// the history database. A string type keeps all of those representations
// identical without a translation table.
type Scope string

// Crawl scope constants.
const (
	// ScopeViewStructure explores UI component trees (a view's children).
	ScopeViewStructure Scope = "view_structure"
	// ScopeDatabaseSchema explores foreign-key relationships between tables.
	ScopeDatabaseSchema Scope = "database_schema"
	// ScopeCodeDependencies explores import and call graphs between modules.
	ScopeCodeDependencies Scope = "code_dependencies"
	// ScopeEventFlow explores event emitter/listener chains.
	ScopeEventFlow Scope = "event_flow"
	// ScopeAPIEndpoints explores API endpoint maps.
	ScopeAPIEndpoints Scope = "api_endpoints"
)

// Scopes returns all valid scopes in a stable order.
// The order matches the CLI help text and documentation.
func Scopes() []Scope {
	return []Scope{
		ScopeViewStructure,
		ScopeDatabaseSchema,
		ScopeCodeDependencies,
		ScopeEventFlow,
		ScopeAPIEndpoints,
	}
}

// String returns the string representation of the Scope.
func (s Scope) String() string {
	return string(s)
}

// Valid reports whether the scope is one of the known crawl scopes.
func (s Scope) Valid() bool {
	switch s {
	case ScopeViewStructure, ScopeDatabaseSchema, ScopeCodeDependencies,
		ScopeEventFlow, ScopeAPIEndpoints:
		return true
	default:
		return false
	}
}

// ParseScope converts a user-supplied string into a Scope.
// Matching is case-insensitive and accepts both snake_case and kebab-case
// spellings, since both show up in CLI usage.
func ParseScope(s string) (Scope, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.ReplaceAll(normalized, "-", "_")

	scope := Scope(normalized)
	if !scope.Valid() {
		return "", fmt.Errorf("unknown crawl scope %q (valid scopes: %s)", s, scopeList())
	}
	return scope, nil
}

// scopeList returns a comma-separated list of valid scopes for error messages.
func scopeList() string {
	scopes := Scopes()
	names := make([]string, len(scopes))
	for i, s := range scopes {
		names[i] = s.String()
	}
	return strings.Join(names, ", ")
}
