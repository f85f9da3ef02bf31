package search

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// IdentifierKind says how a profile identifier filter is matched.
type IdentifierKind int

const (
	// Partial identifiers match as a substring of the textual id.
	Partial IdentifierKind = iota
	// Exact identifiers are full 8-4-4-4-12 hex ids and match by equality.
	Exact
)

func (k IdentifierKind) String() string {
	if k == Exact {
		return "exact"
	}
	return "partial"
}

var canonicalID = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// ClassifyIdentifier reports Exact for a canonical hyphenated hex id in any
// letter case and Partial for everything else, including the empty string.
func ClassifyIdentifier(s string) IdentifierKind {
	if canonicalID.MatchString(s) {
		return Exact
	}
	return Partial
}

// IdentifierMatch is a classified profile identifier filter.
type IdentifierMatch struct {
	Value string
	Kind  IdentifierKind
}

func NewIdentifierMatch(value string) *IdentifierMatch {
	return &IdentifierMatch{Value: value, Kind: ClassifyIdentifier(value)}
}

// Matches applies the filter to id, ignoring letter case.
func (m *IdentifierMatch) Matches(id uuid.UUID) bool {
	s := id.String()
	if m.Kind == Exact {
		return strings.EqualFold(s, m.Value)
	}
	return strings.Contains(s, strings.ToLower(m.Value))
}
