package logic

import "filtergrid/internal/domain"

// Predicate decides whether an entry is visible
type Predicate func(domain.Entry) bool

// Comparator orders two entries; negative when a sorts first
type Comparator func(a, b domain.Entry) int

// FilterKind selects how a query is matched against entry text
type FilterKind string

const (
	KindSubstring FilterKind = "substring"
	KindFuzzy     FilterKind = "fuzzy"
	KindRegex     FilterKind = "regex"
)

// SourcePrefix restricts a query to entries whose source contains the
// following token, e.g. "src:main.go panic".
const SourcePrefix = "src:"
