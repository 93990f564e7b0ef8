package logic

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/sahilm/fuzzy"

	"filtergrid/internal/domain"
)

var (
	// ErrInvalidFilter is returned for unknown kinds and bad patterns
	ErrInvalidFilter = errors.New("invalid filter")
	ErrInvalidSort   = errors.New("invalid sort mode")
)

// ParseFilterKind maps a config or flag value to a FilterKind
func ParseFilterKind(s string) (FilterKind, error) {
	switch k := FilterKind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindSubstring, KindFuzzy, KindRegex:
		return k, nil
	case "":
		return KindSubstring, nil
	default:
		return "", fmt.Errorf("filter kind %q: %w", s, ErrInvalidFilter)
	}
}

// Filter is a compiled filter query
type Filter struct {
	Kind   FilterKind
	Query  string
	source string // lower-cased src: token
	text   string // lower-cased for substring, raw otherwise
	re     *regexp.Regexp
}

// NewFilter compiles query. A blank query yields a nil Filter, which matches
// everything.
func NewFilter(kind FilterKind, query string) (*Filter, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	f := &Filter{Kind: kind, Query: query}
	text := query
	if strings.HasPrefix(strings.ToLower(text), SourcePrefix) {
		rest := text[len(SourcePrefix):]
		token, remainder, _ := strings.Cut(rest, " ")
		f.source = strings.ToLower(token)
		text = strings.TrimSpace(remainder)
	}

	switch kind {
	case KindSubstring:
		f.text = strings.ToLower(text)
	case KindFuzzy:
		f.text = text
	case KindRegex:
		f.text = text
		if text != "" {
			re, err := regexp.Compile("(?i)" + text)
			if err != nil {
				return nil, fmt.Errorf("regex %q: %w: %v", text, ErrInvalidFilter, err)
			}
			f.re = re
		}
	default:
		return nil, fmt.Errorf("filter kind %q: %w", kind, ErrInvalidFilter)
	}
	return f, nil
}

// Match reports whether e passes the filter
func (f *Filter) Match(e domain.Entry) bool {
	if f == nil {
		return true
	}
	if f.source != "" && !strings.Contains(strings.ToLower(e.Source), f.source) {
		return false
	}
	if f.text == "" {
		return true
	}
	switch f.Kind {
	case KindFuzzy:
		return len(fuzzy.Find(f.text, []string{e.Text})) > 0
	case KindRegex:
		return f.re.MatchString(e.Text)
	default:
		return strings.Contains(strings.ToLower(e.Text), f.text)
	}
}

// Predicate returns Match as a projection filter, or nil for a nil Filter
func (f *Filter) Predicate() Predicate {
	if f == nil {
		return nil
	}
	return f.Match
}

// Positions returns the byte offsets in text that the query matched, for
// highlighting. It returns nil when nothing matched.
func (f *Filter) Positions(text string) []int {
	if f == nil || f.text == "" {
		return nil
	}
	switch f.Kind {
	case KindFuzzy:
		matches := fuzzy.Find(f.text, []string{text})
		if len(matches) == 0 {
			return nil
		}
		return matches[0].MatchedIndexes
	case KindRegex:
		var out []int
		for _, loc := range f.re.FindAllStringIndex(text, -1) {
			for i := loc[0]; i < loc[1]; i++ {
				out = append(out, i)
			}
		}
		return out
	default:
		start := strings.Index(strings.ToLower(text), f.text)
		if start < 0 {
			return nil
		}
		out := make([]int, len(f.text))
		for i := range out {
			out[i] = start + i
		}
		return out
	}
}

// String renders the filter for the status bar
func (f *Filter) String() string {
	if f == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Query)
}
