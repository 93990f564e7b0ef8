package logic

import (
	"cmp"
	"fmt"
	"strings"
	"unicode/utf8"

	"filtergrid/internal/domain"
)

// SortMode represents different sort modes
type SortMode int

const (
	SortNone SortMode = iota
	SortByText
	SortByLength
	SortBySource
)

// SortModes lists the modes in the order the sort menu shows them
var SortModes = []SortMode{SortNone, SortByText, SortByLength, SortBySource}

var sortNames = map[SortMode]string{
	SortNone:     "none",
	SortByText:   "text",
	SortByLength: "length",
	SortBySource: "source",
}

func (m SortMode) String() string {
	if name, ok := sortNames[m]; ok {
		return name
	}
	return fmt.Sprintf("SortMode(%d)", int(m))
}

// ParseSortMode maps a config or flag value to a SortMode
func ParseSortMode(s string) (SortMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SortNone, nil
	}
	for mode, name := range sortNames {
		if name == s {
			return mode, nil
		}
	}
	return SortNone, fmt.Errorf("sort mode %q: %w", s, ErrInvalidSort)
}

// Next cycles to the following mode
func (m SortMode) Next() SortMode {
	return SortModes[(int(m)+1)%len(SortModes)]
}

// Comparator returns the ordering for m, or nil for SortNone. Ties fall back
// to load order so the view is stable.
func (m SortMode) Comparator() Comparator {
	switch m {
	case SortByText:
		return func(a, b domain.Entry) int {
			return cmp.Or(
				strings.Compare(strings.ToLower(a.Text), strings.ToLower(b.Text)),
				cmp.Compare(a.ID, b.ID),
			)
		}
	case SortByLength:
		return func(a, b domain.Entry) int {
			return cmp.Or(
				cmp.Compare(utf8.RuneCountInString(a.Text), utf8.RuneCountInString(b.Text)),
				cmp.Compare(a.ID, b.ID),
			)
		}
	case SortBySource:
		return func(a, b domain.Entry) int {
			return cmp.Or(
				strings.Compare(a.Source, b.Source),
				cmp.Compare(a.Line, b.Line),
				cmp.Compare(a.ID, b.ID),
			)
		}
	default:
		return nil
	}
}
