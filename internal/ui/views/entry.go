package views

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"filtergrid/internal/domain"
)

// RowState is one visible row
type RowState struct {
	Entry      domain.Entry
	Selected   bool
	Cursor     bool
	Highlights []int // byte offsets of matched characters in Entry.Text
}

// EntryRenderer renders entry rows
type EntryRenderer struct {
	styles          *Styles
	showLineNumbers bool
}

// NewEntryRenderer creates a new entry renderer
func NewEntryRenderer(styles *Styles, showLineNumbers bool) *EntryRenderer {
	return &EntryRenderer{styles: styles, showLineNumbers: showLineNumbers}
}

// RenderEntry renders one row fitted to width
func (r *EntryRenderer) RenderEntry(row RowState, width int) string {
	var b strings.Builder

	if row.Cursor {
		b.WriteString(r.styles.Cursor.Render("›"))
	} else {
		b.WriteString(" ")
	}
	if row.Selected {
		b.WriteString(r.styles.Checkbox.Render(" [x] "))
	} else {
		b.WriteString(" [ ] ")
	}
	used := 6

	if r.showLineNumbers {
		loc := row.Entry.Location() + "  "
		b.WriteString(r.styles.Location.Render(loc))
		used += runewidth.StringWidth(loc)
	}

	text := row.Entry.Text
	if avail := width - used; avail > 0 && runewidth.StringWidth(text) > avail {
		text = runewidth.Truncate(text, avail, "…")
	}
	b.WriteString(r.highlight(text, row.Highlights))

	line := b.String()
	if row.Selected {
		return r.styles.SelectionBg.Render(line)
	}
	return line
}

// highlight styles the characters at the matched byte offsets
func (r *EntryRenderer) highlight(text string, positions []int) string {
	if len(positions) == 0 {
		return text
	}
	matched := make(map[int]struct{}, len(positions))
	for _, p := range positions {
		matched[p] = struct{}{}
	}

	var b strings.Builder
	for i, ch := range text {
		if _, ok := matched[i]; ok {
			b.WriteString(r.styles.Highlight.Render(string(ch)))
		} else {
			b.WriteRune(ch)
		}
	}
	return b.String()
}
