package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width  int
	Height int

	Rows           []RowState // the rows inside the viewport
	ViewportOffset int
	Shown          int // rows in the filtered view
	Total          int // loaded entries
	Selected       int // selected entries, hidden ones included

	SelectionMode string
	SortName      string
	FilterLabel   string

	InputMode       string // "", "filter" or "sort"
	Prompt          string
	TextInput       string
	SortOptions     []string
	SortOptionIndex int

	Loading       bool
	LoadedCount   int
	StatusMessage string
	ErrorMessage  string

	ShowHelp bool
	HelpView string // short or full key help
}

// Renderer handles all view rendering
type Renderer struct {
	styles      *Styles
	entryRender *EntryRenderer
}

// NewRenderer creates a new renderer
func NewRenderer(showLineNumbers bool) *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:      styles,
		entryRender: NewEntryRenderer(styles, showLineNumbers),
	}
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	width := state.Width
	if width <= 0 {
		width = 80
	}
	inner := width - 4 // Main padding

	var content strings.Builder
	content.WriteString(r.renderTitle(state, inner))
	content.WriteString("\n")

	switch state.InputMode {
	case "filter":
		content.WriteString(r.styles.Prompt.Render(state.Prompt) + state.TextInput)
	case "sort":
		content.WriteString(r.renderSortOptions(state))
	default:
		if state.FilterLabel != "" {
			content.WriteString(r.styles.Filter.Render("[" + state.FilterLabel + "]"))
		}
	}
	content.WriteString("\n\n")

	if state.ShowHelp {
		box := r.styles.HelpBox.Render(state.HelpView)
		content.WriteString(lipgloss.PlaceHorizontal(inner, lipgloss.Center, box))
	} else {
		content.WriteString(r.renderRows(state, inner))
	}

	content.WriteString("\n")
	content.WriteString(r.renderStatus(state))
	if !state.ShowHelp {
		content.WriteString("\n")
		content.WriteString(r.styles.Help.Render(state.HelpView))
	}

	style := r.styles.Main
	if state.Height > 0 {
		style = style.MaxHeight(state.Height)
	}
	return style.Render(content.String())
}

func (r *Renderer) renderTitle(state ViewState, width int) string {
	logo := r.styles.Title.Render("filtergrid")

	var indicators []string
	if state.Loading {
		spinner := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
		frame := int(time.Now().UnixMilli()/80) % len(spinner)
		indicators = append(indicators, fmt.Sprintf("%s Loading %d", spinner[frame], state.LoadedCount))
	}
	indicators = append(indicators,
		fmt.Sprintf("%d/%d shown", state.Shown, state.Total),
		fmt.Sprintf("%d selected", state.Selected),
		"sort: "+state.SortName,
		state.SelectionMode,
	)
	right := r.styles.Dim.Render(strings.Join(indicators, " | "))

	padding := width - lipgloss.Width(logo) - lipgloss.Width(right)
	if padding < 2 {
		padding = 2
	}
	return logo + strings.Repeat(" ", padding) + right
}

func (r *Renderer) renderSortOptions(state ViewState) string {
	parts := make([]string, len(state.SortOptions))
	for i, name := range state.SortOptions {
		if i == state.SortOptionIndex {
			parts[i] = r.styles.MenuActive.Render("▸" + name)
		} else {
			parts[i] = r.styles.MenuItem.Render(name)
		}
	}
	return r.styles.Prompt.Render("Sort:") + strings.Join(parts, "")
}

func (r *Renderer) renderRows(state ViewState, width int) string {
	if len(state.Rows) == 0 {
		switch {
		case state.Loading:
			return r.styles.Dim.Render("Loading...")
		case state.Total == 0:
			return r.styles.Dim.Render("No entries.")
		default:
			return r.styles.Dim.Render("No entries match the filter.")
		}
	}

	lines := make([]string, 0, len(state.Rows)+2)
	if state.ViewportOffset > 0 {
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↑ %d more", state.ViewportOffset)))
	}
	for _, row := range state.Rows {
		lines = append(lines, r.entryRender.RenderEntry(row, width))
	}
	if below := state.Shown - state.ViewportOffset - len(state.Rows); below > 0 {
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↓ %d more", below)))
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) renderStatus(state ViewState) string {
	switch {
	case state.ErrorMessage != "":
		return r.styles.StatusError.Render(state.ErrorMessage)
	case state.Loading:
		return r.styles.StatusLoading.Render(state.StatusMessage)
	case state.StatusMessage != "":
		return r.styles.StatusSuccess.Render(state.StatusMessage)
	default:
		return ""
	}
}
