package input

import (
	"filtergrid/internal/logic"
	"filtergrid/internal/ui/coordinator"
)

// ModelContext implements the Context interface for the input handler
type ModelContext struct {
	Coord *coordinator.Coordinator
}

func (c *ModelContext) CursorRow() int {
	return c.Coord.Cursor()
}

func (c *ModelContext) RowCount() int {
	return c.Coord.RowCount()
}

// HasSelection counts hidden entries too
func (c *ModelContext) HasSelection() bool {
	return c.Coord.SelectedCount() > 0
}

func (c *ModelContext) SelectedCount() int {
	return c.Coord.SelectedCount()
}

func (c *ModelContext) CurrentSort() logic.SortMode {
	return c.Coord.Sort()
}

// FilterQuery returns the text of the active filter, or ""
func (c *ModelContext) FilterQuery() string {
	if f := c.Coord.Filter(); f != nil {
		return f.Query
	}
	return ""
}
