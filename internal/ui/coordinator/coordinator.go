package coordinator

import (
	"fmt"

	"github.com/rs/zerolog"

	"filtergrid/internal/collection"
	"filtergrid/internal/config"
	"filtergrid/internal/control"
	"filtergrid/internal/domain"
	"filtergrid/internal/events"
	"filtergrid/internal/logic"
	"filtergrid/internal/projection"
	"filtergrid/internal/selection"
)

// Options configures a Coordinator
type Options struct {
	Mode     string // config.ModeList or config.ModeGrid
	Sort     logic.SortMode
	Filter   *logic.Filter
	Coalesce bool
	Log      zerolog.Logger
}

// Coordinator owns the entry list and everything layered over it: the
// filtered view, the table control, and whichever component tracks the
// selection.
type Coordinator struct {
	host  *collection.ObservableList[domain.Entry]
	view  *projection.SelectableFilterCollection[domain.Entry]
	table *control.Table
	grid  *selection.GridView // nil in list mode
	bus   *events.Bus

	mode   string
	filter *logic.Filter
	sort   logic.SortMode
	log    zerolog.Logger

	selectionChanges int
	status           string
	unsub            []func()
}

// New wires a coordinator. The table shows the filtered view; in list mode
// the view owns the selection, in grid mode a GridView does.
func New(opts Options) (*Coordinator, error) {
	if opts.Mode == "" {
		opts.Mode = config.ModeList
	}
	if opts.Mode != config.ModeList && opts.Mode != config.ModeGrid {
		return nil, fmt.Errorf("selection mode %q: %w", opts.Mode, config.ErrInvalidConfig)
	}

	bus := events.NewBus()
	c := &Coordinator{
		host:  collection.NewObservableList[domain.Entry](),
		table: control.NewTable(),
		bus:   bus,
		mode:  opts.Mode,
		log:   opts.Log.With().Str("component", "coordinator").Logger(),
	}
	c.view = projection.NewSelectableFilterCollection[domain.Entry](
		projection.WithBus(bus),
		projection.WithLogger(opts.Log),
		projection.WithCoalescedRangeAdds(opts.Coalesce),
	)
	if err := c.view.Attach(c.host); err != nil {
		return nil, err
	}
	if err := c.table.SetDataStore(c.view); err != nil {
		return nil, err
	}

	if c.mode == config.ModeGrid {
		c.grid = selection.NewGridView(c.table, bus, selection.WithLogger(opts.Log))
		if err := c.grid.SetDataStore(c.view); err != nil {
			return nil, err
		}
	} else {
		c.view.SetControl(c.table)
	}

	c.subscribe()
	c.SetFilter(opts.Filter)
	c.SetSort(opts.Sort)
	return c, nil
}

func (c *Coordinator) subscribe() {
	c.unsub = append(c.unsub,
		c.bus.Subscribe(events.TypeOf(selection.SelectionChangedEvent{}), func(interface{}) {
			c.selectionChanges++
		}),
		c.bus.Subscribe(events.TypeOf(projection.FilterChangedEvent{}), func(e interface{}) {
			ev := e.(projection.FilterChangedEvent)
			c.status = fmt.Sprintf("%d rows shown", ev.Rows)
		}),
		c.bus.Subscribe(events.TypeOf(projection.SortChangedEvent{}), func(interface{}) {
			c.status = "sorted by " + c.sort.String()
		}),
	)
}

// Close detaches every layer from the entry list
func (c *Coordinator) Close() {
	for _, unsub := range c.unsub {
		unsub()
	}
	c.unsub = nil
	if c.grid != nil {
		c.grid.Close()
	}
	c.view.Close()
	c.table.Close()
}

// Mode returns the selection mode
func (c *Coordinator) Mode() string { return c.mode }

// Table returns the control showing the rows
func (c *Coordinator) Table() *control.Table { return c.table }

// Bus returns the bus carrying selection, filter and sort events
func (c *Coordinator) Bus() events.EventBus { return c.bus }

// AddEntries appends a loaded batch
func (c *Coordinator) AddEntries(entries []domain.Entry) {
	c.host.Append(entries...)
}

// SetFilter replaces the filter; nil shows every entry
func (c *Coordinator) SetFilter(f *logic.Filter) {
	c.filter = f
	c.view.SetFilter(f.Predicate())
	c.clampCursor()
	c.log.Debug().Str("filter", f.String()).Int("rows", c.view.Len()).Msg("filter applied")
}

// Filter returns the active filter, or nil
func (c *Coordinator) Filter() *logic.Filter { return c.filter }

// SetSort changes the sort mode
func (c *Coordinator) SetSort(mode logic.SortMode) {
	c.sort = mode
	c.view.SetSort(mode.Comparator())
	c.clampCursor()
}

// Sort returns the sort mode
func (c *Coordinator) Sort() logic.SortMode { return c.sort }

// RowCount returns the number of visible rows
func (c *Coordinator) RowCount() int { return c.view.Len() }

// TotalCount returns the number of loaded entries
func (c *Coordinator) TotalCount() int { return c.host.Len() }

// Row returns the entry shown at row
func (c *Coordinator) Row(row int) (domain.Entry, bool) {
	item, ok := c.table.Row(row)
	if !ok {
		return domain.Entry{}, false
	}
	e, ok := item.(domain.Entry)
	return e, ok
}

// Cursor returns the focused row
func (c *Coordinator) Cursor() int { return c.table.Cursor() }

// MoveCursor moves the focus by delta rows
func (c *Coordinator) MoveCursor(delta int) { c.table.MoveCursor(delta) }

// SetCursor focuses row
func (c *Coordinator) SetCursor(row int) { c.table.SetCursor(row) }

// IsRowSelected reports whether the row is selected in the control
func (c *Coordinator) IsRowSelected(row int) bool {
	return c.table.IsRowSelected(row)
}

// ToggleCursor flips the focused row the way a click would, through the
// control.
func (c *Coordinator) ToggleCursor() {
	c.table.ToggleCursor()
}

// SelectAll selects every entry, hidden ones included
func (c *Coordinator) SelectAll() {
	if c.grid != nil {
		c.grid.SelectAll()
		return
	}
	c.view.SelectAll()
}

// UnselectAll clears the selection
func (c *Coordinator) UnselectAll() {
	if c.grid != nil {
		c.grid.UnselectAll()
		return
	}
	c.view.UnselectAll()
}

// SelectVisible replaces the selection with the visible rows
func (c *Coordinator) SelectVisible() {
	rows := make([]int, c.RowCount())
	for i := range rows {
		rows[i] = i
	}
	var err error
	if c.grid != nil {
		err = c.grid.SetSelectedRows(rows)
	} else {
		err = c.view.SetSelectedRows(rows)
	}
	if err != nil {
		c.log.Warn().Err(err).Msg("select visible")
	}
}

// RemoveCursor removes the focused entry from the list
func (c *Coordinator) RemoveCursor() error {
	if c.RowCount() == 0 {
		return nil
	}
	if err := c.view.RemoveAt(c.table.Cursor()); err != nil {
		return fmt.Errorf("remove entry: %w", err)
	}
	c.clampCursor()
	return nil
}

// Selected returns the selected entries in load order, hidden ones included
func (c *Coordinator) Selected() []domain.Entry {
	if c.grid == nil {
		return c.view.SelectedItems()
	}
	model := c.view.ModelItems()
	var out []domain.Entry
	for _, m := range c.grid.SelectedModelRows() {
		if m < len(model) {
			out = append(out, model[m])
		}
	}
	return out
}

// SelectedCount returns the number of selected entries
func (c *Coordinator) SelectedCount() int {
	return len(c.Selected())
}

// SelectionChanges counts the selection notifications seen so far
func (c *Coordinator) SelectionChanges() int { return c.selectionChanges }

// Status returns the last filter or sort message
func (c *Coordinator) Status() string { return c.status }

func (c *Coordinator) clampCursor() {
	c.table.SetCursor(c.table.Cursor())
}
