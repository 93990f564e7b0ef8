package selection

import (
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"filtergrid/internal/collection"
	"filtergrid/internal/control"
	"filtergrid/internal/events"
)

// ErrRowOutOfRange is returned for grid rows outside [0, RowCount)
var ErrRowOutOfRange = errors.New("row out of range")

// IndexMapper translates between the rows a grid shows and the model
// positions behind them.
type IndexMapper interface {
	HasFilterOrSort() bool
	ViewToModel(view int) int
	ModelToView(model int) (int, bool)
}

// ModelStore is a filtered or sorted data store: it maps indices and reports
// model-space changes separately from the rows it shows.
type ModelStore interface {
	IndexMapper
	ModelSource() collection.Untyped
	SubscribeRebuild(fn func()) func()
}

// Option configures a GridView
type Option func(*GridView)

// WithLogger sets the logger used for debug output
func WithLogger(log zerolog.Logger) Option {
	return func(g *GridView) {
		g.log = log
	}
}

// GridView keeps the selection of a grid in model space, so it survives
// filtering and sorting of the rows, and reports every change once.
type GridView struct {
	grid    control.Grid
	bus     events.EventBus
	log     zerolog.Logger
	tracker *Tracker

	mapper     IndexMapper
	adapter    *collection.Adapter[any]
	modelCount int

	selected *collection.IndexSet
	all      bool

	unsubControl func()
	unsubRebuild func()
}

// NewGridView binds a selection to grid. Selection changes are published on
// bus as SelectionChangedEvent.
func NewGridView(grid control.Grid, bus events.EventBus, opts ...Option) *GridView {
	if bus == nil {
		bus = &events.NullBus{}
	}
	g := &GridView{
		grid:     grid,
		bus:      bus,
		log:      zerolog.Nop(),
		selected: collection.NewIndexSet(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.tracker = NewTracker(g.publish, g.log)
	g.adapter = collection.NewAdapter[any](gridHandler{g})
	g.modelCount = grid.RowCount()
	g.unsubControl = grid.OnSelectionChanged(func() {
		g.SuppressSelectionChanged()
	})
	return g
}

// SetDataStore binds the model behind the grid rows. A ModelStore is tracked
// in model space; any other Untyped store is tracked with rows equal to
// model indices; nil drops the binding. The selection starts empty.
func (g *GridView) SetDataStore(store any) error {
	var (
		mapper IndexMapper
		source any = store
	)
	ms, isModelStore := store.(ModelStore)
	if isModelStore {
		mapper = ms
		source = ms.ModelSource()
	}

	if err := g.adapter.Attach(source); err != nil {
		return fmt.Errorf("set data store: %w", err)
	}
	if g.unsubRebuild != nil {
		g.unsubRebuild()
		g.unsubRebuild = nil
	}
	g.mapper = mapper
	if isModelStore {
		g.unsubRebuild = ms.SubscribeRebuild(g.resync)
	}
	return nil
}

// Close stops tracking the grid and the data store
func (g *GridView) Close() {
	if g.unsubControl != nil {
		g.unsubControl()
		g.unsubControl = nil
	}
	if g.unsubRebuild != nil {
		g.unsubRebuild()
		g.unsubRebuild = nil
	}
	g.adapter.Detach()
}

// State returns the phase of the echo-suppression state machine
func (g *GridView) State() State {
	return g.tracker.State()
}

// ChangeSelection runs action as a library-driven change: control callbacks
// raised meanwhile are ignored and one SelectionChangedEvent follows.
func (g *GridView) ChangeSelection(action func()) {
	g.tracker.ChangeSelection(action)
}

// SuppressSelectionChanged handles a selection-changed callback from the
// grid. It reports true for echoes of library-driven changes; user changes
// are read back from the grid.
func (g *GridView) SuppressSelectionChanged() bool {
	return g.tracker.Suppress(g.rederive)
}

// SelectedRows returns the selected grid rows in ascending order. Selected
// items hidden by a filter are not reported.
func (g *GridView) SelectedRows() []int {
	rows := g.grid.RowCount()
	if g.all {
		out := make([]int, rows)
		for i := range out {
			out[i] = i
		}
		return out
	}
	out := make([]int, 0, g.selected.Len())
	g.selected.Ascend(func(m int) bool {
		if v, ok := g.toView(m); ok {
			out = append(out, v)
		}
		return true
	})
	slices.Sort(out)
	return out
}

// SelectedModelRows returns the selected model indices in ascending order,
// hidden ones included.
func (g *GridView) SelectedModelRows() []int {
	if g.untracked() {
		g.modelCount = g.grid.RowCount()
	}
	if g.all {
		out := make([]int, g.modelCount)
		for i := range out {
			out[i] = i
		}
		return out
	}
	return g.selected.Values()
}

// IsRowSelected reports whether the grid row is selected
func (g *GridView) IsRowSelected(row int) bool {
	if row < 0 || row >= g.grid.RowCount() {
		return false
	}
	return g.all || g.selected.Has(g.toModel(row))
}

// SetSelectedRows replaces the whole selection with rows. Nothing changes
// when any row is out of range.
func (g *GridView) SetSelectedRows(rows []int) error {
	for _, r := range rows {
		if err := g.checkRow(r); err != nil {
			return err
		}
	}
	g.ChangeSelection(func() {
		g.all = false
		g.selected.Clear()
		for _, r := range rows {
			g.selected.Add(g.toModel(r))
		}
		g.grid.UnselectAll()
		for _, r := range rows {
			g.grid.SelectRow(r)
		}
	})
	return nil
}

// SelectRow adds a grid row to the selection
func (g *GridView) SelectRow(row int) error {
	if err := g.checkRow(row); err != nil {
		return err
	}
	g.ChangeSelection(func() {
		if !g.all {
			g.selected.Add(g.toModel(row))
		}
		g.grid.SelectRow(row)
	})
	return nil
}

// UnselectRow removes a grid row from the selection
func (g *GridView) UnselectRow(row int) error {
	if err := g.checkRow(row); err != nil {
		return err
	}
	g.ChangeSelection(func() {
		g.materialize()
		g.selected.Remove(g.toModel(row))
		g.grid.UnselectRow(row)
	})
	return nil
}

// SelectAll selects every model row, hidden ones included
func (g *GridView) SelectAll() {
	g.ChangeSelection(func() {
		g.all = true
		g.selected.Clear()
		g.grid.SelectAll()
	})
}

// UnselectAll clears the selection
func (g *GridView) UnselectAll() {
	g.ChangeSelection(func() {
		g.all = false
		g.selected.Clear()
		g.grid.UnselectAll()
	})
}

func (g *GridView) publish() {
	g.bus.Publish(SelectionChangedEvent{Source: g})
}

func (g *GridView) checkRow(row int) error {
	if n := g.grid.RowCount(); row < 0 || row >= n {
		return fmt.Errorf("row %d with %d rows: %w", row, n, ErrRowOutOfRange)
	}
	return nil
}

func (g *GridView) mapped() bool {
	return g.mapper != nil && g.mapper.HasFilterOrSort()
}

func (g *GridView) toModel(row int) int {
	if g.mapped() {
		return g.mapper.ViewToModel(row)
	}
	return row
}

func (g *GridView) toView(model int) (int, bool) {
	if g.mapped() {
		return g.mapper.ModelToView(model)
	}
	if model < g.grid.RowCount() {
		return model, true
	}
	return -1, false
}

// untracked reports that no data store reports changes, so the grid rows
// are the model
func (g *GridView) untracked() bool {
	return g.adapter.Tracking() == collection.TrackingNone
}

// materialize turns the all flag into explicit indices
func (g *GridView) materialize() {
	if !g.all {
		return
	}
	if g.untracked() {
		g.modelCount = g.grid.RowCount()
	}
	g.all = false
	g.selected.Clear()
	for i := 0; i < g.modelCount; i++ {
		g.selected.Add(i)
	}
}

// rederive reads a user change back from the grid. Selected model indices
// the grid cannot show are kept.
func (g *GridView) rederive() bool {
	rows := g.grid.SelectedRows()
	count := g.grid.RowCount()

	if g.untracked() {
		g.modelCount = count
	} else if !g.inStep(count) {
		// the grid and the data store disagree on the rows shown
		return false
	}
	for _, r := range rows {
		if r < 0 || r >= count {
			return false
		}
	}
	if g.all && len(rows) == count {
		return false
	}

	next := collection.NewIndexSet()
	if g.mapped() {
		hidden := func(m int) {
			if _, ok := g.mapper.ModelToView(m); !ok {
				next.Add(m)
			}
		}
		if g.all {
			for m := 0; m < g.modelCount; m++ {
				hidden(m)
			}
		} else {
			g.selected.Ascend(func(m int) bool {
				hidden(m)
				return true
			})
		}
	}
	for _, r := range rows {
		next.Add(g.toModel(r))
	}

	if !g.all && slices.Equal(next.Values(), g.selected.Values()) {
		return false
	}
	g.all = false
	g.selected = next
	g.log.Debug().Int("selected", next.Len()).Msg("selection read back from grid")
	return true
}

// inStep reports whether the grid shows as many rows as the data store
func (g *GridView) inStep(count int) bool {
	if g.mapper == nil {
		return count == g.modelCount
	}
	if l, ok := g.mapper.(interface{ Len() int }); ok {
		return count == l.Len()
	}
	return true
}

// resync pushes the visible selection back after the grid reloaded its rows
func (g *GridView) resync() {
	g.tracker.Sync(func() {
		g.grid.UnselectAll()
		if g.all {
			g.grid.SelectAll()
			return
		}
		g.selected.Ascend(func(m int) bool {
			if v, ok := g.toView(m); ok {
				g.grid.SelectRow(v)
			}
			return true
		})
	})
}

// gridHandler applies model-space changes to the selected indices
type gridHandler struct {
	g *GridView
}

func (h gridHandler) AddItem(item any) {
	h.AddRange([]any{item})
}

func (h gridHandler) AddRange(items []any) {
	h.g.materialize()
	h.g.modelCount += len(items)
}

func (h gridHandler) InsertItem(index int, item any) {
	h.g.materialize()
	h.g.selected.ShiftFrom(index, 1)
	h.g.modelCount++
}

func (h gridHandler) RemoveItem(index int, item any) {
	g := h.g
	wasSelected := g.all
	g.materialize()
	wasSelected = g.selected.RemoveAndShift(index) || wasSelected
	g.modelCount--
	if wasSelected {
		g.tracker.Raise()
	}
}

// ReplaceItem implements collection.Replacer: the replacement starts
// unselected and nothing shifts
func (h gridHandler) ReplaceItem(index int, oldItem, item any) {
	g := h.g
	wasSelected := g.all
	g.materialize()
	wasSelected = g.selected.Remove(index) || wasSelected
	if wasSelected {
		g.tracker.Raise()
	}
}

func (h gridHandler) RemoveAllItems() {
	h.InitializeCollection(nil)
}

func (h gridHandler) InitializeCollection(items []any) {
	g := h.g
	had := g.all || g.selected.Len() > 0
	g.all = false
	g.selected.Clear()
	g.modelCount = len(items)
	if had {
		g.tracker.Raise()
	}
}
