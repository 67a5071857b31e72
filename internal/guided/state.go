// Package guided sequences the user through column, filter and option
// choices and owns the resulting query and its result.
package guided

import (
	"errors"

	"github.com/nhath/ezdv/internal/query"
)

// Mode is the section of the guided builder that has focus.
type Mode int

const (
	ModeColumns Mode = iota
	ModeFilter
	ModeOptions
	ModeResults
)

var modeNames = [...]string{"Columns", "Filters", "Options", "Results"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "Unknown"
	}
	return modeNames[m]
}

// Modes returns the sections in navigation order.
func Modes() []Mode {
	return []Mode{ModeColumns, ModeFilter, ModeOptions, ModeResults}
}

var (
	ErrNoEntity         = errors.New("select an entity first")
	ErrIncompleteFilter = errors.New("filter needs a value")
	ErrNoPendingFilter  = errors.New("no filter in progress")
	ErrBusy             = errors.New("a request is already in progress")
	ErrNoNextPage       = errors.New("no more pages")
)

// Entity identifies the entity being queried.
type Entity struct {
	LogicalName   string
	EntitySetName string // empty when the catalog did not supply one
}

// Attribute is a queryable column of the entity.
type Attribute struct {
	Name        string
	DisplayName string
	Type        string
}

// Column pairs an attribute with its selection flag, so selection survives
// independently of any list held elsewhere.
type Column struct {
	Attribute
	Selected bool
}

// PendingFilter is the filter being edited before it is committed.
type PendingFilter struct {
	Attribute string
	Operator  query.FilterOperator
	Value     string
}

// Condition converts the pending filter into a condition.
func (p PendingFilter) Condition() query.FilterCondition {
	return query.FilterCondition{Attribute: p.Attribute, Operator: p.Operator, Value: p.Value}
}

// State is the guided query state for one entity.
type State struct {
	mode   Mode
	entity Entity

	columns   []Column
	columnIdx int

	pending   *PendingFilter
	filters   []query.FilterCondition
	filterIdx int

	orderBy query.OrderBy
	top     *int

	result   *query.QueryResult
	lastErr  error
	inFlight bool
}

// New returns state for entity with every attribute unselected.
func New(entity Entity, attrs []Attribute) *State {
	s := &State{}
	s.Reset(entity, attrs)
	return s
}

// Reset switches to a different entity, discarding every selection, filter
// and result.
func (s *State) Reset(entity Entity, attrs []Attribute) {
	*s = State{entity: entity}
	s.columns = make([]Column, len(attrs))
	for i, a := range attrs {
		s.columns[i] = Column{Attribute: a}
	}
}

// Clear zeroes selections, filters, options and results and returns to
// the Columns section. The entity and its attributes are kept.
func (s *State) Clear() {
	for i := range s.columns {
		s.columns[i].Selected = false
	}
	s.mode = ModeColumns
	s.columnIdx = 0
	s.pending = nil
	s.filters = nil
	s.filterIdx = 0
	s.orderBy = query.OrderBy{}
	s.top = nil
	s.result = nil
	s.lastErr = nil
}

// Mode returns the focused section.
func (s *State) Mode() Mode { return s.mode }

// Entity returns the entity being queried.
func (s *State) Entity() Entity { return s.entity }

// NextSection moves focus to the following section. It returns true when
// the move enters Results, in which case the caller must start execution.
func (s *State) NextSection() bool {
	s.mode = (s.mode + 1) % Mode(len(modeNames))
	return s.mode == ModeResults
}

// SetMode focuses a section directly without triggering execution.
func (s *State) SetMode(m Mode) {
	if m >= ModeColumns && m <= ModeResults {
		s.mode = m
	}
}

// Columns returns a copy of the column list.
func (s *State) Columns() []Column {
	out := make([]Column, len(s.columns))
	copy(out, s.columns)
	return out
}

// ColumnCursor returns the highlighted column index.
func (s *State) ColumnCursor() int { return s.columnIdx }

// MoveColumnCursor moves the highlight by delta, clamped to the list.
func (s *State) MoveColumnCursor(delta int) {
	s.columnIdx = clamp(s.columnIdx+delta, len(s.columns))
}

// ToggleColumn flips the selection of the column at i.
func (s *State) ToggleColumn(i int) {
	if i >= 0 && i < len(s.columns) {
		s.columns[i].Selected = !s.columns[i].Selected
	}
}

// ToggleCurrentColumn flips the highlighted column.
func (s *State) ToggleCurrentColumn() {
	s.ToggleColumn(s.columnIdx)
}

// SelectAll selects every column.
func (s *State) SelectAll() {
	for i := range s.columns {
		s.columns[i].Selected = true
	}
}

// ClearSelection deselects every column.
func (s *State) ClearSelection() {
	for i := range s.columns {
		s.columns[i].Selected = false
	}
}

// SelectedNames returns the selected attribute names in list order.
func (s *State) SelectedNames() []string {
	var names []string
	for _, c := range s.columns {
		if c.Selected {
			names = append(names, c.Name)
		}
	}
	return names
}

// SelectByName marks the named attributes selected. Unknown names are
// ignored.
func (s *State) SelectByName(names ...string) {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	for i := range s.columns {
		if want[s.columns[i].Name] {
			s.columns[i].Selected = true
		}
	}
}

func clamp(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
