package guided

import (
	"strconv"

	"github.com/nhath/ezdv/internal/query"
)

// BeginFilter confirms the highlighted column and switches to the Filter
// section with a new pending filter on that attribute using Equals.
func (s *State) BeginFilter() bool {
	if len(s.columns) == 0 {
		return false
	}
	s.pending = &PendingFilter{
		Attribute: s.columns[s.columnIdx].Name,
		Operator:  query.Equals,
	}
	s.mode = ModeFilter
	return true
}

// Pending returns the filter being edited, if any.
func (s *State) Pending() (PendingFilter, bool) {
	if s.pending == nil {
		return PendingFilter{}, false
	}
	return *s.pending, true
}

// CycleOperator moves the pending filter's operator forward or backward.
func (s *State) CycleOperator(forward bool) {
	if s.pending == nil {
		return
	}
	if forward {
		s.pending.Operator = s.pending.Operator.Next()
	} else {
		s.pending.Operator = s.pending.Operator.Prev()
	}
}

// SetPendingValue replaces the pending filter's value.
func (s *State) SetPendingValue(v string) {
	if s.pending != nil {
		s.pending.Value = v
	}
}

// AppendPendingValue adds text to the pending filter's value.
func (s *State) AppendPendingValue(text string) {
	if s.pending != nil {
		s.pending.Value += text
	}
}

// BackspacePendingValue removes the last rune of the pending value.
func (s *State) BackspacePendingValue() {
	if s.pending == nil || s.pending.Value == "" {
		return
	}
	r := []rune(s.pending.Value)
	s.pending.Value = string(r[:len(r)-1])
}

// CommitFilter appends the pending filter to the active list and clears
// the pending slot. Filters missing a required value are rejected and stay
// pending.
func (s *State) CommitFilter() error {
	if s.pending == nil {
		return ErrNoPendingFilter
	}
	cond := s.pending.Condition()
	if !cond.Valid() {
		return ErrIncompleteFilter
	}
	if !cond.Operator.NeedsValue() {
		cond.Value = ""
	}
	s.filters = append(s.filters, cond)
	s.filterIdx = len(s.filters) - 1
	s.pending = nil
	return nil
}

// CancelFilter discards the pending filter without committing it.
func (s *State) CancelFilter() {
	s.pending = nil
}

// Filters returns a copy of the active filters.
func (s *State) Filters() []query.FilterCondition {
	out := make([]query.FilterCondition, len(s.filters))
	copy(out, s.filters)
	return out
}

// FilterCursor returns the highlighted filter index.
func (s *State) FilterCursor() int { return s.filterIdx }

// MoveFilterCursor moves the filter highlight by delta.
func (s *State) MoveFilterCursor(delta int) {
	s.filterIdx = clamp(s.filterIdx+delta, len(s.filters))
}

// RemoveFilter deletes the active filter at i.
func (s *State) RemoveFilter(i int) {
	if i < 0 || i >= len(s.filters) {
		return
	}
	s.filters = append(s.filters[:i:i], s.filters[i+1:]...)
	s.filterIdx = clamp(s.filterIdx, len(s.filters))
}

// RemoveCurrentFilter deletes the highlighted filter.
func (s *State) RemoveCurrentFilter() {
	s.RemoveFilter(s.filterIdx)
}

// PopFilter removes the most recently added filter.
func (s *State) PopFilter() {
	s.RemoveFilter(len(s.filters) - 1)
}

// OrderBy returns the current sort.
func (s *State) OrderBy() query.OrderBy { return s.orderBy }

// SetOrderBy sorts by attr; an empty attr removes the sort.
func (s *State) SetOrderBy(attr string, descending bool) {
	s.orderBy = query.OrderBy{Attribute: attr, Descending: descending}
}

// OrderByCurrentColumn sorts by the highlighted column, keeping direction.
func (s *State) OrderByCurrentColumn() {
	if len(s.columns) == 0 {
		return
	}
	s.orderBy.Attribute = s.columns[s.columnIdx].Name
}

// ToggleOrderDirection flips between ascending and descending.
func (s *State) ToggleOrderDirection() {
	s.orderBy.Descending = !s.orderBy.Descending
}

// Top returns the row cap, if set.
func (s *State) Top() (int, bool) {
	if s.top == nil {
		return 0, false
	}
	return *s.top, true
}

// SetTop sets the row cap; n <= 0 removes it.
func (s *State) SetTop(n int) {
	if n <= 0 {
		s.top = nil
		return
	}
	s.top = &n
}

// SetTopText parses a row cap typed by the user. Empty text removes it.
func (s *State) SetTopText(text string) error {
	if text == "" {
		s.top = nil
		return nil
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return err
	}
	s.SetTop(n)
	return nil
}
