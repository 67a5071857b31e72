package guided

import (
	"context"

	"github.com/nhath/ezdv/internal/query"
)

// Executor runs a query string (or an absolute next link) and returns the
// raw response body.
type Executor interface {
	Execute(ctx context.Context, queryString string) ([]byte, error)
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, queryString string) ([]byte, error)

// Execute calls f.
func (f ExecutorFunc) Execute(ctx context.Context, queryString string) ([]byte, error) {
	return f(ctx, queryString)
}

// Definition assembles the current selections into a query definition.
func (s *State) Definition() query.QueryDefinition {
	set, _ := query.ResolveEntitySetName(s.entity.LogicalName, s.entity.EntitySetName)
	def := query.QueryDefinition{
		EntityName:    s.entity.LogicalName,
		EntitySetName: set,
		OrderBy:       s.orderBy,
	}
	def.AddSelect(s.SelectedNames()...)
	def.SetFilters(s.filters)
	if s.top != nil {
		def.SetTop(*s.top)
	}
	return def
}

// EntitySetGuessed reports whether the entity set name is a pluralization
// guess rather than catalog data.
func (s *State) EntitySetGuessed() bool {
	_, authoritative := query.ResolveEntitySetName(s.entity.LogicalName, s.entity.EntitySetName)
	return !authoritative
}

// QueryString renders the current definition.
func (s *State) QueryString() string {
	return s.Definition().BuildQueryString()
}

// Result returns the latest result, or nil before the first execution.
func (s *State) Result() *query.QueryResult { return s.result }

// Err returns the last transport error. It is cleared by the next
// successful request.
func (s *State) Err() error { return s.lastErr }

// InFlight reports whether a request is outstanding.
func (s *State) InFlight() bool { return s.inFlight }

// BeginExecute focuses Results, marks a request outstanding and returns
// the query string to run.
func (s *State) BeginExecute() (string, error) {
	if s.inFlight {
		return "", ErrBusy
	}
	if s.entity.LogicalName == "" {
		return "", ErrNoEntity
	}
	s.mode = ModeResults
	s.inFlight = true
	return s.QueryString(), nil
}

// CompleteExecute records the outcome of the request started by
// BeginExecute. A transport error leaves the previous result in place.
func (s *State) CompleteExecute(raw []byte, err error) {
	s.inFlight = false
	if err != nil {
		s.lastErr = err
		return
	}
	res := query.Parse(raw)
	res.RawJSON = string(raw)
	s.result = &res
	s.lastErr = nil
}

// Execute runs the current query synchronously through exec.
func (s *State) Execute(ctx context.Context, exec Executor) error {
	qs, err := s.BeginExecute()
	if err != nil {
		return err
	}
	raw, err := exec.Execute(ctx, qs)
	s.CompleteExecute(raw, err)
	return err
}

// BeginLoadMore marks a page request outstanding and returns the
// continuation link to fetch.
func (s *State) BeginLoadMore() (string, error) {
	if s.inFlight {
		return "", ErrBusy
	}
	if s.result == nil || !s.result.HasMore() {
		return "", ErrNoNextPage
	}
	s.inFlight = true
	return s.result.NextLink, nil
}

// CompleteLoadMore merges the fetched page into the current result.
func (s *State) CompleteLoadMore(raw []byte, err error) {
	s.inFlight = false
	if err != nil {
		s.lastErr = err
		return
	}
	if s.result == nil {
		return
	}
	res := query.Extend(*s.result, raw)
	s.result = &res
	s.lastErr = nil
}

// LoadMore fetches and merges the next page synchronously.
func (s *State) LoadMore(ctx context.Context, exec Executor) error {
	link, err := s.BeginLoadMore()
	if err != nil {
		return err
	}
	raw, err := exec.Execute(ctx, link)
	s.CompleteLoadMore(raw, err)
	return err
}
