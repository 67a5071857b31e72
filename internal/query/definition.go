// Package query turns guided selections into OData query strings and turns
// OData responses back into a tabular result.
package query

import (
	"strconv"
	"strings"
)

// OrderBy is a single-attribute sort.
type OrderBy struct {
	Attribute  string
	Descending bool
}

// String renders the $orderby value, or "" when no attribute is set.
func (o OrderBy) String() string {
	if o.Attribute == "" {
		return ""
	}
	if o.Descending {
		return o.Attribute + " desc"
	}
	return o.Attribute + " asc"
}

// QueryDefinition holds the parts of a read query against one entity set.
type QueryDefinition struct {
	EntityName    string
	EntitySetName string
	Select        []string // empty selects all columns
	Filter        string
	OrderBy       OrderBy
	Top           *int
	Skip          *int
}

// AddSelect appends names not already selected, keeping first-seen order.
func (q *QueryDefinition) AddSelect(names ...string) {
	seen := make(map[string]bool, len(q.Select))
	for _, s := range q.Select {
		seen[s] = true
	}
	for _, n := range names {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		q.Select = append(q.Select, n)
	}
}

// SetFilters replaces the filter expression with the conjunction of conds.
func (q *QueryDefinition) SetFilters(conds []FilterCondition) {
	q.Filter = JoinFilters(conds)
}

// SetTop sets the row cap; n <= 0 clears it.
func (q *QueryDefinition) SetTop(n int) {
	if n <= 0 {
		q.Top = nil
		return
	}
	q.Top = &n
}

// SetSkip sets the row offset; n <= 0 clears it.
func (q *QueryDefinition) SetSkip(n int) {
	if n <= 0 {
		q.Skip = nil
		return
	}
	q.Skip = &n
}

// BuildQueryString renders the definition as "<set>?<clauses>". Clauses are
// emitted in the order $select, $filter, $orderby, $top, $skip and only when
// set; with none the bare entity set name is returned.
func (q QueryDefinition) BuildQueryString() string {
	var parts []string

	if len(q.Select) > 0 {
		parts = append(parts, "$select="+strings.Join(q.Select, ","))
	}
	if q.Filter != "" {
		parts = append(parts, "$filter="+q.Filter)
	}
	if ob := q.OrderBy.String(); ob != "" {
		parts = append(parts, "$orderby="+ob)
	}
	if q.Top != nil {
		parts = append(parts, "$top="+strconv.Itoa(*q.Top))
	}
	if q.Skip != nil {
		parts = append(parts, "$skip="+strconv.Itoa(*q.Skip))
	}

	if len(parts) == 0 {
		return q.EntitySetName
	}
	return q.EntitySetName + "?" + strings.Join(parts, "&")
}

// Clear resets the query clauses. The target entity is kept.
func (q *QueryDefinition) Clear() {
	q.Select = nil
	q.Filter = ""
	q.OrderBy = OrderBy{}
	q.Top = nil
	q.Skip = nil
}

// ResolveEntitySetName returns explicit when the catalog supplied one.
// Otherwise it guesses by appending "s" to the logical name and reports
// authoritative=false; irregular plurals will be wrong.
func ResolveEntitySetName(logicalName, explicit string) (name string, authoritative bool) {
	if explicit != "" {
		return explicit, true
	}
	if logicalName == "" {
		return "", false
	}
	return logicalName + "s", false
}
