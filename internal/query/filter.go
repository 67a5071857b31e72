package query

import (
	"fmt"
	"strings"
)

// FilterOperator is a predicate operator offered by the guided filter builder.
// Values are indexes into a fixed cyclic ordering.
type FilterOperator int

const (
	Equals FilterOperator = iota
	NotEquals
	Contains
	StartsWith
	EndsWith
	GreaterThan
	LessThan
	IsNull
	IsNotNull
)

// operatorOrder is the cycling order used by Next/Prev.
var operatorOrder = [...]FilterOperator{
	Equals, NotEquals, Contains, StartsWith, EndsWith, GreaterThan, LessThan, IsNull, IsNotNull,
}

var operatorLabels = [...]string{
	Equals:      "eq",
	NotEquals:   "ne",
	Contains:    "contains",
	StartsWith:  "startswith",
	EndsWith:    "endswith",
	GreaterThan: "gt",
	LessThan:    "lt",
	IsNull:      "is null",
	IsNotNull:   "is not null",
}

// Operators returns every operator in cycling order.
func Operators() []FilterOperator {
	out := make([]FilterOperator, len(operatorOrder))
	copy(out, operatorOrder[:])
	return out
}

func (op FilterOperator) index() int {
	n := len(operatorOrder)
	return ((int(op) % n) + n) % n
}

// Next returns the following operator, wrapping after IsNotNull.
func (op FilterOperator) Next() FilterOperator {
	return operatorOrder[(op.index()+1)%len(operatorOrder)]
}

// Prev returns the preceding operator, wrapping before Equals.
func (op FilterOperator) Prev() FilterOperator {
	n := len(operatorOrder)
	return operatorOrder[(op.index()-1+n)%n]
}

// NeedsValue reports whether the operator consumes a comparison value.
func (op FilterOperator) NeedsValue() bool {
	return op != IsNull && op != IsNotNull
}

// Label returns the short name shown in the filter list.
func (op FilterOperator) Label() string {
	return operatorLabels[op.index()]
}

func (op FilterOperator) String() string {
	return op.Label()
}

// ParseFilterOperator is the inverse of Label.
func ParseFilterOperator(label string) (FilterOperator, error) {
	label = strings.ToLower(strings.TrimSpace(label))
	for _, op := range operatorOrder {
		if operatorLabels[op] == label {
			return op, nil
		}
	}
	return Equals, fmt.Errorf("unknown filter operator: %q", label)
}

// Render builds the $filter fragment for attr. The value is interpolated
// verbatim; IsNull and IsNotNull ignore it.
func (op FilterOperator) Render(attr, value string) string {
	switch op.index() {
	case int(Equals):
		return fmt.Sprintf("%s eq '%s'", attr, value)
	case int(NotEquals):
		return fmt.Sprintf("%s ne '%s'", attr, value)
	case int(Contains):
		return fmt.Sprintf("contains(%s, '%s')", attr, value)
	case int(StartsWith):
		return fmt.Sprintf("startswith(%s, '%s')", attr, value)
	case int(EndsWith):
		return fmt.Sprintf("endswith(%s, '%s')", attr, value)
	case int(GreaterThan):
		return fmt.Sprintf("%s gt %s", attr, value)
	case int(LessThan):
		return fmt.Sprintf("%s lt %s", attr, value)
	case int(IsNull):
		return fmt.Sprintf("%s eq null", attr)
	default:
		return fmt.Sprintf("%s ne null", attr)
	}
}

// quoted reports whether the operator wraps its value in a string literal.
func (op FilterOperator) quoted() bool {
	switch op.index() {
	case int(Equals), int(NotEquals), int(Contains), int(StartsWith), int(EndsWith):
		return true
	}
	return false
}

// FilterCondition is one committed predicate of a guided query.
type FilterCondition struct {
	Attribute string
	Operator  FilterOperator
	Value     string
}

// Valid reports whether the condition has everything its operator needs.
func (c FilterCondition) Valid() bool {
	if c.Attribute == "" {
		return false
	}
	return !c.Operator.NeedsValue() || c.Value != ""
}

// Render returns the condition's $filter fragment. Single quotes inside
// string literals are doubled.
func (c FilterCondition) Render() string {
	value := c.Value
	if c.Operator.quoted() {
		value = EscapeLiteral(value)
	}
	return c.Operator.Render(c.Attribute, value)
}

// Describe is the human-readable form used in filter lists.
func (c FilterCondition) Describe() string {
	if !c.Operator.NeedsValue() {
		return c.Attribute + " " + c.Operator.Label()
	}
	return fmt.Sprintf("%s %s %s", c.Attribute, c.Operator.Label(), c.Value)
}

// EscapeLiteral doubles single quotes so value is safe inside '...'.
func EscapeLiteral(value string) string {
	return strings.ReplaceAll(value, "'", "''")
}

// JoinFilters renders conditions as a single conjunction.
func JoinFilters(conds []FilterCondition) string {
	parts := make([]string, 0, len(conds))
	for _, c := range conds {
		parts = append(parts, c.Render())
	}
	return strings.Join(parts, " and ")
}
