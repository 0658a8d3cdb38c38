// Package query holds the structured representation of a single tabular
// query: selected columns, filters, joins, grouping, ordering, and limits.
// State values are plain data mutated only through the pure operations in
// this package; the SQL text itself is always derived, never authoritative.
package query

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Aggregation is an optional aggregate function applied to a selected column.
type Aggregation string

const (
	AggregationNone          Aggregation = ""
	AggregationCount         Aggregation = "COUNT"
	AggregationSum           Aggregation = "SUM"
	AggregationAvg           Aggregation = "AVG"
	AggregationMin           Aggregation = "MIN"
	AggregationMax           Aggregation = "MAX"
	AggregationCountDistinct Aggregation = "COUNT_DISTINCT"
)

// Valid reports whether the aggregation is one of the supported functions.
func (a Aggregation) Valid() bool {
	switch a {
	case AggregationNone, AggregationCount, AggregationSum, AggregationAvg,
		AggregationMin, AggregationMax, AggregationCountDistinct:
		return true
	}
	return false
}

// Operator is a filter comparison operator.
type Operator string

const (
	OpEqual        Operator = "="
	OpNotEqual     Operator = "!="
	OpGreater      Operator = ">"
	OpLess         Operator = "<"
	OpGreaterEqual Operator = ">="
	OpLessEqual    Operator = "<="
	OpLike         Operator = "LIKE"
	OpNotLike      Operator = "NOT LIKE"
	OpIn           Operator = "IN"
	OpNotIn        Operator = "NOT IN"
	OpIsNull       Operator = "IS NULL"
	OpIsNotNull    Operator = "IS NOT NULL"
	OpBetween      Operator = "BETWEEN"
)

// Valid reports whether the operator is one of the supported comparisons.
func (o Operator) Valid() bool {
	switch o {
	case OpEqual, OpNotEqual, OpGreater, OpLess, OpGreaterEqual, OpLessEqual,
		OpLike, OpNotLike, OpIn, OpNotIn, OpIsNull, OpIsNotNull, OpBetween:
		return true
	}
	return false
}

// IgnoresValue reports whether the operator renders without its value.
func (o Operator) IgnoresValue() bool {
	return o == OpIsNull || o == OpIsNotNull
}

// JoinType is the SQL join variant for a JoinCondition.
type JoinType string

const (
	JoinInner JoinType = "INNER"
	JoinLeft  JoinType = "LEFT"
	JoinRight JoinType = "RIGHT"
	JoinFull  JoinType = "FULL"
)

// Valid reports whether the join type is supported.
func (j JoinType) Valid() bool {
	switch j {
	case JoinInner, JoinLeft, JoinRight, JoinFull:
		return true
	}
	return false
}

// Direction is the sort direction for an OrderByColumn.
type Direction string

const (
	Ascending  Direction = "ASC"
	Descending Direction = "DESC"
)

// Valid reports whether the direction is ASC or DESC.
func (d Direction) Valid() bool {
	return d == Ascending || d == Descending
}

// ColumnRef is a typed reference to a table-qualified column. The dotted
// "table.column" string form exists only at the JSON boundary; inside the
// builder the two parts stay separate so they are never re-parsed.
type ColumnRef struct {
	Table  string
	Column string
}

// NewColumnRef builds a reference from its parts.
func NewColumnRef(table, column string) ColumnRef {
	return ColumnRef{Table: table, Column: column}
}

// ParseColumnRef splits a dotted "table.column" string into a typed
// reference. The split happens on the first dot so column names containing
// dots are not supported, matching the identifier contract of the schema
// provider.
func ParseColumnRef(s string) (ColumnRef, error) {
	table, column, ok := strings.Cut(s, ".")
	if !ok || table == "" || column == "" {
		return ColumnRef{}, fmt.Errorf("column reference %q is not in table.column form", s)
	}
	return ColumnRef{Table: table, Column: column}, nil
}

// IsZero reports whether the reference is unset.
func (r ColumnRef) IsZero() bool {
	return r.Table == "" && r.Column == ""
}

// String renders the reference in its dotted SQL form.
func (r ColumnRef) String() string {
	return r.Table + "." + r.Column
}

// MarshalJSON emits the dotted string form used on the wire.
func (r ColumnRef) MarshalJSON() ([]byte, error) {
	if r.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(r.String())
}

// UnmarshalJSON accepts the dotted string form used on the wire.
func (r *ColumnRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*r = ColumnRef{}
		return nil
	}
	ref, err := ParseColumnRef(s)
	if err != nil {
		return err
	}
	*r = ref
	return nil
}

// SelectedColumn is one entry of the SELECT list.
type SelectedColumn struct {
	ID          string      `json:"id"`
	Table       string      `json:"table"`
	Column      string      `json:"column"`
	Alias       string      `json:"alias,omitempty"`
	Aggregation Aggregation `json:"aggregation,omitempty"`
}

// Ref returns the typed column reference for this selection.
func (c SelectedColumn) Ref() ColumnRef {
	return ColumnRef{Table: c.Table, Column: c.Column}
}

// FilterCondition is one AND-combined predicate of the WHERE clause.
type FilterCondition struct {
	ID       string    `json:"id"`
	Column   ColumnRef `json:"column"`
	Operator Operator  `json:"operator"`
	Value    string    `json:"value,omitempty"`
}

// JoinCondition joins one additional table into the query.
type JoinCondition struct {
	ID          string   `json:"id"`
	Type        JoinType `json:"type"`
	LeftTable   string   `json:"leftTable"`
	RightTable  string   `json:"rightTable"`
	LeftColumn  string   `json:"leftColumn"`
	RightColumn string   `json:"rightColumn"`
}

// GroupByColumn references a column of the GROUP BY clause.
type GroupByColumn struct {
	Column ColumnRef `json:"column"`
}

// OrderByColumn references a column of the ORDER BY clause with a direction.
type OrderByColumn struct {
	Column    ColumnRef `json:"column"`
	Direction Direction `json:"direction"`
}

// State is the full mutable representation of one tabular query. The zero
// value is not ready for use; call NewState.
type State struct {
	PrimaryTable string            `json:"primaryTable"`
	Columns      []SelectedColumn  `json:"columns"`
	Filters      []FilterCondition `json:"filters"`
	Joins        []JoinCondition   `json:"joins"`
	GroupBy      []GroupByColumn   `json:"groupBy"`
	OrderBy      []OrderByColumn   `json:"orderBy"`
	Limit        int               `json:"limit"`
	Distinct     bool              `json:"distinct"`
}
