package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vkmindia80/nexbii/internal/schema"
)

// Validation sentinel errors. Callers branch on these with errors.Is.
var (
	ErrUnknownTable    = errors.New("table not found in schema")
	ErrUnknownColumn   = errors.New("column not found in table")
	ErrTableNotInQuery = errors.New("table is neither the primary table nor joined")
	ErrSelfJoin        = errors.New("join target equals the primary table")
	ErrDuplicateJoin   = errors.New("table is already joined")
	ErrBadOperator     = errors.New("unsupported filter operator")
	ErrBadJoinType     = errors.New("unsupported join type")
	ErrBadDirection    = errors.New("unsupported sort direction")
	ErrBadAggregation  = errors.New("unsupported aggregation")
	ErrBetweenOperands = errors.New("BETWEEN requires exactly two comma-separated operands")
)

// Validator checks builder mutations against the schema model at
// construction time, so malformed references never reach the compiler.
// Validation is advisory: the compiler itself accepts any state.
type Validator struct {
	schema *schema.Schema
}

// NewValidator creates a validator over the given schema.
func NewValidator(s *schema.Schema) *Validator {
	return &Validator{schema: s}
}

// tableInQuery reports whether the table is reachable in the current state:
// either the primary table or introduced by a join.
func tableInQuery(s State, table string) bool {
	if table == s.PrimaryTable {
		return true
	}
	for _, j := range s.Joins {
		if j.RightTable == table {
			return true
		}
	}
	return false
}

// ValidateColumn checks a selected column against the state and schema.
func (v *Validator) ValidateColumn(s State, col SelectedColumn) error {
	if !col.Aggregation.Valid() {
		return fmt.Errorf("%w: %q", ErrBadAggregation, col.Aggregation)
	}
	if !tableInQuery(s, col.Table) {
		return fmt.Errorf("%w: %q", ErrTableNotInQuery, col.Table)
	}
	return v.checkColumn(col.Table, col.Column)
}

// ValidateFilter checks a filter condition against the state and schema.
func (v *Validator) ValidateFilter(s State, f FilterCondition) error {
	if !f.Operator.Valid() {
		return fmt.Errorf("%w: %q", ErrBadOperator, f.Operator)
	}
	if f.Operator == OpBetween {
		if _, _, err := SplitBetween(f.Value); err != nil {
			return err
		}
	}
	if !tableInQuery(s, f.Column.Table) {
		return fmt.Errorf("%w: %q", ErrTableNotInQuery, f.Column.Table)
	}
	return v.checkColumn(f.Column.Table, f.Column.Column)
}

// ValidateJoin checks a join condition. Self-joins and duplicate joins to
// the same table are rejected: the builder has no aliasing model, so either
// would produce ambiguous identifiers in the generated SQL.
func (v *Validator) ValidateJoin(s State, j JoinCondition) error {
	if !j.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrBadJoinType, j.Type)
	}
	if j.RightTable == s.PrimaryTable {
		return fmt.Errorf("%w: %q", ErrSelfJoin, j.RightTable)
	}
	for _, existing := range s.Joins {
		if existing.ID != j.ID && existing.RightTable == j.RightTable {
			return fmt.Errorf("%w: %q", ErrDuplicateJoin, j.RightTable)
		}
	}
	if !tableInQuery(s, j.LeftTable) {
		return fmt.Errorf("%w: %q", ErrTableNotInQuery, j.LeftTable)
	}
	if err := v.checkColumn(j.LeftTable, j.LeftColumn); err != nil {
		return err
	}
	return v.checkColumn(j.RightTable, j.RightColumn)
}

// ValidateGroupBy checks a grouping column against the state and schema.
func (v *Validator) ValidateGroupBy(s State, g GroupByColumn) error {
	if !tableInQuery(s, g.Column.Table) {
		return fmt.Errorf("%w: %q", ErrTableNotInQuery, g.Column.Table)
	}
	return v.checkColumn(g.Column.Table, g.Column.Column)
}

// ValidateOrderBy checks an ordering column against the state and schema.
func (v *Validator) ValidateOrderBy(s State, o OrderByColumn) error {
	if !o.Direction.Valid() {
		return fmt.Errorf("%w: %q", ErrBadDirection, o.Direction)
	}
	if !tableInQuery(s, o.Column.Table) {
		return fmt.Errorf("%w: %q", ErrTableNotInQuery, o.Column.Table)
	}
	return v.checkColumn(o.Column.Table, o.Column.Column)
}

// ValidateState checks every reference in a builder state against the
// schema, collecting one error per invalid element. A state with no primary
// table is trivially valid; it compiles to nothing.
func (v *Validator) ValidateState(s State) []error {
	if s.PrimaryTable == "" {
		return nil
	}

	var errs []error
	if !v.schema.HasTable(s.PrimaryTable) {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownTable, s.PrimaryTable))
	}
	for _, j := range s.Joins {
		if err := v.ValidateJoin(s, j); err != nil {
			errs = append(errs, err)
		}
	}
	for _, c := range s.Columns {
		if err := v.ValidateColumn(s, c); err != nil {
			errs = append(errs, err)
		}
	}
	for _, f := range s.Filters {
		if err := v.ValidateFilter(s, f); err != nil {
			errs = append(errs, err)
		}
	}
	for _, g := range s.GroupBy {
		if err := v.ValidateGroupBy(s, g); err != nil {
			errs = append(errs, err)
		}
	}
	for _, o := range s.OrderBy {
		if err := v.ValidateOrderBy(s, o); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func (v *Validator) checkColumn(table, column string) error {
	if !v.schema.HasTable(table) {
		return fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}
	if !v.schema.HasColumn(table, column) {
		return fmt.Errorf("%w: %q.%q", ErrUnknownColumn, table, column)
	}
	return nil
}

// SplitBetween splits a BETWEEN value on its first comma into the two
// operands. Only validation uses the error; the compiler renders whatever
// two parts come back.
func SplitBetween(value string) (string, string, error) {
	lo, hi, ok := strings.Cut(value, ",")
	lo, hi = strings.TrimSpace(lo), strings.TrimSpace(hi)
	if !ok || lo == "" || hi == "" {
		return lo, hi, fmt.Errorf("%w: %q", ErrBetweenOperands, value)
	}
	return lo, hi, nil
}
