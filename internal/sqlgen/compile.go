// Package sqlgen compiles a builder state into SQL text. Compilation is a
// pure function of the state: no side effects, no failure mode, and the same
// state always yields the same bytes. Malformed states compile to degenerate
// but syntactically present SQL rather than errors, so the builder UI can
// always show a preview.
package sqlgen

import (
	"strconv"
	"strings"

	"github.com/vkmindia80/nexbii/internal/query"
	"github.com/vkmindia80/nexbii/internal/sqlutil"
)

// Compile renders the state as SQL text with newline-separated clauses,
// terminated with a semicolon. It returns the empty string when no primary
// table is set; that is the single "no table selected" sentinel.
func Compile(s query.State) string {
	if s.PrimaryTable == "" {
		return ""
	}

	var b strings.Builder

	b.WriteString("SELECT ")
	if s.Distinct {
		b.WriteString("DISTINCT ")
	}
	b.WriteString(selectList(s.Columns))

	b.WriteString("\nFROM ")
	b.WriteString(s.PrimaryTable)

	for _, j := range s.Joins {
		b.WriteString("\n")
		b.WriteString(joinClause(j))
	}

	if len(s.Filters) > 0 {
		b.WriteString("\nWHERE ")
		conds := make([]string, len(s.Filters))
		for i, f := range s.Filters {
			conds[i] = condition(f)
		}
		b.WriteString(strings.Join(conds, " AND "))
	}

	if len(s.GroupBy) > 0 {
		refs := make([]string, len(s.GroupBy))
		for i, g := range s.GroupBy {
			refs[i] = g.Column.String()
		}
		b.WriteString("\nGROUP BY ")
		b.WriteString(strings.Join(refs, ", "))
	}

	if len(s.OrderBy) > 0 {
		refs := make([]string, len(s.OrderBy))
		for i, o := range s.OrderBy {
			refs[i] = o.Column.String() + " " + string(o.Direction)
		}
		b.WriteString("\nORDER BY ")
		b.WriteString(strings.Join(refs, ", "))
	}

	limit := s.Limit
	if limit <= 0 {
		limit = query.DefaultLimit
	}
	b.WriteString("\nLIMIT ")
	b.WriteString(strconv.Itoa(limit))
	b.WriteString(";")

	return b.String()
}

// selectList renders the SELECT column list, or "*" when nothing is
// selected.
func selectList(columns []query.SelectedColumn) string {
	if len(columns) == 0 {
		return "*"
	}
	entries := make([]string, len(columns))
	for i, col := range columns {
		entries[i] = selectEntry(col)
	}
	return strings.Join(entries, ", ")
}

func selectEntry(col query.SelectedColumn) string {
	ref := col.Table + "." + col.Column

	var expr string
	switch col.Aggregation {
	case query.AggregationNone:
		expr = ref
	case query.AggregationCountDistinct:
		// COUNT_DISTINCT is the one irregular function name.
		expr = "COUNT(DISTINCT " + ref + ")"
	default:
		expr = string(col.Aggregation) + "(" + ref + ")"
	}

	if col.Alias != "" {
		expr += " AS " + col.Alias
	}
	return expr
}

func joinClause(j query.JoinCondition) string {
	return string(j.Type) + " JOIN " + j.RightTable +
		" ON " + j.LeftTable + "." + j.LeftColumn +
		" = " + j.RightTable + "." + j.RightColumn
}

// condition renders one WHERE predicate. Operator families render
// differently; the raw value string is trusted to be well formed, matching
// the never-block-the-user policy of the builder.
func condition(f query.FilterCondition) string {
	col := f.Column.String()

	switch f.Operator {
	case query.OpIsNull, query.OpIsNotNull:
		return col + " " + string(f.Operator)

	case query.OpLike, query.OpNotLike:
		escaped := strings.ReplaceAll(f.Value, "'", "''")
		return col + " " + string(f.Operator) + " '%" + escaped + "%'"

	case query.OpIn, query.OpNotIn:
		// The value is a pre-quoted, comma-separated list supplied by the
		// caller; it is inserted verbatim.
		return col + " " + string(f.Operator) + " (" + f.Value + ")"

	case query.OpBetween:
		lo, hi, _ := query.SplitBetween(f.Value)
		return col + " BETWEEN " + lo + " AND " + hi

	default:
		return col + " " + string(f.Operator) + " " + sqlutil.RenderValue(f.Value)
	}
}
