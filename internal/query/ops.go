package query

import "github.com/google/uuid"

// Limit bounds enforced by the builder operations. The SQL compiler renders
// whatever limit it is handed; clamping is a builder concern.
const (
	DefaultLimit = 100
	MinLimit     = 1
	MaxLimit     = 10000
)

// NewState returns an empty builder state with the default row limit.
func NewState() State {
	return State{Limit: DefaultLimit}
}

// All operations below take the state by value and return the updated state.
// Slices are copied before modification so previous states stay usable as
// snapshots (undo, diffing, concurrent reads of a superseded state).

// SetPrimaryTable selects the query root. Changing the primary table
// invalidates every dependent collection, since columns, filters, joins,
// grouping, and ordering all reference identifiers scoped to the old table
// graph.
func SetPrimaryTable(s State, table string) State {
	if table == s.PrimaryTable {
		return s
	}
	return State{
		PrimaryTable: table,
		Limit:        s.Limit,
	}
}

// AddColumn appends a selected column, assigning an ID when absent.
func AddColumn(s State, col SelectedColumn) State {
	if col.ID == "" {
		col.ID = uuid.NewString()
	}
	s.Columns = append(copyOf(s.Columns), col)
	return s
}

// UpdateColumn replaces the column with a matching ID. Unknown IDs are a
// no-op; the UI cannot reference a column it never added.
func UpdateColumn(s State, col SelectedColumn) State {
	s.Columns = replaceByID(s.Columns, col, func(c SelectedColumn) string { return c.ID })
	return s
}

// RemoveColumn deletes the column with the given ID.
func RemoveColumn(s State, id string) State {
	s.Columns = removeByID(s.Columns, id, func(c SelectedColumn) string { return c.ID })
	return s
}

// AddFilter appends a filter condition, assigning an ID when absent.
func AddFilter(s State, f FilterCondition) State {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	s.Filters = append(copyOf(s.Filters), f)
	return s
}

// UpdateFilter replaces the filter with a matching ID.
func UpdateFilter(s State, f FilterCondition) State {
	s.Filters = replaceByID(s.Filters, f, func(c FilterCondition) string { return c.ID })
	return s
}

// RemoveFilter deletes the filter with the given ID.
func RemoveFilter(s State, id string) State {
	s.Filters = removeByID(s.Filters, id, func(c FilterCondition) string { return c.ID })
	return s
}

// AddJoin appends a join condition, assigning an ID when absent. Joins keep
// insertion order; the compiler renders them in the order they were added.
func AddJoin(s State, j JoinCondition) State {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	s.Joins = append(copyOf(s.Joins), j)
	return s
}

// UpdateJoin replaces the join with a matching ID.
func UpdateJoin(s State, j JoinCondition) State {
	s.Joins = replaceByID(s.Joins, j, func(c JoinCondition) string { return c.ID })
	return s
}

// RemoveJoin deletes the join with the given ID.
func RemoveJoin(s State, id string) State {
	s.Joins = removeByID(s.Joins, id, func(c JoinCondition) string { return c.ID })
	return s
}

// AddGroupBy appends a grouping column. Duplicate references are ignored.
func AddGroupBy(s State, g GroupByColumn) State {
	for _, existing := range s.GroupBy {
		if existing.Column == g.Column {
			return s
		}
	}
	s.GroupBy = append(copyOf(s.GroupBy), g)
	return s
}

// RemoveGroupBy deletes the grouping entry for the given column.
func RemoveGroupBy(s State, ref ColumnRef) State {
	out := make([]GroupByColumn, 0, len(s.GroupBy))
	for _, g := range s.GroupBy {
		if g.Column != ref {
			out = append(out, g)
		}
	}
	s.GroupBy = out
	return s
}

// AddOrderBy appends an ordering column. A second entry for the same column
// replaces the first's direction instead of duplicating it.
func AddOrderBy(s State, o OrderByColumn) State {
	out := copyOf(s.OrderBy)
	for i, existing := range out {
		if existing.Column == o.Column {
			out[i].Direction = o.Direction
			s.OrderBy = out
			return s
		}
	}
	s.OrderBy = append(out, o)
	return s
}

// RemoveOrderBy deletes the ordering entry for the given column.
func RemoveOrderBy(s State, ref ColumnRef) State {
	out := make([]OrderByColumn, 0, len(s.OrderBy))
	for _, o := range s.OrderBy {
		if o.Column != ref {
			out = append(out, o)
		}
	}
	s.OrderBy = out
	return s
}

// SetLimit sets the row limit, clamped to [MinLimit, MaxLimit].
func SetLimit(s State, limit int) State {
	if limit < MinLimit {
		limit = MinLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	s.Limit = limit
	return s
}

// SetDistinct toggles SELECT DISTINCT.
func SetDistinct(s State, distinct bool) State {
	s.Distinct = distinct
	return s
}

func copyOf[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func replaceByID[T any](in []T, item T, id func(T) string) []T {
	out := copyOf(in)
	target := id(item)
	for i := range out {
		if id(out[i]) == target {
			out[i] = item
			break
		}
	}
	return out
}

func removeByID[T any](in []T, target string, id func(T) string) []T {
	out := make([]T, 0, len(in))
	for _, item := range in {
		if id(item) != target {
			out = append(out, item)
		}
	}
	return out
}
