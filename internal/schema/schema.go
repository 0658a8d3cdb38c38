// Package schema models the tables and columns a data source exposes to the
// query builder. Schemas are produced by introspection providers and consumed
// read-only; the builder never mutates them.
package schema

// Column represents a single column of a data-source table.
type Column struct {
	Name        string `json:"column_name"`
	DataType    string `json:"data_type"`
	DisplayName string `json:"display_name,omitempty"`
}

// Table represents a data-source table with its columns. DisplayName is the
// plural collection label shown in the builder's table picker; SingularName
// labels a single row of the table.
type Table struct {
	Name         string   `json:"table_name"`
	DisplayName  string   `json:"display_name,omitempty"`
	SingularName string   `json:"singular_name,omitempty"`
	Columns      []Column `json:"columns"`
}

// Schema is the full set of tables a data source exposes.
type Schema struct {
	Tables []Table `json:"tables"`
}

// Table returns the table with the given name, or nil if absent.
func (s *Schema) Table(name string) *Table {
	if s == nil {
		return nil
	}
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i]
		}
	}
	return nil
}

// HasTable reports whether a table with the given name exists.
func (s *Schema) HasTable(name string) bool {
	return s.Table(name) != nil
}

// HasColumn reports whether the named table contains the named column.
func (s *Schema) HasColumn(table, column string) bool {
	t := s.Table(table)
	if t == nil {
		return false
	}
	for _, c := range t.Columns {
		if c.Name == column {
			return true
		}
	}
	return false
}

// Column returns the column metadata for table.column, or nil if absent.
func (s *Schema) Column(table, column string) *Column {
	t := s.Table(table)
	if t == nil {
		return nil
	}
	for i := range t.Columns {
		if t.Columns[i].Name == column {
			return &t.Columns[i]
		}
	}
	return nil
}
