// Package schema defines schema state and helpers for SQL generation.
package schema

import "fmt"

// ColumnType enumerates column data types the predictor understands.
type ColumnType int

// Column type constants. VARCHAR dominates INT during most-general-type
// resolution.
const (
	TypeInt ColumnType = iota
	TypeVarchar
)

// Column describes a table column.
type Column struct {
	Name     string
	Type     ColumnType
	Nullable bool
}

// Table describes a database table.
type Table struct {
	Name    string
	Columns []Column
	NextID  int64
}

// State tracks the current schema state.
type State struct {
	Tables []Table
}

// SQLType returns the SQL type string for this column.
func (c Column) SQLType() string {
	switch c.Type {
	case TypeInt:
		return "BIGINT"
	case TypeVarchar:
		return "VARCHAR(64)"
	default:
		return "BIGINT"
	}
}

// String returns the type name used in traces and reports.
func (t ColumnType) String() string {
	switch t {
	case TypeInt:
		return "INT"
	case TypeVarchar:
		return "VARCHAR"
	default:
		return fmt.Sprintf("ColumnType(%d)", int(t))
	}
}

// ColumnByName returns a column by name if present.
func (t Table) ColumnByName(name string) (Column, bool) {
	for _, col := range t.Columns {
		if col.Name == name {
			return col, true
		}
	}
	return Column{}, false
}

// TableByName returns a table by name if present.
func (s State) TableByName(name string) (Table, bool) {
	for _, tbl := range s.Tables {
		if tbl.Name == name {
			return tbl, true
		}
	}
	return Table{}, false
}

// HasTables reports whether any tables exist in the schema state.
func (s State) HasTables() bool {
	return len(s.Tables) > 0
}

// ColumnRef builds a fully qualified column reference.
func ColumnRef(table, column string) string {
	return fmt.Sprintf("%s.%s", table, column)
}
