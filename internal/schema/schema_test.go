package schema

import "testing"

func TestColumnSQLType(t *testing.T) {
	if got := (Column{Type: TypeInt}).SQLType(); got != "BIGINT" {
		t.Fatalf("int sql type = %s", got)
	}
	if got := (Column{Type: TypeVarchar}).SQLType(); got != "VARCHAR(64)" {
		t.Fatalf("varchar sql type = %s", got)
	}
}

func TestLookups(t *testing.T) {
	state := State{Tables: []Table{
		{Name: "t0", Columns: []Column{{Name: "id", Type: TypeInt}, {Name: "c0", Type: TypeVarchar}}},
	}}
	tbl, ok := state.TableByName("t0")
	if !ok {
		t.Fatal("t0 not found")
	}
	col, ok := tbl.ColumnByName("c0")
	if !ok || col.Type != TypeVarchar {
		t.Fatalf("c0 lookup = %v %v", col, ok)
	}
	if _, ok := tbl.ColumnByName("missing"); ok {
		t.Fatal("missing column found")
	}
	if _, ok := state.TableByName("t9"); ok {
		t.Fatal("missing table found")
	}
	if !state.HasTables() {
		t.Fatal("HasTables = false")
	}
	if got := ColumnRef("t0", "c0"); got != "t0.c0" {
		t.Fatalf("ColumnRef = %s", got)
	}
}
