// Package generator builds random schemas, rows, and expression trees whose
// values the predictor can compute statically.
package generator

import (
	"fmt"
	"math/rand"
	"time"

	"augur/internal/config"
	"augur/internal/schema"
	"augur/internal/util"
)

// Generator creates SQL statements and expression trees from schema state.
// All randomness flows through Rand so a run is reproducible from its seed.
type Generator struct {
	Rand     *rand.Rand
	Config   config.Config
	State    *schema.State
	Seed     int64
	tableSeq int
}

// New constructs a seeded Generator. A zero seed picks one from the clock.
func New(cfg config.Config, state *schema.State, seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{
		Rand:   rand.New(rand.NewSource(seed)),
		Config: cfg,
		State:  state,
		Seed:   seed,
	}
}

// GenerateTable produces a fresh table definition with at least one column of
// each supported type and an implicit integer id.
func (g *Generator) GenerateTable() schema.Table {
	g.tableSeq++
	tbl := schema.Table{Name: fmt.Sprintf("t%d", g.tableSeq-1)}
	tbl.Columns = append(tbl.Columns, schema.Column{Name: "id", Type: schema.TypeInt})
	colCount := 2 + g.Rand.Intn(g.Config.MaxColumns-1)
	for i := 0; i < colCount; i++ {
		col := schema.Column{
			Name:     fmt.Sprintf("c%d", i),
			Nullable: util.Chance(g.Rand, ColumnNullableProb),
		}
		if util.Chance(g.Rand, ColumnVarcharProb) {
			col.Type = schema.TypeVarchar
		} else {
			col.Type = schema.TypeInt
		}
		tbl.Columns = append(tbl.Columns, col)
	}
	return tbl
}

// CreateTableSQL renders the CREATE TABLE statement for a table.
func (g *Generator) CreateTableSQL(tbl schema.Table) string {
	sql := "CREATE TABLE " + tbl.Name + " ("
	for i, col := range tbl.Columns {
		if i > 0 {
			sql += ", "
		}
		sql += col.Name + " " + col.SQLType()
		if col.Name == "id" {
			sql += " PRIMARY KEY"
		} else if !col.Nullable {
			sql += " NOT NULL"
		}
	}
	return sql + ")"
}

// InsertSQL renders an INSERT for one random row.
func (g *Generator) InsertSQL(tbl *schema.Table) string {
	cols := ""
	vals := ""
	for i, col := range tbl.Columns {
		if i > 0 {
			cols += ", "
			vals += ", "
		}
		cols += col.Name
		if col.Name == "id" {
			tbl.NextID++
			vals += fmt.Sprintf("%d", tbl.NextID)
			continue
		}
		vals += g.randomLiteral(col).String()
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", tbl.Name, cols, vals)
}

// RandomTable picks a table from the current state.
func (g *Generator) RandomTable() (schema.Table, bool) {
	if !g.State.HasTables() {
		return schema.Table{}, false
	}
	return g.State.Tables[g.Rand.Intn(len(g.State.Tables))], true
}
