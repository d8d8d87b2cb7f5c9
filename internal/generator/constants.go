package generator

// Generator tuning constants are centralized here to avoid scattering magic
// numbers. Values are percentages unless otherwise noted.

const (
	// ColumnNullableProb is the chance to mark a generated column nullable.
	ColumnNullableProb = 30
	// ColumnVarcharProb is the chance a generated column is VARCHAR.
	ColumnVarcharProb = 40
)

const (
	// MaxExprDepth caps expression tree depth.
	MaxExprDepth = 5
	// LeafColumnProb is the chance a leaf is a column reference.
	LeafColumnProb = 50
	// LeafNullProb is the chance a literal leaf is NULL.
	LeafNullProb = 15
	// LeafStringProb is the chance a non-NULL literal leaf is text.
	LeafStringProb = 35
	// LiteralIntMax bounds generated integer literals.
	LiteralIntMax = 1000
	// InListMax caps the number of IN-list candidates.
	InListMax = 4
	// CoalesceArgsMax caps extra COALESCE arguments beyond the minimum.
	CoalesceArgsMax = 2
	// SubqueryRowsProb is the chance a generated scalar subquery yields a row.
	SubqueryRowsProb = 70
	// SubqueryLeafProb is the chance a non-column leaf is a scalar subquery.
	SubqueryLeafProb = 10
	// TextLeadingSpaceProb is the chance a text literal gets a leading space.
	TextLeadingSpaceProb = 10
	// CollateProb is the chance a CHAR cast gets an explicit collation.
	CollateProb = 20
)

const (
	// ExplainAnalyzeProb is the chance the explain wrapper adds ANALYZE.
	ExplainAnalyzeProb = 30
	// SelectItemsMax caps SELECT-list size for plain query actions.
	SelectItemsMax = 3
)
