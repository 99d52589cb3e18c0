package gfpop

// Track is the provenance tuple carried by every piece: the data index at
// which the piece was created (Label), the graph state it belongs to
// (State), an ordinal Position within its list (recorded only; neither
// tie-breaking nor Dump reads it), and the state the piece's defining edge
// departed from (ParentState). Backtracking reconstructs a path through
// the state graph entirely from this tuple, without a side table.
type Track struct {
	Label       int
	State       int
	Position    int
	ParentState int
}
