package gfpop

// Piece is one quadratic segment of a ListPiece: a Cost valid over a
// closed Interval, tagged with the Track needed to recover a changepoint
// path during backtracking.
type Piece struct {
	Interval Interval
	Cost     Cost
	Track    Track
}

// Eval evaluates the piece's cost at mu, regardless of whether mu falls
// inside Interval; callers that care about domain membership check
// Interval.Contains themselves.
func (p Piece) Eval(mu float64) float64 {
	return p.Cost.Eval(mu)
}

// minOnInterval is the piece's cost minimized over its own interval.
func (p Piece) minOnInterval() float64 {
	return p.Cost.MinOnInterval(p.Interval)
}

// withTrack returns a copy of p with its Track replaced, leaving geometry
// untouched. The edge primitives retag whole lists through ListPiece.retag
// instead; provenance through a running-min sweep is not carried piece by
// piece, only the edge's (label, state, parentState) identity is.
func (p Piece) withTrack(t Track) Piece {
	p.Track = t
	return p
}
