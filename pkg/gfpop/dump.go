package gfpop

import (
	"fmt"
	"strings"
)

// Dump renders a ListPiece as one line per piece, in the
// "LABEL STATE PARENT POSITION [A,B] A B C" format used for debugging the
// dynamic program by hand. It is not meant for machine parsing.
func (lp ListPiece) Dump() string {
	var b strings.Builder
	for i, p := range lp.Pieces {
		fmt.Fprintf(&b, "%d %d %d %d [%g,%g] %g %g %g\n",
			p.Track.Label, p.Track.State, p.Track.ParentState, i,
			p.Interval.A, p.Interval.B,
			p.Cost.A, p.Cost.B, p.Cost.C)
	}
	return b.String()
}
