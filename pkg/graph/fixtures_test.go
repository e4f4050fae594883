package graph

import (
	"testing"

	"github.com/matzehuels/trackgraph/pkg/board"
)

// line is the three-hex fixture A -[p0]- | -[p1]- | -[p2]- B.
type line struct {
	b          *board.Board
	hexA, hexB board.HexID
	hexC       board.HexID
	a, bNode   board.NodeID
	p0, p1, p2 board.PathID
}

type lineOpts struct {
	middleTrack board.TrackType
	blockB      bool // Y fills B's only slot
	tokenB      bool // X also holds B
}

func newLine(t *testing.T, o lineOpts) line {
	t.Helper()
	var l line
	bl := board.NewBuilder()
	l.hexA = bl.AddHex("A1", 0, 0)
	l.hexB = bl.AddHex("B1", 1, 0)
	l.hexC = bl.AddHex("C1", 2, 0)
	l.a = bl.AddNode(l.hexA, board.NodeSpec{Kind: board.City, Slots: 1, Route: board.RouteMandatory})
	l.bNode = bl.AddNode(l.hexC, board.NodeSpec{Kind: board.City, Slots: 1, Route: board.RouteMandatory})
	l.p0 = bl.AddPath(l.hexA, board.PathSpec{A: board.NodeEnd(l.a), B: board.EdgeEnd(0)})
	l.p1 = bl.AddPath(l.hexB, board.PathSpec{A: board.EdgeEnd(3), B: board.EdgeEnd(0), Track: o.middleTrack})
	l.p2 = bl.AddPath(l.hexC, board.PathSpec{A: board.EdgeEnd(3), B: board.NodeEnd(l.bNode)})

	bl.AddCorporation(board.CorporationSpec{ID: "X", Home: []board.HexID{l.hexA}, HomeCity: -1, Tokens: 3})
	bl.AddCorporation(board.CorporationSpec{ID: "Y", Home: []board.HexID{l.hexC}, HomeCity: -1, Tokens: 3})
	bl.AddCorporation(board.CorporationSpec{ID: "H", Home: []board.HexID{l.hexA}, HomeCity: -1, Tokens: 1})
	bl.PlaceToken("X", l.a)
	if o.blockB {
		bl.PlaceToken("Y", l.bNode)
	}
	if o.tokenB {
		bl.PlaceToken("X", l.bNode)
	}

	b, err := bl.Build()
	if err != nil {
		t.Fatalf("build line: %v", err)
	}
	l.b = b
	return l
}

// offboard is a city A linked by p0 to a neighboring offboard O whose
// only path p1 is terminal.
type offboard struct {
	b      *board.Board
	a, o   board.NodeID
	p0, p1 board.PathID
}

func newOffboard(t *testing.T) offboard {
	t.Helper()
	var f offboard
	bl := board.NewBuilder()
	ha := bl.AddHex("A1", 0, 0)
	ho := bl.AddHex("B1", 1, 0)
	f.a = bl.AddNode(ha, board.NodeSpec{Kind: board.City, Slots: 1, Route: board.RouteMandatory})
	f.o = bl.AddNode(ho, board.NodeSpec{Kind: board.Offboard, Route: board.RouteMandatory})
	f.p0 = bl.AddPath(ha, board.PathSpec{A: board.NodeEnd(f.a), B: board.EdgeEnd(0)})
	f.p1 = bl.AddPath(ho, board.PathSpec{A: board.EdgeEnd(3), B: board.NodeEnd(f.o), Terminal: true})
	bl.AddCorporation(board.CorporationSpec{ID: "X", HomeCity: -1, Tokens: 2})
	bl.AddCorporation(board.CorporationSpec{ID: "Z", HomeCity: -1, Tokens: 2})
	bl.PlaceToken("X", f.a)
	bl.PlaceToken("Z", f.o)

	b, err := bl.Build()
	if err != nil {
		t.Fatalf("build offboard: %v", err)
	}
	f.b = b
	return f
}

// newLoop builds a four-hex loop: city C0 reaches city C3 both through
// town T1 and through junction J, which also has a spur off the board.
func newLoop(t *testing.T) *board.Board {
	t.Helper()
	bl := board.NewBuilder()
	h0 := bl.AddHex("H0", 0, 0)
	h1 := bl.AddHex("H1", 1, 0)
	h2 := bl.AddHex("H2", 0, 1)
	h3 := bl.AddHex("H3", 1, 1)

	c0 := bl.AddNode(h0, board.NodeSpec{Name: "C0", Kind: board.City, Slots: 2, Route: board.RouteMandatory})
	bl.AddPath(h0, board.PathSpec{A: board.NodeEnd(c0), B: board.EdgeEnd(0)})
	bl.AddPath(h0, board.PathSpec{A: board.NodeEnd(c0), B: board.EdgeEnd(5)})

	t1 := bl.AddNode(h1, board.NodeSpec{Name: "T1", Kind: board.Town, Route: board.RouteOptional})
	bl.AddPath(h1, board.PathSpec{A: board.EdgeEnd(3), B: board.NodeEnd(t1)})
	bl.AddPath(h1, board.PathSpec{A: board.NodeEnd(t1), B: board.EdgeEnd(5)})

	j := bl.AddJunction(h2)
	bl.AddPath(h2, board.PathSpec{A: board.EdgeEnd(2), B: board.JunctionEnd(j)})
	bl.AddPath(h2, board.PathSpec{A: board.JunctionEnd(j), B: board.EdgeEnd(0)})
	bl.AddPath(h2, board.PathSpec{A: board.JunctionEnd(j), B: board.EdgeEnd(4)})

	c3 := bl.AddNode(h3, board.NodeSpec{Name: "C3", Kind: board.City, Slots: 1, Route: board.RouteMandatory})
	bl.AddPath(h3, board.PathSpec{A: board.EdgeEnd(2), B: board.NodeEnd(c3)})
	bl.AddPath(h3, board.PathSpec{A: board.EdgeEnd(3), B: board.NodeEnd(c3)})

	bl.AddCorporation(board.CorporationSpec{ID: "X", HomeCity: -1, Tokens: 2})
	bl.PlaceToken("X", c0)

	b, err := bl.Build()
	if err != nil {
		t.Fatalf("build loop: %v", err)
	}
	return b
}

// snapshot captures every derived output of a graph for comparison.
type snapshot struct {
	nodes     []board.NodeID
	paths     []board.PathID
	junctions []board.JunctionID
	hexes     []board.HexID
	reached   []board.NodeID
	layable   map[board.HexID][]board.Direction
	route     RouteInfo
}

func snap(g *Graph) snapshot {
	return snapshot{
		nodes:     g.VisitedNodes(),
		paths:     g.VisitedPaths(),
		junctions: g.VisitedJunctions(),
		hexes:     g.VisitedHexes(),
		reached:   g.ReachedNodes(),
		layable:   g.LayableHexes(),
		route:     g.RouteInfo(),
	}
}
