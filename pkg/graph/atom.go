package graph

import (
	"fmt"

	"github.com/matzehuels/trackgraph/pkg/board"
)

// AtomKind is the closed set of vertex kinds the search visits.
type AtomKind uint8

const (
	AtomPath AtomKind = iota
	AtomNode
	AtomJunction
)

func (k AtomKind) String() string {
	switch k {
	case AtomPath:
		return "path"
	case AtomNode:
		return "node"
	case AtomJunction:
		return "junction"
	}
	return fmt.Sprintf("AtomKind(%d)", uint8(k))
}

// Atom is one vertex of the search graph. Its identity is the arena index
// of the board object it wraps.
type Atom struct {
	Kind AtomKind
	ID   int
}

// PathAtom wraps a path.
func PathAtom(p board.PathID) Atom { return Atom{Kind: AtomPath, ID: int(p)} }

// NodeAtom wraps a node.
func NodeAtom(n board.NodeID) Atom { return Atom{Kind: AtomNode, ID: int(n)} }

// JunctionAtom wraps a junction.
func JunctionAtom(j board.JunctionID) Atom { return Atom{Kind: AtomJunction, ID: int(j)} }

// Path returns the wrapped path ID. Only meaningful for AtomPath.
func (a Atom) Path() board.PathID { return board.PathID(a.ID) }

// Node returns the wrapped node ID. Only meaningful for AtomNode.
func (a Atom) Node() board.NodeID { return board.NodeID(a.ID) }

// Junction returns the wrapped junction ID. Only meaningful for AtomJunction.
func (a Atom) Junction() board.JunctionID { return board.JunctionID(a.ID) }

func (a Atom) String() string { return fmt.Sprintf("%s:%d", a.Kind, a.ID) }

// Hex returns the hex the atom lies on.
func (a Atom) Hex(b Board) board.HexID {
	switch a.Kind {
	case AtomPath:
		return b.Path(a.Path()).Hex
	case AtomNode:
		return b.Node(a.Node()).Hex
	case AtomJunction:
		return b.Junction(a.Junction()).Hex
	}
	return board.NoHex
}

// Paths returns the paths incident to a node or junction.
func (a Atom) Paths(b Board) []board.PathID {
	switch a.Kind {
	case AtomNode:
		return b.Node(a.Node()).Paths
	case AtomJunction:
		return b.Junction(a.Junction()).Paths
	}
	return nil
}

// Edge is a hex boundary.
type Edge struct {
	Hex board.HexID
	Dir board.Direction
}

func (e Edge) String() string { return fmt.Sprintf("%d/%d", e.Hex, e.Dir) }

// Invert returns the same boundary seen from the neighboring hex.
// The boolean is false at the edge of the board.
func (e Edge) Invert(b Board) (Edge, bool) {
	n, ok := b.Neighbor(e.Hex, e.Dir)
	if !ok {
		return Edge{}, false
	}
	return Edge{Hex: n, Dir: e.Dir.Invert()}, true
}

// ContinuingPaths returns the paths on the far side of e that a train on
// track may continue onto, in tile definition order, together with the
// far-side edge they are entered through.
func ContinuingPaths(b Board, e Edge, track board.TrackType) ([]board.PathID, Edge) {
	far, ok := e.Invert(b)
	if !ok {
		return nil, Edge{}
	}
	var out []board.PathID
	for _, p := range b.PathsAtEdge(far.Hex, far.Dir) {
		if b.Path(p).Track.Compatible(track) {
			out = append(out, p)
		}
	}
	return out, far
}

// ProvenanceKind tells what caused an atom to be enqueued.
type ProvenanceKind uint8

const (
	FromToken ProvenanceKind = iota
	FromHome
	FromAtom
	FromEdge
)

func (k ProvenanceKind) String() string {
	switch k {
	case FromToken:
		return "token"
	case FromHome:
		return "home"
	case FromAtom:
		return "atom"
	case FromEdge:
		return "edge"
	}
	return fmt.Sprintf("ProvenanceKind(%d)", uint8(k))
}

// Provenance is the token, atom or edge that reached an atom. It is
// comparable and used as a set key.
type Provenance struct {
	Kind  ProvenanceKind
	Atom  Atom
	Edge  Edge
	Token int // index into the corporation's placed tokens, or home seed
}

// Tokened reports whether the provenance is a real token or home-as-token seed.
func (p Provenance) Tokened() bool { return p.Kind == FromToken || p.Kind == FromHome }

func (p Provenance) String() string {
	switch p.Kind {
	case FromToken, FromHome:
		return fmt.Sprintf("%s#%d", p.Kind, p.Token)
	case FromAtom:
		return p.Atom.String()
	case FromEdge:
		return "edge:" + p.Edge.String()
	}
	return p.Kind.String()
}

func fromAtom(a Atom) Provenance { return Provenance{Kind: FromAtom, Atom: a} }

func fromEdge(e Edge) Provenance { return Provenance{Kind: FromEdge, Edge: e} }
