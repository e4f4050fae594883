package board

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDuplicateHex is returned when two hexes share a name or coordinate.
	ErrDuplicateHex = errors.New("duplicate hex")

	// ErrUnknownHex is returned when a hex name or ID does not exist.
	ErrUnknownHex = errors.New("unknown hex")

	// ErrUnknownNode is returned when a node index does not exist on its hex.
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownJunction is returned when a junction index does not exist on its hex.
	ErrUnknownJunction = errors.New("unknown junction")

	// ErrBadDirection is returned for edge directions outside 0..5.
	ErrBadDirection = errors.New("edge direction must be in 0..5")

	// ErrBadEnd is returned when a path end cannot be parsed or is degenerate.
	ErrBadEnd = errors.New("invalid path end")

	// ErrSlotsFull is returned when placing a token into a city with no free slot.
	ErrSlotsFull = errors.New("no free token slot")

	// ErrDuplicateCorporation is returned when two corporations share an ID.
	ErrDuplicateCorporation = errors.New("duplicate corporation")

	// ErrUnknownCorporation is returned when a corporation ID does not exist.
	ErrUnknownCorporation = errors.New("unknown corporation")

	// ErrUnknownAbility is returned for ability kinds other than token and teleport.
	ErrUnknownAbility = errors.New("unknown ability kind")
)

// Arena indices. Every board object is addressed by its position in the
// owning [Board]'s arena; the indices are stable for the board's lifetime.
type (
	HexID      int
	PathID     int
	NodeID     int
	JunctionID int
)

// Sentinels for absent references.
const (
	NoHex  HexID  = -1
	NoPath PathID = -1
	NoNode NodeID = -1
)

// Direction is one of a hex's six boundary directions, 0 through 5.
// Opposite directions differ by three.
type Direction int

// Directions is the number of boundaries of a hex.
const Directions = 6

// Valid reports whether d is in 0..5.
func (d Direction) Valid() bool { return d >= 0 && d < Directions }

// Invert returns the direction of the same boundary seen from the neighbor.
func (d Direction) Invert() Direction { return (d + 3) % Directions }

// Rotate returns d turned clockwise by r steps.
func (d Direction) Rotate(r int) Direction {
	return Direction(((int(d)+r)%Directions + Directions) % Directions)
}

// axial neighbor offsets indexed by direction.
var axialOffsets = [Directions][2]int{
	{+1, 0}, {+1, -1}, {0, -1}, {-1, 0}, {-1, +1}, {0, +1},
}

// TrackType classifies the gauge of a path.
type TrackType int

const (
	TrackBroad TrackType = iota
	TrackNarrow
	TrackDual
)

// Compatible reports whether a train on t may continue onto o.
func (t TrackType) Compatible(o TrackType) bool {
	return t == o || t == TrackDual || o == TrackDual
}

func (t TrackType) String() string {
	switch t {
	case TrackBroad:
		return "broad"
	case TrackNarrow:
		return "narrow"
	case TrackDual:
		return "dual"
	}
	return fmt.Sprintf("TrackType(%d)", int(t))
}

// ParseTrackType parses "broad", "narrow" or "dual". The empty string is broad.
func ParseTrackType(s string) (TrackType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "broad":
		return TrackBroad, nil
	case "narrow":
		return TrackNarrow, nil
	case "dual":
		return TrackDual, nil
	}
	return 0, fmt.Errorf("unknown track type %q", s)
}

// NodeKind distinguishes revenue locations.
type NodeKind int

const (
	City NodeKind = iota
	Town
	Offboard
)

func (k NodeKind) String() string {
	switch k {
	case City:
		return "city"
	case Town:
		return "town"
	case Offboard:
		return "offboard"
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

// ParseNodeKind parses "city", "town" or "offboard".
func ParseNodeKind(s string) (NodeKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "city":
		return City, nil
	case "town":
		return Town, nil
	case "offboard":
		return Offboard, nil
	}
	return 0, fmt.Errorf("unknown node kind %q", s)
}

// RouteKind is a node's weight when deciding whether a legal route exists.
type RouteKind int

const (
	RouteNone RouteKind = iota
	RouteOptional
	RouteMandatory
)

func (r RouteKind) String() string {
	switch r {
	case RouteNone:
		return "none"
	case RouteOptional:
		return "optional"
	case RouteMandatory:
		return "mandatory"
	}
	return fmt.Sprintf("RouteKind(%d)", int(r))
}

// ParseRouteKind parses "none", "optional" or "mandatory". The empty string
// selects the default for kind: towns are optional, everything else mandatory.
func ParseRouteKind(s string, kind NodeKind) (RouteKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		if kind == Town {
			return RouteOptional, nil
		}
		return RouteMandatory, nil
	case "none":
		return RouteNone, nil
	case "optional":
		return RouteOptional, nil
	case "mandatory":
		return RouteMandatory, nil
	}
	return 0, fmt.Errorf("unknown route kind %q", s)
}

// EndKind tells what a path end attaches to.
type EndKind int

const (
	EndEdge EndKind = iota
	EndNode
	EndJunction
)

// End is one end of a path: a hex boundary, a node or a junction.
type End struct {
	Kind     EndKind
	Edge     Direction
	Node     NodeID
	Junction JunctionID
}

// EdgeEnd returns an end on boundary d.
func EdgeEnd(d Direction) End { return End{Kind: EndEdge, Edge: d, Node: NoNode, Junction: -1} }

// NodeEnd returns an end on node n.
func NodeEnd(n NodeID) End { return End{Kind: EndNode, Node: n, Junction: -1} }

// JunctionEnd returns an end on junction j.
func JunctionEnd(j JunctionID) End { return End{Kind: EndJunction, Node: NoNode, Junction: j} }

func (e End) String() string {
	switch e.Kind {
	case EndEdge:
		return fmt.Sprintf("edge:%d", e.Edge)
	case EndNode:
		return fmt.Sprintf("node:%d", e.Node)
	case EndJunction:
		return fmt.Sprintf("junction:%d", e.Junction)
	}
	return "end:?"
}

// CorpID identifies a corporation.
type CorpID string

// Hex is a board cell with its placed tile.
type Hex struct {
	ID        HexID
	Name      string
	Q, R      int // axial coordinates
	Tile      string
	Rotation  int
	Neighbors [Directions]HexID
	Paths     []PathID
	Nodes     []NodeID
	Junctions []JunctionID
}

// Path is a track segment between two ends on one hex.
// Edge ends are stored in absolute board directions (tile rotation applied).
type Path struct {
	ID       PathID
	Hex      HexID
	A, B     End
	Terminal bool
	Track    TrackType
}

// Ends returns both ends in definition order.
func (p *Path) Ends() [2]End { return [2]End{p.A, p.B} }

// Node is a city, town or offboard location.
type Node struct {
	ID           NodeID
	Hex          HexID
	Index        int // position among the hex's nodes
	Name         string
	Kind         NodeKind
	Slots        int
	Tokens       []CorpID // occupied slots in placement order
	Reservations []CorpID
	Route        RouteKind
	Paths        []PathID
}

// HasToken reports whether corp holds a token on n.
func (n *Node) HasToken(corp CorpID) bool {
	for _, c := range n.Tokens {
		if c == corp {
			return true
		}
	}
	return false
}

// Junction is an interior pass-through vertex.
type Junction struct {
	ID    JunctionID
	Hex   HexID
	Paths []PathID
}

// Token anchors a corporation at a node.
type Token struct {
	Corp CorpID
	Node NodeID
}

// AbilityKind names a corporation ability relevant to connectivity.
type AbilityKind string

const (
	AbilityToken    AbilityKind = "token"
	AbilityTeleport AbilityKind = "teleport"
)

// ParseAbilityKind parses "token" or "teleport".
func ParseAbilityKind(s string) (AbilityKind, error) {
	switch k := AbilityKind(strings.ToLower(strings.TrimSpace(s))); k {
	case AbilityToken, AbilityTeleport:
		return k, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownAbility, s)
}

// Ability grants connectivity or tokenability on hexes outside the
// corporation's track network.
type Ability struct {
	Kind  AbilityKind
	Owner string
	Hexes []HexID
}

// Corporation is the rules-side view of a railroad.
type Corporation struct {
	ID        CorpID
	Name      string
	Home      []HexID
	HomeCity  int // node index on the home hex; -1 means every city
	Tokens    int // total tokens, placed or not
	Placed    []NodeID
	Regions   []HexID // hexes the corporation may build in; empty means all
	Abilities []Ability
}

// TokenOpts tunes [Board.Tokenable].
type TokenOpts struct {
	// Cheater grants one slot beyond the city's capacity.
	Cheater bool
	// SameHexAllowed permits a second token on a hex where the corporation
	// already holds a token in another city.
	SameHexAllowed bool
	// Tokens is the number of tokens the corporation can still place.
	Tokens int
}
