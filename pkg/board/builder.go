package board

import (
	"errors"
	"fmt"
	"slices"
)

// NodeSpec describes a node added with [Builder.AddNode].
type NodeSpec struct {
	Name         string
	Kind         NodeKind
	Slots        int
	Route        RouteKind
	Reservations []CorpID
}

// PathSpec describes a path added with [Builder.AddPath]. Edge ends are
// absolute board directions.
type PathSpec struct {
	A, B     End
	Terminal bool
	Track    TrackType
}

// CorporationSpec describes a corporation added with [Builder.AddCorporation].
type CorporationSpec struct {
	ID        CorpID
	Name      string
	Home      []HexID
	HomeCity  int
	Tokens    int
	Regions   []HexID
	Abilities []Ability
}

var errBuilderUsed = errors.New("board: builder already built")

// Builder assembles a [Board]. The first error encountered is remembered
// and returned by [Builder.Build]; later calls become no-ops.
//
// The zero value is not usable; use [NewBuilder].
type Builder struct {
	b   *Board
	err error
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{b: &Board{
		byName:    make(map[string]HexID),
		byCoord:   make(map[[2]int]HexID),
		edgePaths: make(map[edgeKey][]PathID),
		corps:     make(map[CorpID]*Corporation),
	}}
}

// Err returns the first error recorded by the builder.
func (bl *Builder) Err() error { return bl.err }

func (bl *Builder) fail(err error) {
	if bl.err == nil {
		bl.err = err
	}
}

// AddHex adds a hex at axial coordinate (q, r).
func (bl *Builder) AddHex(name string, q, r int) HexID {
	if bl.err != nil {
		return NoHex
	}
	if _, dup := bl.b.byName[name]; dup {
		bl.fail(fmt.Errorf("%w: %s", ErrDuplicateHex, name))
		return NoHex
	}
	if other, dup := bl.b.byCoord[[2]int{q, r}]; dup {
		bl.fail(fmt.Errorf("%w: %s and %s at (%d,%d)", ErrDuplicateHex, bl.b.hexes[other].Name, name, q, r))
		return NoHex
	}

	id := HexID(len(bl.b.hexes))
	h := Hex{ID: id, Name: name, Q: q, R: r}
	for d := range h.Neighbors {
		h.Neighbors[d] = NoHex
	}
	bl.b.hexes = append(bl.b.hexes, h)
	bl.b.byName[name] = id
	bl.b.byCoord[[2]int{q, r}] = id
	return id
}

// SetTile records the tile name and rotation placed on h.
func (bl *Builder) SetTile(h HexID, tile string, rotation int) {
	if !bl.checkHex(h) {
		return
	}
	bl.b.hexes[h].Tile = tile
	bl.b.hexes[h].Rotation = ((rotation % Directions) + Directions) % Directions
}

// AddNode adds a node to h.
func (bl *Builder) AddNode(h HexID, spec NodeSpec) NodeID {
	if !bl.checkHex(h) {
		return NoNode
	}
	id := NodeID(len(bl.b.nodes))
	bl.b.nodes = append(bl.b.nodes, Node{
		ID:           id,
		Hex:          h,
		Index:        len(bl.b.hexes[h].Nodes),
		Name:         spec.Name,
		Kind:         spec.Kind,
		Slots:        spec.Slots,
		Reservations: slices.Clone(spec.Reservations),
		Route:        spec.Route,
	})
	bl.b.hexes[h].Nodes = append(bl.b.hexes[h].Nodes, id)
	return id
}

// AddJunction adds a junction to h.
func (bl *Builder) AddJunction(h HexID) JunctionID {
	if !bl.checkHex(h) {
		return -1
	}
	id := JunctionID(len(bl.b.junctions))
	bl.b.junctions = append(bl.b.junctions, Junction{ID: id, Hex: h})
	bl.b.hexes[h].Junctions = append(bl.b.hexes[h].Junctions, id)
	return id
}

// AddPath adds a path to h. Node and junction ends must already exist on h.
func (bl *Builder) AddPath(h HexID, spec PathSpec) PathID {
	if !bl.checkHex(h) {
		return NoPath
	}
	for _, e := range []End{spec.A, spec.B} {
		if err := bl.checkEnd(h, e); err != nil {
			bl.fail(err)
			return NoPath
		}
	}
	if spec.A == spec.B {
		bl.fail(fmt.Errorf("%w: both ends are %s on %s", ErrBadEnd, spec.A, bl.b.hexes[h].Name))
		return NoPath
	}

	id := PathID(len(bl.b.paths))
	bl.b.paths = append(bl.b.paths, Path{
		ID:       id,
		Hex:      h,
		A:        spec.A,
		B:        spec.B,
		Terminal: spec.Terminal,
		Track:    spec.Track,
	})
	bl.b.hexes[h].Paths = append(bl.b.hexes[h].Paths, id)

	for _, e := range []End{spec.A, spec.B} {
		switch e.Kind {
		case EndEdge:
			k := edgeKey{h, e.Edge}
			bl.b.edgePaths[k] = append(bl.b.edgePaths[k], id)
		case EndNode:
			bl.b.nodes[e.Node].Paths = append(bl.b.nodes[e.Node].Paths, id)
		case EndJunction:
			bl.b.junctions[e.Junction].Paths = append(bl.b.junctions[e.Junction].Paths, id)
		}
	}
	return id
}

// AddCorporation registers a corporation.
func (bl *Builder) AddCorporation(spec CorporationSpec) {
	if bl.err != nil {
		return
	}
	if _, dup := bl.b.corps[spec.ID]; dup {
		bl.fail(fmt.Errorf("%w: %s", ErrDuplicateCorporation, spec.ID))
		return
	}
	for _, h := range slices.Concat(spec.Home, spec.Regions) {
		if !bl.checkHex(h) {
			return
		}
	}
	abilities := make([]Ability, len(spec.Abilities))
	for i, a := range spec.Abilities {
		for _, h := range a.Hexes {
			if !bl.checkHex(h) {
				return
			}
		}
		abilities[i] = Ability{Kind: a.Kind, Owner: a.Owner, Hexes: slices.Clone(a.Hexes)}
	}

	bl.b.corps[spec.ID] = &Corporation{
		ID:        spec.ID,
		Name:      spec.Name,
		Home:      slices.Clone(spec.Home),
		HomeCity:  spec.HomeCity,
		Tokens:    spec.Tokens,
		Regions:   slices.Clone(spec.Regions),
		Abilities: abilities,
	}
	bl.b.corpOrder = append(bl.b.corpOrder, spec.ID)
}

// PlaceToken puts corp's next token on node n.
func (bl *Builder) PlaceToken(corp CorpID, n NodeID) {
	if bl.err != nil {
		return
	}
	c, ok := bl.b.corps[corp]
	if !ok {
		bl.fail(fmt.Errorf("%w: %s", ErrUnknownCorporation, corp))
		return
	}
	if n < 0 || int(n) >= len(bl.b.nodes) {
		bl.fail(fmt.Errorf("%w: %d", ErrUnknownNode, n))
		return
	}
	node := &bl.b.nodes[n]
	if len(node.Tokens) >= max(node.Slots, 1) {
		bl.fail(fmt.Errorf("%w: %s on %s", ErrSlotsFull, corp, bl.b.hexes[node.Hex].Name))
		return
	}
	node.Tokens = append(node.Tokens, corp)
	c.Placed = append(c.Placed, n)
}

// Build links neighboring hexes and returns the finished board.
func (bl *Builder) Build() (*Board, error) {
	if bl.err != nil {
		return nil, bl.err
	}
	b := bl.b
	for i := range b.hexes {
		h := &b.hexes[i]
		for d, off := range axialOffsets {
			if n, ok := b.byCoord[[2]int{h.Q + off[0], h.R + off[1]}]; ok {
				h.Neighbors[d] = n
			}
		}
	}

	digest, err := b.computeDigest()
	if err != nil {
		return nil, err
	}
	b.digest = digest
	bl.err = errBuilderUsed
	return b, nil
}

func (bl *Builder) checkHex(h HexID) bool {
	if bl.err != nil {
		return false
	}
	if h < 0 || int(h) >= len(bl.b.hexes) {
		bl.fail(fmt.Errorf("%w: %d", ErrUnknownHex, h))
		return false
	}
	return true
}

func (bl *Builder) checkEnd(h HexID, e End) error {
	switch e.Kind {
	case EndEdge:
		if !e.Edge.Valid() {
			return fmt.Errorf("%w: %d", ErrBadDirection, e.Edge)
		}
	case EndNode:
		if e.Node < 0 || int(e.Node) >= len(bl.b.nodes) || bl.b.nodes[e.Node].Hex != h {
			return fmt.Errorf("%w: %d on %s", ErrUnknownNode, e.Node, bl.b.hexes[h].Name)
		}
	case EndJunction:
		if e.Junction < 0 || int(e.Junction) >= len(bl.b.junctions) || bl.b.junctions[e.Junction].Hex != h {
			return fmt.Errorf("%w: %d on %s", ErrUnknownJunction, e.Junction, bl.b.hexes[h].Name)
		}
	default:
		return fmt.Errorf("%w: kind %d", ErrBadEnd, e.Kind)
	}
	return nil
}
