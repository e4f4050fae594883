package board

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"
)

// Board is an immutable rail board: hexes with placed tiles, the paths,
// nodes and junctions of those tiles, and the corporations playing on it.
//
// All objects live in arenas indexed by [HexID], [PathID], [NodeID] and
// [JunctionID]. Accessors return pointers into the arenas; callers must
// treat them as read-only. Build boards with [Builder] or [Decode].
type Board struct {
	hexes     []Hex
	paths     []Path
	nodes     []Node
	junctions []Junction
	byName    map[string]HexID
	byCoord   map[[2]int]HexID
	edgePaths map[edgeKey][]PathID
	corps     map[CorpID]*Corporation
	corpOrder []CorpID
	digest    string
}

type edgeKey struct {
	hex HexID
	dir Direction
}

// NumHexes returns the number of hexes.
func (b *Board) NumHexes() int { return len(b.hexes) }

// NumPaths returns the number of paths.
func (b *Board) NumPaths() int { return len(b.paths) }

// NumNodes returns the number of nodes.
func (b *Board) NumNodes() int { return len(b.nodes) }

// NumJunctions returns the number of junctions.
func (b *Board) NumJunctions() int { return len(b.junctions) }

// Hex returns the hex with the given ID.
func (b *Board) Hex(id HexID) *Hex { return &b.hexes[id] }

// Path returns the path with the given ID.
func (b *Board) Path(id PathID) *Path { return &b.paths[id] }

// Node returns the node with the given ID.
func (b *Board) Node(id NodeID) *Node { return &b.nodes[id] }

// Junction returns the junction with the given ID.
func (b *Board) Junction(id JunctionID) *Junction { return &b.junctions[id] }

// HexByName looks up a hex by its coordinate label.
func (b *Board) HexByName(name string) (HexID, bool) {
	id, ok := b.byName[name]
	return id, ok
}

// HexName returns the coordinate label of h, or "" for [NoHex].
func (b *Board) HexName(h HexID) string {
	if h < 0 || int(h) >= len(b.hexes) {
		return ""
	}
	return b.hexes[h].Name
}

// Neighbor returns the hex across boundary d of h.
func (b *Board) Neighbor(h HexID, d Direction) (HexID, bool) {
	if !d.Valid() {
		return NoHex, false
	}
	n := b.hexes[h].Neighbors[d]
	return n, n != NoHex
}

// PathsAtEdge returns the paths of h that have an end on boundary d,
// in tile definition order.
func (b *Board) PathsAtEdge(h HexID, d Direction) []PathID {
	return b.edgePaths[edgeKey{h, d}]
}

// HexNodes returns the nodes placed on h.
func (b *Board) HexNodes(h HexID) []NodeID { return b.hexes[h].Nodes }

// Blocks reports whether node n stops corp from passing through.
// A city blocks when every slot is taken and none holds corp's token.
// Towns and offboards never block.
func (b *Board) Blocks(n NodeID, corp CorpID) bool {
	node := &b.nodes[n]
	if node.Kind != City || node.HasToken(corp) {
		return false
	}
	return len(node.Tokens) >= node.Slots
}

// Tokenable reports whether corp could place a token on node n.
func (b *Board) Tokenable(n NodeID, corp CorpID, opts TokenOpts) bool {
	node := &b.nodes[n]
	if node.Kind != City || opts.Tokens <= 0 || node.HasToken(corp) {
		return false
	}
	if !opts.SameHexAllowed {
		for _, other := range b.hexes[node.Hex].Nodes {
			if other != n && b.nodes[other].HasToken(corp) {
				return false
			}
		}
	}

	taken := len(node.Tokens)
	reservedForCorp := false
	for _, r := range node.Reservations {
		if r == corp {
			reservedForCorp = true
			continue
		}
		taken++
	}
	if reservedForCorp {
		return true
	}

	capacity := node.Slots
	if opts.Cheater {
		capacity++
	}
	return taken < capacity
}

// Corporation returns the corporation with the given ID.
func (b *Board) Corporation(id CorpID) (*Corporation, bool) {
	c, ok := b.corps[id]
	return c, ok
}

// Corporations returns the corporation IDs in definition order.
func (b *Board) Corporations() []CorpID { return slices.Clone(b.corpOrder) }

// PlacedTokens returns corp's placed tokens in placement order.
func (b *Board) PlacedTokens(corp CorpID) []Token {
	c, ok := b.corps[corp]
	if !ok {
		return nil
	}
	tokens := make([]Token, len(c.Placed))
	for i, n := range c.Placed {
		tokens[i] = Token{Corp: corp, Node: n}
	}
	return tokens
}

// HomeNodes returns the cities on corp's home hexes, restricted to the
// home city index when one is configured.
func (b *Board) HomeNodes(corp CorpID) []NodeID {
	c, ok := b.corps[corp]
	if !ok {
		return nil
	}
	var out []NodeID
	for _, h := range c.Home {
		for _, n := range b.hexes[h].Nodes {
			node := &b.nodes[n]
			if node.Kind != City {
				continue
			}
			if c.HomeCity >= 0 && node.Index != c.HomeCity {
				continue
			}
			out = append(out, n)
		}
	}
	return out
}

// AvailableTokens returns how many tokens corp has not placed yet.
func (b *Board) AvailableTokens(corp CorpID) int {
	c, ok := b.corps[corp]
	if !ok {
		return 0
	}
	return max(c.Tokens-len(c.Placed), 0)
}

// Abilities returns corp's abilities of the given kind.
func (b *Board) Abilities(corp CorpID, kind AbilityKind) []Ability {
	c, ok := b.corps[corp]
	if !ok {
		return nil
	}
	var out []Ability
	for _, a := range c.Abilities {
		if a.Kind == kind {
			out = append(out, a)
		}
	}
	return out
}

// HexAllowed reports whether corp may build on h. Corporations without
// configured regions may build anywhere.
func (b *Board) HexAllowed(corp CorpID, h HexID) bool {
	c, ok := b.corps[corp]
	if !ok {
		return false
	}
	return len(c.Regions) == 0 || slices.Contains(c.Regions, h)
}

// Digest returns a stable SHA-256 fingerprint of the board's track and
// token state. Two boards with equal digests answer every connectivity
// query identically.
func (b *Board) Digest() string { return b.digest }

// snapshot is the hashed view of a board.
type snapshot struct {
	Hexes     []Hex          `json:"hexes"`
	Paths     []Path         `json:"paths"`
	Nodes     []Node         `json:"nodes"`
	Junctions []Junction     `json:"junctions"`
	Corps     []*Corporation `json:"corporations"`
}

func (b *Board) computeDigest() (string, error) {
	s := snapshot{Hexes: b.hexes, Paths: b.paths, Nodes: b.nodes, Junctions: b.junctions}
	for _, id := range b.corpOrder {
		s.Corps = append(s.Corps, b.corps[id])
	}
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("marshal board: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
