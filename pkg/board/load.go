package board

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// File is the TOML layout of a board scenario.
//
//	[tiles.57]
//	nodes = [{ kind = "city", slots = 1 }]
//	paths = [{ a = "edge:0", b = "node:0" }, { a = "node:0", b = "edge:3" }]
//
//	[[hexes]]
//	name = "C3"
//	q = 2
//	r = 0
//	tile = "57"
//	rotation = 1
//
//	[[corporations]]
//	id = "PRR"
//	home = ["C3"]
//	tokens = 3
//	placed = ["C3"]
type File struct {
	Tiles        map[string]TileDef `toml:"tiles"`
	Hexes        []HexDef           `toml:"hexes"`
	Corporations []CorporationDef   `toml:"corporations"`
}

// TileDef is a reusable tile. Edge ends are relative to rotation 0.
type TileDef struct {
	Nodes     []NodeDef `toml:"nodes"`
	Junctions int       `toml:"junctions"`
	Paths     []PathDef `toml:"paths"`
}

// NodeDef describes a node of a tile.
type NodeDef struct {
	Name     string   `toml:"name"`
	Kind     string   `toml:"kind"`
	Slots    int      `toml:"slots"`
	Route    string   `toml:"route"`
	Reserved []string `toml:"reserved"`
}

// PathDef describes a path of a tile. Ends are "edge:N", "node:N" or
// "junction:N", where N indexes the tile's nodes or junctions.
type PathDef struct {
	A        string `toml:"a"`
	B        string `toml:"b"`
	Terminal bool   `toml:"terminal"`
	Track    string `toml:"track"`
}

// HexDef places a hex and its tile. Inline nodes, junctions and paths
// are appended after those of the named tile.
type HexDef struct {
	Name     string `toml:"name"`
	Q        int    `toml:"q"`
	R        int    `toml:"r"`
	Tile     string `toml:"tile"`
	Rotation int    `toml:"rotation"`

	Nodes     []NodeDef `toml:"nodes"`
	Junctions int       `toml:"junctions"`
	Paths     []PathDef `toml:"paths"`
}

func (hd HexDef) inline() TileDef {
	return TileDef{Nodes: hd.Nodes, Junctions: hd.Junctions, Paths: hd.Paths}
}

// CorporationDef describes a corporation. Placed tokens are hex names,
// optionally suffixed with "#N" to pick the hex's Nth node.
type CorporationDef struct {
	ID        string       `toml:"id"`
	Name      string       `toml:"name"`
	Home      []string     `toml:"home"`
	HomeCity  *int         `toml:"home_city"`
	Tokens    int          `toml:"tokens"`
	Placed    []string     `toml:"placed"`
	Regions   []string     `toml:"regions"`
	Abilities []AbilityDef `toml:"abilities"`
}

// AbilityDef describes a token or teleport ability.
type AbilityDef struct {
	Kind  string   `toml:"kind"`
	Owner string   `toml:"owner"`
	Hexes []string `toml:"hexes"`
}

// LoadFile reads a board scenario from a TOML file.
func LoadFile(path string) (*Board, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	b, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// Decode reads a board scenario in TOML from r.
func Decode(r io.Reader) (*Board, error) {
	var f File
	md, err := toml.NewDecoder(r).Decode(&f)
	if err != nil {
		return nil, fmt.Errorf("decode board: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("decode board: unknown key %q", undecoded[0].String())
	}
	return f.Build()
}

// Build turns a decoded scenario into a [Board].
func (f *File) Build() (*Board, error) {
	bl := NewBuilder()

	for _, hd := range f.Hexes {
		h := bl.AddHex(hd.Name, hd.Q, hd.R)
		bl.SetTile(h, hd.Tile, hd.Rotation)
		if hd.Tile != "" {
			td, ok := f.Tiles[hd.Tile]
			if !ok {
				return nil, fmt.Errorf("hex %s: unknown tile %q", hd.Name, hd.Tile)
			}
			if err := placeTile(bl, h, td, hd.Rotation); err != nil {
				return nil, fmt.Errorf("hex %s: %w", hd.Name, err)
			}
		}
		if err := placeTile(bl, h, hd.inline(), hd.Rotation); err != nil {
			return nil, fmt.Errorf("hex %s: %w", hd.Name, err)
		}
	}
	if err := bl.Err(); err != nil {
		return nil, err
	}

	lookup := func(name string) (HexID, error) {
		id, ok := bl.b.byName[name]
		if !ok {
			return NoHex, fmt.Errorf("%w: %s", ErrUnknownHex, name)
		}
		return id, nil
	}

	for _, cd := range f.Corporations {
		spec := CorporationSpec{ID: CorpID(cd.ID), Name: cd.Name, Tokens: cd.Tokens, HomeCity: -1}
		if cd.HomeCity != nil {
			spec.HomeCity = *cd.HomeCity
		}
		var err error
		if spec.Home, err = lookupAll(cd.Home, lookup); err != nil {
			return nil, fmt.Errorf("corporation %s home: %w", cd.ID, err)
		}
		if spec.Regions, err = lookupAll(cd.Regions, lookup); err != nil {
			return nil, fmt.Errorf("corporation %s regions: %w", cd.ID, err)
		}
		for _, ad := range cd.Abilities {
			hexes, err := lookupAll(ad.Hexes, lookup)
			if err != nil {
				return nil, fmt.Errorf("corporation %s ability: %w", cd.ID, err)
			}
			kind, err := ParseAbilityKind(ad.Kind)
			if err != nil {
				return nil, fmt.Errorf("corporation %s ability: %w", cd.ID, err)
			}
			spec.Abilities = append(spec.Abilities, Ability{Kind: kind, Owner: ad.Owner, Hexes: hexes})
		}
		bl.AddCorporation(spec)

		for _, ref := range cd.Placed {
			n, err := resolveNode(bl, ref, lookup)
			if err != nil {
				return nil, fmt.Errorf("corporation %s token %q: %w", cd.ID, ref, err)
			}
			bl.PlaceToken(spec.ID, n)
		}
	}

	return bl.Build()
}

func placeTile(bl *Builder, h HexID, td TileDef, rotation int) error {
	nodes := make([]NodeID, 0, len(td.Nodes))
	for _, nd := range td.Nodes {
		kind, err := ParseNodeKind(nd.Kind)
		if err != nil {
			return err
		}
		route, err := ParseRouteKind(nd.Route, kind)
		if err != nil {
			return err
		}
		spec := NodeSpec{Name: nd.Name, Kind: kind, Slots: nd.Slots, Route: route}
		for _, r := range nd.Reserved {
			spec.Reservations = append(spec.Reservations, CorpID(r))
		}
		nodes = append(nodes, bl.AddNode(h, spec))
	}

	junctions := make([]JunctionID, 0, td.Junctions)
	for range td.Junctions {
		junctions = append(junctions, bl.AddJunction(h))
	}

	for _, pd := range td.Paths {
		a, err := parseEnd(pd.A, rotation, nodes, junctions)
		if err != nil {
			return err
		}
		b, err := parseEnd(pd.B, rotation, nodes, junctions)
		if err != nil {
			return err
		}
		track, err := ParseTrackType(pd.Track)
		if err != nil {
			return err
		}
		bl.AddPath(h, PathSpec{A: a, B: b, Terminal: pd.Terminal, Track: track})
	}
	return bl.Err()
}

// parseEnd parses "edge:N", "node:N" or "junction:N" relative to one tile.
func parseEnd(s string, rotation int, nodes []NodeID, junctions []JunctionID) (End, error) {
	kind, idx, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return End{}, fmt.Errorf("%w: %q", ErrBadEnd, s)
	}
	i, err := strconv.Atoi(idx)
	if err != nil {
		return End{}, fmt.Errorf("%w: %q", ErrBadEnd, s)
	}

	switch kind {
	case "edge":
		d := Direction(i)
		if !d.Valid() {
			return End{}, fmt.Errorf("%w: %q", ErrBadDirection, s)
		}
		return EdgeEnd(d.Rotate(rotation)), nil
	case "node":
		if i < 0 || i >= len(nodes) {
			return End{}, fmt.Errorf("%w: %q", ErrUnknownNode, s)
		}
		return NodeEnd(nodes[i]), nil
	case "junction":
		if i < 0 || i >= len(junctions) {
			return End{}, fmt.Errorf("%w: %q", ErrUnknownJunction, s)
		}
		return JunctionEnd(junctions[i]), nil
	}
	return End{}, fmt.Errorf("%w: %q", ErrBadEnd, s)
}

// resolveNode parses "HEX" or "HEX#N" into a node on that hex.
func resolveNode(bl *Builder, ref string, lookup func(string) (HexID, error)) (NodeID, error) {
	name, idx, hasIdx := strings.Cut(ref, "#")
	h, err := lookup(name)
	if err != nil {
		return NoNode, err
	}
	i := 0
	if hasIdx {
		if i, err = strconv.Atoi(idx); err != nil {
			return NoNode, fmt.Errorf("%w: %q", ErrUnknownNode, ref)
		}
	}
	nodes := bl.b.hexes[h].Nodes
	if i < 0 || i >= len(nodes) {
		return NoNode, fmt.Errorf("%w: %q", ErrUnknownNode, ref)
	}
	return nodes[i], nil
}

func lookupAll(names []string, lookup func(string) (HexID, error)) ([]HexID, error) {
	out := make([]HexID, 0, len(names))
	for _, n := range names {
		id, err := lookup(n)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
