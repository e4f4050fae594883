// Package board models a hex rail board: hexes with placed tiles, the
// paths, cities, towns, offboards and junctions on those tiles, and the
// corporations holding tokens on them.
//
// # Arenas
//
// Every object is stored once in an arena owned by [Board] and addressed
// by a stable integer index ([HexID], [PathID], [NodeID], [JunctionID]).
// Searches keep indices only and never copy board data.
//
// # Geometry
//
// Hexes use axial coordinates (q, r). Direction d of a hex borders
// direction d.Invert() of the neighbor across it:
//
//	0: (+1, 0)   1: (+1,-1)   2: (0,-1)
//	3: (-1, 0)   4: (-1,+1)   5: (0,+1)
//
// Tile definitions use directions relative to rotation 0; the rotation of
// the placed tile is applied when the board is built, so [Path] edge ends
// are always absolute.
//
// # Building
//
// Boards are assembled with [Builder] or decoded from TOML with
// [LoadFile] and [Decode]:
//
//	bl := board.NewBuilder()
//	a := bl.AddHex("A1", 0, 0)
//	city := bl.AddNode(a, board.NodeSpec{Kind: board.City, Slots: 1})
//	bl.AddPath(a, board.PathSpec{A: board.NodeEnd(city), B: board.EdgeEnd(0)})
//	b, err := bl.Build()
//
// A built Board is immutable. Whenever track or tokens change, build a new
// board and drop every search computed against the old one.
package board
