package graph

import "github.com/matzehuels/trackgraph/pkg/board"

// Board is the read-only board model the search walks. [*board.Board]
// implements it.
type Board interface {
	Path(id board.PathID) *board.Path
	Node(id board.NodeID) *board.Node
	Junction(id board.JunctionID) *board.Junction
	Neighbor(h board.HexID, d board.Direction) (board.HexID, bool)
	PathsAtEdge(h board.HexID, d board.Direction) []board.PathID
	HexNodes(h board.HexID) []board.NodeID
	Blocks(n board.NodeID, corp board.CorpID) bool
	Tokenable(n board.NodeID, corp board.CorpID, opts board.TokenOpts) bool
}

// Rules is the part of the rules engine the search consults.
// [*board.Board] implements it from its corporation definitions.
type Rules interface {
	PlacedTokens(corp board.CorpID) []board.Token
	HomeNodes(corp board.CorpID) []board.NodeID
	AvailableTokens(corp board.CorpID) int
	Abilities(corp board.CorpID, kind board.AbilityKind) []board.Ability
}

// RegionChecker is implemented by rules that restrict where a corporation
// may build track.
type RegionChecker interface {
	HexAllowed(corp board.CorpID, h board.HexID) bool
}

var (
	_ Board         = (*board.Board)(nil)
	_ Rules         = (*board.Board)(nil)
	_ RegionChecker = (*board.Board)(nil)
)
