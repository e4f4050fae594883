// Package graph runs an incremental breadth-first search over the track
// network a corporation can reach from its tokens.
//
// # Atoms
//
// The search visits three kinds of [Atom]: paths, nodes (cities, towns
// and offboards) and junctions. Each queued [Item] records the
// [Provenance] that reached it, and an atom is processed at most once per
// provenance. Items also carry the chain of stops they have passed, so a
// single trace never runs through the same node twice.
//
// # Stepping
//
// A [Graph] is a resumable state machine. [Graph.Advance] processes one
// item; [Graph.AdvanceUntil] runs until a predicate holds, which lets
// callers stop as soon as a query is answered and resume later:
//
//	g := graph.New(b, b, "PRR", graph.Options{})
//	g.AdvanceUntil(func(g *graph.Graph) bool { return g.RouteInfo().Maximal() })
//
// [Graph.JumpTo] and [Graph.Reverse] rewind by replaying from the seeded
// state. Replays are exact because neighbors are always expanded in tile
// definition order.
//
// # Results
//
// Visited sets, reached nodes, layable hex edges and [RouteInfo] grow
// monotonically as the search advances. [Graph.Classify] labels atoms for
// step-by-step visualization.
package graph
