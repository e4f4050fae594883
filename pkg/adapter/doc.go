// Package adapter answers connectivity queries for every corporation on a
// board, driving one lazily created [graph.Graph] per corporation only as
// far as each query needs.
//
// Results are memoized per corporation until the caller invalidates them
// with [Adapter.ClearGraphFor] or [Adapter.Clear]. The rules engine must
// invalidate a corporation whenever its track, tokens or abilities change.
//
// An Adapter is not safe for concurrent use.
package adapter
