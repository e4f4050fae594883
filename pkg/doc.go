// Package pkg provides the core libraries for trackgraph, a connectivity
// engine for 18xx-style rail boards.
//
// # Overview
//
// A corporation's network is everything its track can reach from the
// cities it holds tokens in. The pkg directory is organized into:
//
//  1. [board] - Hexes, tiles, nodes, paths and corporations, loaded from TOML
//  2. [queue] - The FIFO that orders the breadth-first search
//  3. [graph] - The incremental, rewindable search over one corporation's network
//  4. [adapter] - Memoized connectivity queries on top of per-corporation graphs
//  5. [report] - Every query for a corporation collected into one serializable value
//  6. [render] - DOT/SVG/PNG/PDF drawings of a board and a search state
//  7. [pipeline] - Report and render stages with caching
//  8. [cache] - Null, file, Redis and MongoDB result caches
//
// # Architecture
//
// The typical data flow:
//
//	board.toml
//	    ↓
//	[board] package (arena of hexes, nodes and paths)
//	    ↓
//	[graph] package (breadth-first search, one step at a time)
//	    ↓
//	[adapter] package (route info, tokenable cities, layable hexes)
//	    ↓
//	[report] / [render] packages
//
// # Quick Start
//
//	b, err := board.LoadFile("1830.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	a := adapter.New(b, b, adapter.Options{})
//	if a.RouteInfo("PRR").Available {
//	    fmt.Println("PRR can run a train")
//	}
package pkg
