package adapter

import (
	"maps"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/trackgraph/pkg/board"
	"github.com/matzehuels/trackgraph/pkg/errors"
	"github.com/matzehuels/trackgraph/pkg/graph"
	"github.com/matzehuels/trackgraph/pkg/observability"
)

// Query names passed to [observability.QueryHooks].
const (
	QueryCanToken        = "can_token"
	QueryRouteInfo       = "route_info"
	QueryTokenableCities = "tokenable_cities"
	QueryConnectedHexes  = "connected_hexes"
	QueryConnectedNodes  = "connected_nodes"
	QueryConnectedPaths  = "connected_paths"
	QueryReachableHexes  = "reachable_hexes"
)

// Options configures an [Adapter].
type Options struct {
	// Graph configures every graph the adapter creates. A nil logger
	// inherits the adapter's.
	Graph graph.Options

	// CheckTokens makes token queries require unplaced tokens in stock.
	CheckTokens bool

	// CheckRegions filters connected hexes through the rules' region
	// restrictions, when the rules implement [graph.RegionChecker].
	CheckRegions bool

	// Logger receives debug events. Defaults to log.Default().
	Logger *log.Logger
}

// CanTokenOpts parameterizes [Adapter.CanToken].
type CanTokenOpts struct {
	Cheater        bool
	SameHexAllowed bool
	// Tokens is the number of tokens the corporation may still place.
	// Zero asks the rules engine.
	Tokens int
}

// Adapter is the cache and query façade over per-corporation graphs.
type Adapter struct {
	board   graph.Board
	rules   graph.Rules
	regions graph.RegionChecker
	opts    Options
	logger  *log.Logger

	graphs map[board.CorpID]*graph.Graph
	memo   map[board.CorpID]*results
}

// results holds the memoized answers for one corporation.
type results struct {
	canToken  map[CanTokenOpts]bool
	route     *graph.RouteInfo
	tokenable []board.NodeID
	hexes     map[board.HexID][]board.Direction
	nodes     []board.NodeID
	paths     []board.PathID
	reachable []board.HexID

	haveTokenable, haveHexes, haveNodes, havePaths, haveReachable bool
}

// New returns an adapter over b. rules supplies tokens, homes and
// abilities; a [*board.Board] serves as both.
func New(b graph.Board, rules graph.Rules, opts Options) *Adapter {
	a := &Adapter{
		board:  b,
		rules:  rules,
		opts:   opts,
		logger: opts.Logger,
		graphs: make(map[board.CorpID]*graph.Graph),
		memo:   make(map[board.CorpID]*results),
	}
	if a.logger == nil {
		a.logger = log.Default()
	}
	if a.opts.Graph.Logger == nil {
		a.opts.Graph.Logger = a.logger
	}
	if rc, ok := rules.(graph.RegionChecker); ok {
		a.regions = rc
	}
	return a
}

// Graph returns corp's graph, creating it on first use. Callers driving
// the graph directly for visualization share it with the adapter's
// queries; clear the corporation afterwards to discard memoized answers.
func (a *Adapter) Graph(corp board.CorpID) *graph.Graph {
	g, ok := a.graphs[corp]
	if !ok {
		g = graph.New(a.board, a.rules, corp, a.opts.Graph)
		a.graphs[corp] = g
	}
	return g
}

func (a *Adapter) results(corp board.CorpID) *results {
	r, ok := a.memo[corp]
	if !ok {
		r = &results{canToken: make(map[CanTokenOpts]bool)}
		a.memo[corp] = r
	}
	return r
}

func (a *Adapter) record(corp board.CorpID, query string, memoized bool) {
	observability.Query().OnQuery(string(corp), query, memoized)
	if memoized {
		return
	}
	step := 0
	if g, ok := a.graphs[corp]; ok {
		step = g.Step()
	}
	a.logger.Debug("query computed", "corp", corp, "query", query, "step", step)
}

// finished returns corp's graph advanced to the end.
func (a *Adapter) finished(corp board.CorpID) *graph.Graph {
	g := a.Graph(corp)
	g.AdvanceToEnd()
	return g
}

// CanToken reports whether corp could place a token anywhere. The graph
// advances only until a tokenable city has been reached. Cities on hexes
// granted by token or teleport abilities count without being connected.
func (a *Adapter) CanToken(corp board.CorpID, o CanTokenOpts) bool {
	if o.Tokens == 0 {
		o.Tokens = a.rules.AvailableTokens(corp)
	}
	if !a.opts.CheckTokens {
		o.Tokens = max(o.Tokens, 1)
	}

	r := a.results(corp)
	if v, ok := r.canToken[o]; ok {
		a.record(corp, QueryCanToken, true)
		return v
	}

	topts := board.TokenOpts{Cheater: o.Cheater, SameHexAllowed: o.SameHexAllowed, Tokens: o.Tokens}
	ok := o.Tokens > 0 && (a.abilityTokenable(corp, topts) || a.reachTokenable(corp, topts))
	r.canToken[o] = ok
	a.record(corp, QueryCanToken, false)
	return ok
}

func (a *Adapter) abilityTokenable(corp board.CorpID, opts board.TokenOpts) bool {
	for _, n := range a.abilityNodes(corp) {
		if a.board.Node(n).Kind == board.City && a.board.Tokenable(n, corp, opts) {
			return true
		}
	}
	return false
}

func (a *Adapter) reachTokenable(corp board.CorpID, opts board.TokenOpts) bool {
	checked := 0
	return a.Graph(corp).AdvanceUntil(func(g *graph.Graph) bool {
		for ; checked < g.NumReached(); checked++ {
			if a.board.Tokenable(g.Reached(checked), corp, opts) {
				return true
			}
		}
		return false
	})
}

// abilityNodes returns the nodes on hexes granted to corp by token or
// teleport abilities, in ability order without duplicates.
func (a *Adapter) abilityNodes(corp board.CorpID) []board.NodeID {
	var out []board.NodeID
	for _, kind := range []board.AbilityKind{board.AbilityToken, board.AbilityTeleport} {
		for _, ab := range a.rules.Abilities(corp, kind) {
			for _, h := range ab.Hexes {
				for _, n := range a.board.HexNodes(h) {
					if !slices.Contains(out, n) {
						out = append(out, n)
					}
				}
			}
		}
	}
	return out
}

// RouteInfo returns whether corp can run a route and must own a train.
// The graph advances only until both are known to hold.
func (a *Adapter) RouteInfo(corp board.CorpID) graph.RouteInfo {
	r := a.results(corp)
	if r.route != nil {
		a.record(corp, QueryRouteInfo, true)
		return *r.route
	}
	g := a.Graph(corp)
	g.AdvanceUntil(func(g *graph.Graph) bool { return g.RouteInfo().Maximal() })
	info := g.RouteInfo()
	r.route = &info
	a.record(corp, QueryRouteInfo, false)
	return info
}

// TokenableCities returns the connected cities where corp could place a
// token, in discovery order.
func (a *Adapter) TokenableCities(corp board.CorpID) []board.NodeID {
	r := a.results(corp)
	if r.haveTokenable {
		a.record(corp, QueryTokenableCities, true)
		return slices.Clone(r.tokenable)
	}

	tokens := a.rules.AvailableTokens(corp)
	if !a.opts.CheckTokens {
		tokens = max(tokens, 1)
	}
	opts := board.TokenOpts{Tokens: tokens}

	var out []board.NodeID
	for _, n := range a.finished(corp).ReachedNodes() {
		if a.board.Tokenable(n, corp, opts) {
			out = append(out, n)
		}
	}
	r.tokenable, r.haveTokenable = out, true
	a.record(corp, QueryTokenableCities, false)
	return slices.Clone(out)
}

// ConnectedHexes returns, for every hex where corp may lay or upgrade
// track, the boundary directions its network touches.
func (a *Adapter) ConnectedHexes(corp board.CorpID) map[board.HexID][]board.Direction {
	r := a.results(corp)
	if r.haveHexes {
		a.record(corp, QueryConnectedHexes, true)
		return cloneHexes(r.hexes)
	}

	hexes := a.finished(corp).LayableHexes()
	if a.opts.CheckRegions && a.regions != nil {
		maps.DeleteFunc(hexes, func(h board.HexID, _ []board.Direction) bool {
			return !a.regions.HexAllowed(corp, h)
		})
	}
	r.hexes, r.haveHexes = hexes, true
	a.record(corp, QueryConnectedHexes, false)
	return cloneHexes(hexes)
}

// ConnectedNodes returns the nodes in corp's network together with nodes
// granted by abilities, in ID order.
func (a *Adapter) ConnectedNodes(corp board.CorpID) []board.NodeID {
	r := a.results(corp)
	if r.haveNodes {
		a.record(corp, QueryConnectedNodes, true)
		return slices.Clone(r.nodes)
	}

	nodes := append(a.finished(corp).VisitedNodes(), a.abilityNodes(corp)...)
	slices.Sort(nodes)
	nodes = slices.Compact(nodes)
	r.nodes, r.haveNodes = nodes, true
	a.record(corp, QueryConnectedNodes, false)
	return slices.Clone(nodes)
}

// ConnectedPaths returns the paths in corp's network, in ID order.
func (a *Adapter) ConnectedPaths(corp board.CorpID) []board.PathID {
	r := a.results(corp)
	if r.havePaths {
		a.record(corp, QueryConnectedPaths, true)
		return slices.Clone(r.paths)
	}
	r.paths, r.havePaths = a.finished(corp).VisitedPaths(), true
	a.record(corp, QueryConnectedPaths, false)
	return slices.Clone(r.paths)
}

// ReachableHexes returns every hex holding part of corp's network, in ID
// order.
func (a *Adapter) ReachableHexes(corp board.CorpID) []board.HexID {
	r := a.results(corp)
	if r.haveReachable {
		a.record(corp, QueryReachableHexes, true)
		return slices.Clone(r.reachable)
	}
	r.reachable, r.haveReachable = a.finished(corp).VisitedHexes(), true
	a.record(corp, QueryReachableHexes, false)
	return slices.Clone(r.reachable)
}

// ClearGraphFor discards corp's graph and memoized answers.
func (a *Adapter) ClearGraphFor(corp board.CorpID) {
	delete(a.graphs, corp)
	delete(a.memo, corp)
	observability.Query().OnInvalidate(string(corp))
	a.logger.Debug("graph cleared", "corp", corp)
}

// Clear discards every graph and memoized answer.
func (a *Adapter) Clear() {
	corps := slices.AppendSeq(slices.Collect(maps.Keys(a.graphs)), maps.Keys(a.memo))
	slices.Sort(corps)
	for _, corp := range slices.Compact(corps) {
		a.ClearGraphFor(corp)
	}
}

// ConnectedHexesByToken is reserved for per-token networks.
func (a *Adapter) ConnectedHexesByToken(corp board.CorpID, token board.NodeID) (map[board.HexID][]board.Direction, error) {
	return nil, unsupported("connected hexes by token")
}

// ComputeByToken is reserved for per-token networks.
func (a *Adapter) ComputeByToken(corp board.CorpID) error {
	return unsupported("compute by token")
}

// HomeHexes is reserved for per-token networks.
func (a *Adapter) HomeHexes(corp board.CorpID) ([]board.HexID, error) {
	return nil, unsupported("home hexes")
}

// HomeHexNodes is reserved for per-token networks.
func (a *Adapter) HomeHexNodes(corp board.CorpID) ([]board.NodeID, error) {
	return nil, unsupported("home hex nodes")
}

func unsupported(query string) error {
	return errors.New(errors.ErrCodeUnsupported, "%s: per-token networks are not implemented", query)
}

func cloneHexes(m map[board.HexID][]board.Direction) map[board.HexID][]board.Direction {
	out := make(map[board.HexID][]board.Direction, len(m))
	for h, dirs := range m {
		out[h] = slices.Clone(dirs)
	}
	return out
}
