package graph

import (
	"maps"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/trackgraph/pkg/board"
	"github.com/matzehuels/trackgraph/pkg/observability"
	"github.com/matzehuels/trackgraph/pkg/queue"
)

// State is the lifecycle phase of a [Graph].
type State int

const (
	// StateFresh: seeded, no step taken.
	StateFresh State = iota
	// StateAdvancing: at least one step taken and work pending.
	StateAdvancing
	// StateFinished: the queue is empty.
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateFresh:
		return "fresh"
	case StateAdvancing:
		return "advancing"
	case StateFinished:
		return "finished"
	}
	return "unknown"
}

// Item is a queued atom together with the provenance that reached it.
type Item struct {
	Atom Atom
	From Provenance
	// Direct is set on paths enqueued by a tokened node. Only direct
	// items may pass through terminal paths.
	Direct bool

	chain *stop
}

// stop is one link of the chain of stops an item passed through, each
// with the two exits used there. An item never passes a stop twice.
type stop struct {
	node  board.NodeID
	exits [2]board.PathID
	prev  *stop
}

// Stop is a node an item passed through and the two paths used there.
// The first exit is [board.NoPath] at the stop where the trace began.
type Stop struct {
	Node  board.NodeID
	Exits [2]board.PathID
}

// Chain returns the stops the item passed through, oldest first.
func (it Item) Chain() []Stop {
	var out []Stop
	for s := it.chain; s != nil; s = s.prev {
		out = append(out, Stop{Node: s.node, Exits: s.exits})
	}
	slices.Reverse(out)
	return out
}

func (s *stop) contains(n board.NodeID) bool {
	for ; s != nil; s = s.prev {
		if s.node == n {
			return true
		}
	}
	return false
}

// RouteInfo summarizes whether the corporation can run a train.
type RouteInfo struct {
	// Available is set once a legal route exists: one mandatory stop and
	// one more stop of any weight.
	Available bool `json:"route_available" bson:"route_available"`
	// TrainPurchase is set once two mandatory stops are connected, which
	// obliges the corporation to own a train.
	TrainPurchase bool `json:"route_train_purchase" bson:"route_train_purchase"`
}

// Maximal reports whether no further search can change r.
func (r RouteInfo) Maximal() bool { return r.Available && r.TrainPurchase }

// Graph is the incremental breadth-first search of one corporation's
// network on one board snapshot.
//
// The search is an explicit state machine: a step cursor, a FIFO of
// pending items and the sets accumulated so far. [Graph.Advance]
// processes one item; rewinding replays from scratch, which is exact
// because neighbor order is fixed by tile definition.
//
// Graph is not safe for concurrent use.
type Graph struct {
	id     string
	board  Board
	rules  Rules
	corp   board.CorpID
	opts   Options
	logger *log.Logger

	step    int
	queue   *queue.Queue[Item]
	pending map[Atom]int
	done    bool

	visited   map[Atom]map[Provenance]struct{}
	tokened   map[Atom]struct{}
	nodes     map[board.NodeID]struct{}
	paths     map[board.PathID]struct{}
	junctions map[board.JunctionID]struct{}
	hexes     map[board.HexID]struct{}
	layable   map[board.HexID]uint8
	reached   []board.NodeID
	reachedOK map[board.NodeID]struct{}

	mandatory int
	optional  int
	route     RouteInfo
}

// New creates a seeded graph for corp.
func New(b Board, r Rules, corp board.CorpID, opts Options) *Graph {
	g := &Graph{
		id:     uuid.NewString(),
		board:  b,
		rules:  r,
		corp:   corp,
		opts:   opts,
		logger: opts.logger(),
	}
	g.init()
	g.logger.Debug("graph created", "graph", g.id, "corp", corp, "pending", g.queue.Len())
	return g
}

func (g *Graph) init() {
	g.step = 0
	g.done = false
	g.queue = queue.New[Item]()
	g.pending = nil
	if g.opts.Visualize {
		g.pending = make(map[Atom]int)
	}
	g.visited = make(map[Atom]map[Provenance]struct{})
	g.tokened = make(map[Atom]struct{})
	g.nodes = make(map[board.NodeID]struct{})
	g.paths = make(map[board.PathID]struct{})
	g.junctions = make(map[board.JunctionID]struct{})
	g.hexes = make(map[board.HexID]struct{})
	g.layable = make(map[board.HexID]uint8)
	g.reached = nil
	g.reachedOK = make(map[board.NodeID]struct{})
	g.mandatory, g.optional = 0, 0
	g.route = RouteInfo{}
	g.seed()
}

func (g *Graph) seed() {
	tokens := g.rules.PlacedTokens(g.corp)
	for i, t := range tokens {
		g.enqueue(Item{Atom: NodeAtom(t.Node), From: Provenance{Kind: FromToken, Token: i}})
	}
	if len(tokens) == 0 && g.opts.HomeAsToken {
		for i, n := range g.rules.HomeNodes(g.corp) {
			g.enqueue(Item{Atom: NodeAtom(n), From: Provenance{Kind: FromHome, Token: i}})
		}
	}
	observability.Graph().OnSeed(g.id, string(g.corp), g.queue.Len())
}

// ID returns the graph's instance identifier, unique per process.
func (g *Graph) ID() string { return g.id }

// Corporation returns the corporation whose network is searched.
func (g *Graph) Corporation() board.CorpID { return g.corp }

// Step returns the number of steps taken since the last reset.
func (g *Graph) Step() int { return g.step }

// Finished reports whether the queue is exhausted.
func (g *Graph) Finished() bool { return g.queue.Empty() }

// State returns the lifecycle phase.
func (g *Graph) State() State {
	switch {
	case g.queue.Empty():
		return StateFinished
	case g.step == 0:
		return StateFresh
	default:
		return StateAdvancing
	}
}

// Advance takes one step: it dequeues an item and, unless the item is
// redundant, records the visit and enqueues the admissible neighbors.
// Redundant items left at the front of the queue are then dropped.
// Advance returns false, doing nothing, once the graph is finished.
func (g *Graph) Advance() bool {
	item, ok := g.dequeue()
	if !ok {
		return false
	}
	g.step++

	processed := !g.redundant(item)
	if processed {
		g.process(item)
	}
	g.dropRedundant()

	observability.Graph().OnAdvance(g.id, string(g.corp), g.step, processed)
	if g.queue.Empty() && !g.done {
		g.done = true
		g.logger.Debug("graph finished", "graph", g.id, "corp", g.corp, "steps", g.step,
			"nodes", len(g.nodes), "paths", len(g.paths), "hexes", len(g.layable))
		observability.Graph().OnFinish(g.id, string(g.corp), g.step)
	}
	return true
}

// AdvanceTo steps until the step count reaches n or the graph finishes.
func (g *Graph) AdvanceTo(n int) {
	for g.step < n && g.Advance() {
	}
}

// AdvanceToEnd steps until the graph finishes and returns the step count.
func (g *Graph) AdvanceToEnd() int {
	for g.Advance() {
	}
	return g.step
}

// AdvanceUntil steps until done reports true or the graph finishes, and
// returns done's final answer. done is checked before the first step.
func (g *Graph) AdvanceUntil(done func(*Graph) bool) bool {
	for {
		if done(g) {
			return true
		}
		if !g.Advance() {
			return false
		}
	}
}

// JumpTo moves the cursor to step n. Moving backwards, or to the current
// step, reinitializes the search and replays it; moving forwards advances.
func (g *Graph) JumpTo(n int) {
	n = max(n, 0)
	if n <= g.step {
		from := g.step
		g.reinit()
		g.logger.Debug("graph replay", "graph", g.id, "corp", g.corp, "from", from, "to", n)
	}
	g.AdvanceTo(n)
}

// Reverse moves the cursor back one step.
func (g *Graph) Reverse() {
	if g.step == 0 {
		return
	}
	g.JumpTo(g.step - 1)
}

// Reset reinitializes the search to its freshly seeded state.
func (g *Graph) Reset() {
	g.reinit()
	g.logger.Debug("graph reset", "graph", g.id, "corp", g.corp)
}

func (g *Graph) reinit() {
	g.init()
	observability.Graph().OnReset(g.id, string(g.corp))
}

func (g *Graph) enqueue(it Item) {
	g.queue.Enqueue(it)
	if g.pending != nil {
		g.pending[it.Atom]++
	}
}

func (g *Graph) dequeue() (Item, bool) {
	it, ok := g.queue.Dequeue()
	if ok && g.pending != nil {
		if g.pending[it.Atom]--; g.pending[it.Atom] <= 0 {
			delete(g.pending, it.Atom)
		}
	}
	return it, ok
}

// redundant reports whether processing it would add nothing: the atom is
// tokened, or was already visited from the same provenance.
func (g *Graph) redundant(it Item) bool {
	if _, ok := g.tokened[it.Atom]; ok {
		return true
	}
	_, seen := g.visited[it.Atom][it.From]
	return seen
}

func (g *Graph) dropRedundant() {
	for {
		it, ok := g.queue.Peek()
		if !ok || !g.redundant(it) {
			return
		}
		g.dequeue()
	}
}

func (g *Graph) process(it Item) {
	provs, ok := g.visited[it.Atom]
	if !ok {
		provs = make(map[Provenance]struct{}, 1)
		g.visited[it.Atom] = provs
	}
	provs[it.From] = struct{}{}

	switch it.Atom.Kind {
	case AtomNode:
		g.visitNode(it)
	case AtomPath:
		g.visitPath(it)
	case AtomJunction:
		g.visitJunction(it)
	}
}

func (g *Graph) visitNode(it Item) {
	id := it.Atom.Node()
	n := g.board.Node(id)
	tokened := it.From.Tokened()
	if tokened {
		g.tokened[it.Atom] = struct{}{}
	}

	g.hexes[n.Hex] = struct{}{}
	g.reach(id)
	if _, seen := g.nodes[id]; !seen {
		g.nodes[id] = struct{}{}
		g.countRoute(n.Route)
	}

	entry := entryPath(it)
	for _, p := range n.Paths {
		if p == entry || g.opts.skips(g.board.Path(p).Track) {
			continue
		}
		if g.board.Path(p).Terminal && !tokened {
			continue
		}
		g.enqueue(Item{
			Atom:   PathAtom(p),
			From:   fromAtom(it.Atom),
			Direct: tokened,
			chain:  &stop{node: id, exits: [2]board.PathID{entry, p}, prev: it.chain},
		})
	}
}

func (g *Graph) visitJunction(it Item) {
	j := g.board.Junction(it.Atom.Junction())
	g.junctions[j.ID] = struct{}{}
	g.hexes[j.Hex] = struct{}{}

	entry := entryPath(it)
	for _, p := range j.Paths {
		path := g.board.Path(p)
		if p == entry || path.Terminal || g.opts.skips(path.Track) {
			continue
		}
		g.enqueue(Item{Atom: PathAtom(p), From: fromAtom(it.Atom), chain: it.chain})
	}
}

func (g *Graph) visitPath(it Item) {
	p := g.board.Path(it.Atom.Path())
	g.paths[p.ID] = struct{}{}
	g.hexes[p.Hex] = struct{}{}

	// A terminal path is never passed through unless a token sits at its end.
	if p.Terminal && !it.Direct {
		return
	}
	layable := !p.Terminal || g.fromCity(it)

	for _, end := range p.Ends() {
		if isEntry(it, end) {
			continue
		}
		switch end.Kind {
		case board.EndEdge:
			e := Edge{Hex: p.Hex, Dir: end.Edge}
			if layable {
				g.markLayable(e)
			}
			next, far := ContinuingPaths(g.board, e, p.Track)
			for _, np := range next {
				if g.opts.skips(g.board.Path(np).Track) {
					continue
				}
				g.enqueue(Item{Atom: PathAtom(np), From: fromEdge(far), chain: it.chain})
			}
		case board.EndNode:
			g.reach(end.Node)
			if it.chain.contains(end.Node) {
				continue
			}
			if !g.opts.NoBlocking && g.board.Blocks(end.Node, g.corp) {
				continue
			}
			g.enqueue(Item{Atom: NodeAtom(end.Node), From: fromAtom(it.Atom), chain: it.chain})
		case board.EndJunction:
			g.enqueue(Item{Atom: JunctionAtom(end.Junction), From: fromAtom(it.Atom), chain: it.chain})
		}
	}
}

func (g *Graph) fromCity(it Item) bool {
	if it.From.Kind != FromAtom || it.From.Atom.Kind != AtomNode {
		return false
	}
	return g.board.Node(it.From.Atom.Node()).Kind == board.City
}

func (g *Graph) markLayable(e Edge) {
	g.layable[e.Hex] |= 1 << e.Dir
	if far, ok := e.Invert(g.board); ok {
		g.layable[far.Hex] |= 1 << far.Dir
	}
}

func (g *Graph) reach(n board.NodeID) {
	if _, ok := g.reachedOK[n]; ok {
		return
	}
	g.reachedOK[n] = struct{}{}
	g.reached = append(g.reached, n)
}

func (g *Graph) countRoute(r board.RouteKind) {
	switch r {
	case board.RouteMandatory:
		g.mandatory++
	case board.RouteOptional:
		g.optional++
	}
	if g.mandatory >= 2 || (g.mandatory >= 1 && g.optional >= 1) {
		g.route.Available = true
	}
	if g.mandatory >= 2 {
		g.route.TrainPurchase = true
	}
}

// entryPath returns the path an item arrived along, or NoPath.
func entryPath(it Item) board.PathID {
	if it.From.Kind == FromAtom && it.From.Atom.Kind == AtomPath {
		return it.From.Atom.Path()
	}
	return board.NoPath
}

// isEntry reports whether end is the end of the item's path it came in by.
func isEntry(it Item, end board.End) bool {
	switch it.From.Kind {
	case FromEdge:
		return end.Kind == board.EndEdge && end.Edge == it.From.Edge.Dir
	case FromAtom:
		switch it.From.Atom.Kind {
		case AtomNode:
			return end.Kind == board.EndNode && end.Node == it.From.Atom.Node()
		case AtomJunction:
			return end.Kind == board.EndJunction && end.Junction == it.From.Atom.Junction()
		}
	}
	return false
}

// Visited reports whether a has been processed from any provenance.
func (g *Graph) Visited(a Atom) bool {
	_, ok := g.visited[a]
	return ok
}

// VisitCount returns how many distinct provenances a was processed from.
func (g *Graph) VisitCount(a Atom) int { return len(g.visited[a]) }

// Tokened reports whether a was reached from a token or home seed.
func (g *Graph) Tokened(a Atom) bool {
	_, ok := g.tokened[a]
	return ok
}

// VisitedNodes returns the visited nodes in ID order.
func (g *Graph) VisitedNodes() []board.NodeID { return slices.Sorted(maps.Keys(g.nodes)) }

// VisitedPaths returns the visited paths in ID order.
func (g *Graph) VisitedPaths() []board.PathID { return slices.Sorted(maps.Keys(g.paths)) }

// VisitedJunctions returns the visited junctions in ID order.
func (g *Graph) VisitedJunctions() []board.JunctionID {
	return slices.Sorted(maps.Keys(g.junctions))
}

// VisitedHexes returns the hexes holding any visited atom, in ID order.
func (g *Graph) VisitedHexes() []board.HexID { return slices.Sorted(maps.Keys(g.hexes)) }

// ReachedNodes returns, in discovery order, every node the search touched,
// including nodes it could not pass through. These are the candidates for
// token placement.
func (g *Graph) ReachedNodes() []board.NodeID { return slices.Clone(g.reached) }

// NumReached returns the number of reached nodes.
func (g *Graph) NumReached() int { return len(g.reached) }

// Reached returns the i-th reached node in discovery order.
func (g *Graph) Reached(i int) board.NodeID { return g.reached[i] }

// LayableHexes returns, for each hex where the corporation may lay or
// upgrade track, the boundary directions its network touches.
func (g *Graph) LayableHexes() map[board.HexID][]board.Direction {
	out := make(map[board.HexID][]board.Direction, len(g.layable))
	for h, mask := range g.layable {
		out[h] = maskDirections(mask)
	}
	return out
}

// IsLayable reports whether the network touches boundary d of h.
func (g *Graph) IsLayable(h board.HexID, d board.Direction) bool {
	return g.layable[h]&(1<<d) != 0
}

// RouteInfo returns the route legality accumulated so far.
func (g *Graph) RouteInfo() RouteInfo { return g.route }

func maskDirections(mask uint8) []board.Direction {
	var dirs []board.Direction
	for d := range board.Direction(board.Directions) {
		if mask&(1<<d) != 0 {
			dirs = append(dirs, d)
		}
	}
	return dirs
}
