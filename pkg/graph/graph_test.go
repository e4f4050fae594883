package graph

import (
	"reflect"
	"slices"
	"testing"

	"github.com/matzehuels/trackgraph/pkg/board"
	"github.com/matzehuels/trackgraph/pkg/observability"
)

func TestLineFullRun(t *testing.T) {
	l := newLine(t, lineOpts{})
	g := New(l.b, l.b, "X", Options{})

	if g.State() != StateFresh {
		t.Fatalf("State() = %v, want fresh", g.State())
	}
	if steps := g.AdvanceToEnd(); steps != 5 {
		t.Errorf("AdvanceToEnd() = %d, want 5", steps)
	}
	if g.State() != StateFinished {
		t.Errorf("State() = %v, want finished", g.State())
	}

	if got, want := g.VisitedNodes(), []board.NodeID{l.a, l.bNode}; !slices.Equal(got, want) {
		t.Errorf("VisitedNodes() = %v, want %v", got, want)
	}
	if got, want := g.VisitedPaths(), []board.PathID{l.p0, l.p1, l.p2}; !slices.Equal(got, want) {
		t.Errorf("VisitedPaths() = %v, want %v", got, want)
	}
	if got, want := g.VisitedHexes(), []board.HexID{l.hexA, l.hexB, l.hexC}; !slices.Equal(got, want) {
		t.Errorf("VisitedHexes() = %v, want %v", got, want)
	}

	wantLayable := map[board.HexID][]board.Direction{
		l.hexA: {0},
		l.hexB: {0, 3},
		l.hexC: {3},
	}
	if got := g.LayableHexes(); !reflect.DeepEqual(got, wantLayable) {
		t.Errorf("LayableHexes() = %v, want %v", got, wantLayable)
	}
	if !g.RouteInfo().Maximal() {
		t.Errorf("RouteInfo() = %+v, want maximal", g.RouteInfo())
	}
	if !g.Tokened(NodeAtom(l.a)) || g.Tokened(NodeAtom(l.bNode)) {
		t.Error("only the token node should be tokened")
	}
}

func TestBlockedCity(t *testing.T) {
	l := newLine(t, lineOpts{blockB: true})

	g := New(l.b, l.b, "X", Options{})
	if steps := g.AdvanceToEnd(); steps != 4 {
		t.Errorf("AdvanceToEnd() = %d, want 4", steps)
	}
	if g.Visited(NodeAtom(l.bNode)) {
		t.Error("blocked city was visited")
	}
	if got, want := g.ReachedNodes(), []board.NodeID{l.a, l.bNode}; !slices.Equal(got, want) {
		t.Errorf("ReachedNodes() = %v, want %v", got, want)
	}
	if !g.IsLayable(l.hexC, 3) {
		t.Error("edge into the blocked hex should be layable")
	}
	if g.RouteInfo().Available {
		t.Error("route available with one stop")
	}

	open := New(l.b, l.b, "X", Options{NoBlocking: true})
	open.AdvanceToEnd()
	if !open.Visited(NodeAtom(l.bNode)) {
		t.Error("NoBlocking: blocked city not visited")
	}
}

func TestTerminalPaths(t *testing.T) {
	f := newOffboard(t)

	t.Run("entered from edge", func(t *testing.T) {
		g := New(f.b, f.b, "X", Options{})
		g.AdvanceToEnd()
		if !g.Visited(PathAtom(f.p1)) {
			t.Error("terminal path not recorded")
		}
		if g.Visited(NodeAtom(f.o)) {
			t.Error("passed through terminal path")
		}
		if got := g.ReachedNodes(); !slices.Equal(got, []board.NodeID{f.a}) {
			t.Errorf("ReachedNodes() = %v", got)
		}
		if got, want := g.VisitedNodes(), []board.NodeID{f.a}; !slices.Equal(got, want) {
			t.Errorf("VisitedNodes() = %v, want %v without the offboard behind a terminal path", got, want)
		}
	})

	t.Run("from tokened offboard", func(t *testing.T) {
		g := New(f.b, f.b, "Z", Options{})
		if steps := g.AdvanceToEnd(); steps != 3 {
			t.Errorf("AdvanceToEnd() = %d, want 3", steps)
		}
		if got, want := g.VisitedPaths(), []board.PathID{f.p0, f.p1}; !slices.Equal(got, want) {
			t.Errorf("VisitedPaths() = %v, want %v", got, want)
		}
		if got := g.LayableHexes(); len(got) != 0 {
			t.Errorf("LayableHexes() = %v, want none from an offboard", got)
		}
		if got, want := g.ReachedNodes(), []board.NodeID{f.o, f.a}; !slices.Equal(got, want) {
			t.Errorf("ReachedNodes() = %v, want %v", got, want)
		}
		// A1 is reached but blocked by X's token, so only the offboard is visited.
		if got, want := g.VisitedNodes(), []board.NodeID{f.o}; !slices.Equal(got, want) {
			t.Errorf("VisitedNodes() = %v, want the tokened offboard %v", got, want)
		}
	})
}

func TestHomeAsToken(t *testing.T) {
	l := newLine(t, lineOpts{})

	g := New(l.b, l.b, "H", Options{})
	if !g.Finished() || g.Advance() {
		t.Fatal("untokened corporation should have nothing to search")
	}

	g = New(l.b, l.b, "H", Options{HomeAsToken: true})
	g.AdvanceToEnd()
	if len(g.VisitedNodes()) != 2 {
		t.Errorf("VisitedNodes() = %v, want both cities", g.VisitedNodes())
	}
	if !g.Tokened(NodeAtom(l.a)) {
		t.Error("home city not treated as tokened")
	}
}

func TestTrackGauges(t *testing.T) {
	tests := []struct {
		name  string
		track board.TrackType
		skip  []board.TrackType
		paths int
	}{
		{"broad", board.TrackBroad, nil, 3},
		{"dual", board.TrackDual, nil, 3},
		{"narrow", board.TrackNarrow, nil, 1},
		{"dual skipped", board.TrackDual, []board.TrackType{board.TrackDual}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newLine(t, lineOpts{middleTrack: tt.track})
			g := New(l.b, l.b, "X", Options{SkipTrack: tt.skip})
			g.AdvanceToEnd()
			if got := len(g.VisitedPaths()); got != tt.paths {
				t.Errorf("visited %d paths, want %d", got, tt.paths)
			}
			if !g.IsLayable(l.hexB, 3) {
				t.Error("edge out of the home hex should be layable")
			}
		})
	}
}

func TestLoop(t *testing.T) {
	b := newLoop(t)
	g := New(b, b, "X", Options{})
	steps := g.AdvanceToEnd()

	atoms := b.NumPaths() + b.NumNodes() + b.NumJunctions()
	if steps > 4*atoms {
		t.Errorf("AdvanceToEnd() = %d steps for %d atoms", steps, atoms)
	}
	if got := len(g.VisitedNodes()); got != 3 {
		t.Errorf("visited %d nodes, want 3", got)
	}
	if got := len(g.VisitedPaths()); got != b.NumPaths() {
		t.Errorf("visited %d paths, want %d", got, b.NumPaths())
	}
	if got := len(g.VisitedJunctions()); got != 1 {
		t.Errorf("visited %d junctions, want 1", got)
	}
	if got := len(g.VisitedHexes()); got != 4 {
		t.Errorf("visited %d hexes, want 4", got)
	}
	h2, _ := b.HexByName("H2")
	if !g.IsLayable(h2, 4) {
		t.Error("spur off the board should be layable on its own hex")
	}
	if !g.RouteInfo().Maximal() {
		t.Errorf("RouteInfo() = %+v, want maximal", g.RouteInfo())
	}
}

func TestAdvanceIdempotentWhenFinished(t *testing.T) {
	b := newLoop(t)
	g := New(b, b, "X", Options{})
	g.AdvanceToEnd()
	want := snap(g)
	step := g.Step()

	if g.Advance() {
		t.Error("Advance() = true after finishing")
	}
	if g.AdvanceToEnd() != step {
		t.Error("step moved after finishing")
	}
	if got := snap(g); !reflect.DeepEqual(got, want) {
		t.Error("state changed after finishing")
	}
}

func TestMonotonic(t *testing.T) {
	b := newLoop(t)
	g := New(b, b, "X", Options{})
	prev := snap(g)
	for g.Advance() {
		cur := snap(g)
		if len(cur.nodes) < len(prev.nodes) || len(cur.paths) < len(prev.paths) ||
			len(cur.hexes) < len(prev.hexes) || len(cur.reached) < len(prev.reached) {
			t.Fatalf("step %d shrank a visited set", g.Step())
		}
		if prev.route.Available && !cur.route.Available {
			t.Fatalf("step %d withdrew route availability", g.Step())
		}
		prev = cur
	}
}

func TestRewindMatchesReplay(t *testing.T) {
	b := newLoop(t)
	g := New(b, b, "X", Options{})

	history := []snapshot{snap(g)}
	for g.Advance() {
		history = append(history, snap(g))
	}

	for g.Step() > 0 {
		g.Reverse()
		if got := snap(g); !reflect.DeepEqual(got, history[g.Step()]) {
			t.Fatalf("Reverse() to step %d differs from forward run", g.Step())
		}
	}
	g.Reverse()
	if g.Step() != 0 {
		t.Errorf("Reverse() at step 0 moved to %d", g.Step())
	}

	for _, n := range []int{3, 7, 1, len(history) - 1, 5, 5} {
		g.JumpTo(n)
		if got := snap(g); !reflect.DeepEqual(got, history[n]) {
			t.Errorf("JumpTo(%d) differs from forward run", n)
		}
	}

	g.JumpTo(len(history) + 10)
	if g.Step() != len(history)-1 || !g.Finished() {
		t.Errorf("JumpTo past the end stopped at %d", g.Step())
	}
	g.Reset()
	if got := snap(g); !reflect.DeepEqual(got, history[0]) || g.State() != StateFresh {
		t.Error("Reset() did not restore the seeded state")
	}
}

func TestAdvanceUntil(t *testing.T) {
	l := newLine(t, lineOpts{})
	g := New(l.b, l.b, "X", Options{})

	ok := g.AdvanceUntil(func(g *Graph) bool { return g.RouteInfo().Available })
	if !ok || g.Step() != 5 {
		t.Errorf("AdvanceUntil(route) = %v at step %d, want true at 5", ok, g.Step())
	}

	g.Reset()
	ok = g.AdvanceUntil(func(g *Graph) bool { return g.NumReached() > 5 })
	if ok || !g.Finished() {
		t.Errorf("AdvanceUntil(impossible) = %v, finished %v", ok, g.Finished())
	}

	g.Reset()
	if !g.AdvanceUntil(func(*Graph) bool { return true }) || g.Step() != 0 {
		t.Error("AdvanceUntil should check before stepping")
	}
}

func TestClassify(t *testing.T) {
	for _, visualize := range []bool{false, true} {
		l := newLine(t, lineOpts{tokenB: true})
		g := New(l.b, l.b, "X", Options{Visualize: visualize})

		checks := []struct {
			step int
			atom Atom
			want Class
		}{
			{0, NodeAtom(l.a), ClassFront},
			{0, NodeAtom(l.bNode), ClassEnqueued},
			{0, PathAtom(l.p0), ClassUnknown},
			{6, PathAtom(l.p0), ClassBoth},
			{6, PathAtom(l.p1), ClassVisited},
			{6, PathAtom(l.p2), ClassFront},
			{6, NodeAtom(l.a), ClassVisited},
		}
		for _, c := range checks {
			g.JumpTo(c.step)
			if got := g.Classify(c.atom); got != c.want {
				t.Errorf("visualize=%v step %d: Classify(%v) = %v, want %v",
					visualize, c.step, c.atom, got, c.want)
			}
		}
		if g.VisitCount(PathAtom(l.p1)) != 2 {
			t.Errorf("VisitCount(p1) = %d, want 2", g.VisitCount(PathAtom(l.p1)))
		}
	}
}

func TestItemChain(t *testing.T) {
	l := newLine(t, lineOpts{})
	g := New(l.b, l.b, "X", Options{})
	g.Advance()

	front, ok := g.Front()
	if !ok || front.Atom != PathAtom(l.p0) {
		t.Fatalf("Front() = %v, want p0", front.Atom)
	}
	want := []Stop{{Node: l.a, Exits: [2]board.PathID{board.NoPath, l.p0}}}
	if got := front.Chain(); !reflect.DeepEqual(got, want) {
		t.Errorf("Chain() = %v, want %v", got, want)
	}
	if !front.Direct || front.From != fromAtom(NodeAtom(l.a)) {
		t.Errorf("front item = %+v", front)
	}
	if g.QueueLen() != len(g.Pending()) {
		t.Error("QueueLen() disagrees with Pending()")
	}
}

type recordingHooks struct {
	observability.NoopGraphHooks
	seeds, advances, finishes, resets int
}

func (h *recordingHooks) OnSeed(string, string, int)          { h.seeds++ }
func (h *recordingHooks) OnAdvance(string, string, int, bool) { h.advances++ }
func (h *recordingHooks) OnFinish(string, string, int)        { h.finishes++ }
func (h *recordingHooks) OnReset(string, string)              { h.resets++ }

func TestHooks(t *testing.T) {
	h := &recordingHooks{}
	observability.SetGraphHooks(h)
	defer observability.Reset()

	l := newLine(t, lineOpts{})
	g := New(l.b, l.b, "X", Options{})
	g.AdvanceToEnd()
	g.Reverse()

	if h.seeds != 2 || h.resets != 1 {
		t.Errorf("seeds=%d resets=%d, want 2 and 1", h.seeds, h.resets)
	}
	if h.advances != 5+4 {
		t.Errorf("advances = %d, want 9", h.advances)
	}
	if h.finishes != 1 {
		t.Errorf("finishes = %d, want 1", h.finishes)
	}
}

func TestProvenanceString(t *testing.T) {
	tests := []struct {
		p    Provenance
		want string
	}{
		{Provenance{Kind: FromToken, Token: 1}, "token#1"},
		{Provenance{Kind: FromHome}, "home#0"},
		{fromAtom(PathAtom(4)), "path:4"},
		{fromEdge(Edge{Hex: 2, Dir: 5}), "edge:2/5"},
	}
	for _, tt := range tests {
		if got := tt.p.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
