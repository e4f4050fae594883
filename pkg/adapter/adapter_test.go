package adapter

import (
	"reflect"
	"slices"
	"testing"

	"github.com/matzehuels/trackgraph/pkg/board"
	"github.com/matzehuels/trackgraph/pkg/errors"
	"github.com/matzehuels/trackgraph/pkg/graph"
	"github.com/matzehuels/trackgraph/pkg/observability"
)

// Node and hex IDs follow definition order in testdata/network.toml.
const (
	home board.NodeID = iota
	town
	mid
	far
	port
)

const (
	hexA1 board.HexID = iota
	hexB1
	hexC1
	hexD1
	hexG1
)

func loadNetwork(t *testing.T) *board.Board {
	t.Helper()
	b, err := board.LoadFile("testdata/network.toml")
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	return b
}

func newAdapter(t *testing.T, opts Options) *Adapter {
	t.Helper()
	b := loadNetwork(t)
	return New(b, b, opts)
}

func TestRouteInfoStopsEarly(t *testing.T) {
	a := newAdapter(t, Options{})

	info := a.RouteInfo("Y")
	if !info.Maximal() {
		t.Fatalf("RouteInfo(Y) = %+v, want maximal", info)
	}
	g := a.Graph("Y")
	if g.Finished() {
		t.Error("graph ran to the end for a maximal route")
	}
	if g.Step() != 7 {
		t.Errorf("Step() = %d, want 7", g.Step())
	}

	info = a.RouteInfo("X")
	if !info.Available || info.TrainPurchase {
		t.Errorf("RouteInfo(X) = %+v, want available only", info)
	}
	if !a.Graph("X").Finished() {
		t.Error("non-maximal route should finish the graph")
	}
}

func TestCanToken(t *testing.T) {
	tests := []struct {
		name  string
		opts  Options
		corp  board.CorpID
		query CanTokenOpts
		want  bool
	}{
		{"reached city", Options{}, "Y", CanTokenOpts{}, true},
		{"ability hex", Options{}, "X", CanTokenOpts{}, true},
		{"full city", Options{}, "Z", CanTokenOpts{}, false},
		{"full city cheater", Options{}, "Z", CanTokenOpts{Cheater: true}, true},
		{"no stock checked", Options{CheckTokens: true}, "Z", CanTokenOpts{Cheater: true}, false},
		{"explicit stock", Options{CheckTokens: true}, "Z", CanTokenOpts{Cheater: true, Tokens: 1}, true},
		{"unknown corporation", Options{CheckTokens: true}, "NYC", CanTokenOpts{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newAdapter(t, tt.opts)
			if got := a.CanToken(tt.corp, tt.query); got != tt.want {
				t.Errorf("CanToken(%s, %+v) = %v, want %v", tt.corp, tt.query, got, tt.want)
			}
		})
	}
}

func TestCanTokenStopsEarly(t *testing.T) {
	a := newAdapter(t, Options{})
	if !a.CanToken("Y", CanTokenOpts{}) {
		t.Fatal("CanToken(Y) = false")
	}
	if a.Graph("Y").Finished() {
		t.Error("graph ran to the end although Far was reached early")
	}
}

func TestTokenableCities(t *testing.T) {
	a := newAdapter(t, Options{})
	if got, want := a.TokenableCities("Y"), []board.NodeID{far}; !slices.Equal(got, want) {
		t.Errorf("TokenableCities(Y) = %v, want %v", got, want)
	}
	if got := a.TokenableCities("X"); len(got) != 0 {
		t.Errorf("TokenableCities(X) = %v, want none", got)
	}

	checked := newAdapter(t, Options{CheckTokens: true})
	if got := checked.TokenableCities("Z"); len(got) != 0 {
		t.Errorf("TokenableCities(Z) = %v with an empty stock", got)
	}
}

func TestConnectedHexes(t *testing.T) {
	want := map[board.HexID][]board.Direction{
		hexA1: {0},
		hexB1: {0, 3},
		hexC1: {3},
	}
	a := newAdapter(t, Options{})
	if got := a.ConnectedHexes("X"); !reflect.DeepEqual(got, want) {
		t.Errorf("ConnectedHexes(X) = %v, want %v", got, want)
	}

	delete(want, hexC1)
	regional := newAdapter(t, Options{CheckRegions: true})
	if got := regional.ConnectedHexes("X"); !reflect.DeepEqual(got, want) {
		t.Errorf("ConnectedHexes(X) with regions = %v, want %v", got, want)
	}

	// Mutating a result must not leak into the memo.
	got := a.ConnectedHexes("X")
	got[hexA1][0] = 5
	delete(got, hexB1)
	if again := a.ConnectedHexes("X"); len(again) != 3 || again[hexA1][0] != 0 {
		t.Errorf("memoized ConnectedHexes(X) changed: %v", again)
	}
}

func TestConnectedSets(t *testing.T) {
	a := newAdapter(t, Options{})

	if got, want := a.ConnectedNodes("X"), []board.NodeID{home, town, port}; !slices.Equal(got, want) {
		t.Errorf("ConnectedNodes(X) = %v, want %v", got, want)
	}
	if got, want := a.ConnectedNodes("Y"), []board.NodeID{town, mid, far}; !slices.Equal(got, want) {
		t.Errorf("ConnectedNodes(Y) = %v, want %v", got, want)
	}
	if got, want := a.ReachableHexes("X"), []board.HexID{hexA1, hexB1, hexC1}; !slices.Equal(got, want) {
		t.Errorf("ReachableHexes(X) = %v, want %v", got, want)
	}
	if got := len(a.ConnectedPaths("X")); got != 4 {
		t.Errorf("ConnectedPaths(X) has %d paths, want 4", got)
	}
	if got := len(a.ConnectedPaths("Y")); got != 6 {
		t.Errorf("ConnectedPaths(Y) has %d paths, want 6", got)
	}
}

type queryRecorder struct {
	observability.NoopQueryHooks
	computed, memoized int
	invalidated        []string
}

func (r *queryRecorder) OnQuery(corp, query string, memoized bool) {
	if memoized {
		r.memoized++
	} else {
		r.computed++
	}
}

func (r *queryRecorder) OnInvalidate(corp string) { r.invalidated = append(r.invalidated, corp) }

func TestMemoizationAndClear(t *testing.T) {
	rec := &queryRecorder{}
	observability.SetQueryHooks(rec)
	defer observability.Reset()

	a := newAdapter(t, Options{})
	a.ConnectedNodes("Y")
	a.ConnectedNodes("Y")
	a.CanToken("Y", CanTokenOpts{})
	a.CanToken("Y", CanTokenOpts{})
	a.CanToken("Y", CanTokenOpts{Cheater: true})
	if rec.computed != 3 || rec.memoized != 2 {
		t.Errorf("computed=%d memoized=%d, want 3 and 2", rec.computed, rec.memoized)
	}

	before := a.Graph("Y")
	a.ClearGraphFor("Y")
	if a.Graph("Y") == before {
		t.Error("ClearGraphFor kept the graph")
	}
	if a.Graph("Y").Step() != 0 {
		t.Error("new graph is not fresh")
	}
	a.ConnectedNodes("Y")
	if rec.computed != 4 {
		t.Errorf("query after clear was not recomputed")
	}

	a.RouteInfo("X")
	a.Clear()
	if want := []string{"Y", "X", "Y"}; !slices.Equal(rec.invalidated, want) {
		t.Errorf("invalidated = %v, want %v", rec.invalidated, want)
	}
}

func TestByTokenUnsupported(t *testing.T) {
	a := newAdapter(t, Options{})
	_, err1 := a.ConnectedHexesByToken("X", home)
	err2 := a.ComputeByToken("X")
	_, err3 := a.HomeHexes("X")
	_, err4 := a.HomeHexNodes("X")
	for i, err := range []error{err1, err2, err3, err4} {
		if !errors.Is(err, errors.ErrCodeUnsupported) {
			t.Errorf("query %d: error = %v, want %s", i, err, errors.ErrCodeUnsupported)
		}
	}
}

func TestGraphOptionsPassThrough(t *testing.T) {
	a := newAdapter(t, Options{Graph: graph.Options{NoBlocking: true}})
	nodes := a.ConnectedNodes("X")
	if !slices.Contains(nodes, far) {
		t.Errorf("ConnectedNodes(X) = %v, NoBlocking should pass Mid", nodes)
	}
}
