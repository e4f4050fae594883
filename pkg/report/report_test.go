package report

import (
	"reflect"
	"slices"
	"testing"

	"github.com/matzehuels/trackgraph/pkg/adapter"
	"github.com/matzehuels/trackgraph/pkg/board"
)

func buildReport(t *testing.T, corp board.CorpID, opts adapter.Options) (Report, *board.Board) {
	t.Helper()
	b, err := board.LoadFile("testdata/network.toml")
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	return Build(adapter.New(b, b, opts), b, corp), b
}

func TestBuild(t *testing.T) {
	r, b := buildReport(t, "Y", adapter.Options{})

	if r.Corporation != "Y" || r.Board != b.Digest() {
		t.Errorf("header = %s/%s", r.Corporation, r.Board)
	}
	if !r.Route.Maximal() || !r.CanToken {
		t.Errorf("route=%+v can_token=%v", r.Route, r.CanToken)
	}
	wantTokenable := []NodeRef{{Hex: "D1", Index: 0, Name: "Far", Kind: "city"}}
	if !reflect.DeepEqual(r.TokenableCities, wantTokenable) {
		t.Errorf("TokenableCities = %v, want %v", r.TokenableCities, wantTokenable)
	}
	if got, want := r.ReachableHexes, []string{"A1", "B1", "C1", "D1"}; !slices.Equal(got, want) {
		t.Errorf("ReachableHexes = %v, want %v", got, want)
	}
	var hexes []string
	for _, he := range r.ConnectedHexes {
		hexes = append(hexes, he.Hex)
	}
	if want := []string{"A1", "B1", "C1", "D1"}; !slices.Equal(hexes, want) {
		t.Errorf("ConnectedHexes order = %v, want %v", hexes, want)
	}
	if r.ConnectedPaths != 6 || r.Steps == 0 {
		t.Errorf("paths=%d steps=%d", r.ConnectedPaths, r.Steps)
	}
}

func TestBuildAbilityNodes(t *testing.T) {
	r, _ := buildReport(t, "X", adapter.Options{CheckRegions: true})

	var names []string
	for _, n := range r.ConnectedNodes {
		names = append(names, n.String())
	}
	if want := []string{"A1#0 Home", "B1#0", "G1#0 Port"}; !slices.Equal(names, want) {
		t.Errorf("ConnectedNodes = %v, want %v", names, want)
	}
	if len(r.ConnectedHexes) != 2 {
		t.Errorf("ConnectedHexes = %v, regions should drop C1", r.ConnectedHexes)
	}
	if r.Route.TrainPurchase {
		t.Error("X cannot reach a second mandatory stop")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	r, _ := buildReport(t, "Y", adapter.Options{})
	data, err := Marshal(r)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !reflect.DeepEqual(got, r) {
		t.Errorf("round trip changed the report:\n got %+v\nwant %+v", got, r)
	}
	if _, err := Unmarshal([]byte("{")); err == nil {
		t.Error("Unmarshal of truncated JSON should fail")
	}
}

func TestCompareHexNames(t *testing.T) {
	names := []string{"B10", "AA1", "B2", "A7", "C1"}
	slices.SortFunc(names, compareHexNames)
	if want := []string{"A7", "B2", "B10", "C1", "AA1"}; !slices.Equal(names, want) {
		t.Errorf("sorted = %v, want %v", names, want)
	}
}
