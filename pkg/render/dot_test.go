package render

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/trackgraph/pkg/board"
	"github.com/matzehuels/trackgraph/pkg/graph"
)

// twoCities is A1 Home -- B1 straight -- C1 Far with PRR on Home.
func twoCities(t *testing.T) *board.Board {
	t.Helper()
	bl := board.NewBuilder()
	a := bl.AddHex("A1", 0, 0)
	m := bl.AddHex("B1", 1, 0)
	c := bl.AddHex("C1", 2, 0)
	bl.SetTile(m, "9", 0)
	home := bl.AddNode(a, board.NodeSpec{Name: "Home", Kind: board.City, Slots: 1, Route: board.RouteMandatory})
	far := bl.AddNode(c, board.NodeSpec{Name: "Far", Kind: board.City, Slots: 2, Route: board.RouteMandatory})
	bl.AddPath(a, board.PathSpec{A: board.NodeEnd(home), B: board.EdgeEnd(0)})
	bl.AddPath(m, board.PathSpec{A: board.EdgeEnd(3), B: board.EdgeEnd(0), Track: board.TrackDual})
	bl.AddPath(c, board.PathSpec{A: board.EdgeEnd(3), B: board.NodeEnd(far)})
	bl.AddCorporation(board.CorporationSpec{ID: "PRR", HomeCity: -1, Tokens: 2})
	bl.PlaceToken("PRR", home)
	b, err := bl.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return b
}

func TestToDOTBoard(t *testing.T) {
	dot := ToDOT(twoCities(t), nil, Options{})

	for _, want := range []string{
		"graph G {",
		`subgraph "cluster_A1"`,
		`label="B1 [9/0]"`,
		`n0 [label="Home\nPRR", shape=circle, fillcolor=white, penwidth=3]`,
		"p0 -- n0;",
		"p0 -- p1 [style=bold];",
		"p1 -- p2 [style=bold];",
		"p2 -- n1;",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Count(dot, "[style=bold]") != 2 {
		t.Errorf("edge crossings should be drawn once each:\n%s", dot)
	}
	if strings.Contains(dot, "darkorange") {
		t.Error("bare board should not mark layable hexes")
	}
}

func TestToDOTClasses(t *testing.T) {
	b := twoCities(t)
	g := graph.New(b, b, "PRR", graph.Options{Visualize: true})

	dot := ToDOT(b, g, Options{})
	if !strings.Contains(dot, "fillcolor=gold, penwidth=3") {
		t.Errorf("seeded token node should be the front:\n%s", dot)
	}
	if !strings.Contains(dot, `label="PRR step 0 (fresh)"`) {
		t.Errorf("missing graph label:\n%s", dot)
	}

	g.AdvanceTo(2)
	dot = ToDOT(b, g, Options{})
	for _, want := range []string{
		`n0 [label="Home\nPRR", shape=circle, fillcolor=palegreen`,
		`p0 [label="node:0-edge:0", shape=box, style="rounded,filled", fillcolor=palegreen]`,
		`p1 [label="edge:3-edge:0", shape=box, style="rounded,filled", fillcolor=gold]`,
		"color=darkorange",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(twoCities(t), nil, Options{Detailed: true})
	if !strings.Contains(dot, `edge:3-edge:0 dual`) {
		t.Errorf("detailed path label missing track:\n%s", dot)
	}
	if !strings.Contains(dot, `Far\n0/2`) {
		t.Errorf("detailed city label missing slots:\n%s", dot)
	}
}

func TestRenderDOTAndUnknownFormat(t *testing.T) {
	ctx := context.Background()
	out, err := Render(ctx, "graph G {}", FormatDOT)
	if err != nil || string(out) != "graph G {}" {
		t.Errorf("Render(dot) = %q, %v", out, err)
	}
	if _, err := Render(ctx, "graph G {}", "gif"); err == nil {
		t.Error("Render(gif) should fail")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg><g/></svg>")); string(got) != "<svg><g/></svg>" {
		t.Errorf("svg without viewBox changed: %s", got)
	}
}
