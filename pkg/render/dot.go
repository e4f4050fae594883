package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/trackgraph/pkg/board"
	"github.com/matzehuels/trackgraph/pkg/graph"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds track type and terminal markers to path labels and
	// slot usage to city labels.
	Detailed bool
}

// Fill colors per visualization class.
var classColors = map[graph.Class]string{
	graph.ClassUnknown:  "white",
	graph.ClassFront:    "gold",
	graph.ClassEnqueued: "lightskyblue",
	graph.ClassVisited:  "palegreen",
	graph.ClassBoth:     "mediumaquamarine",
}

// ToDOT converts b to Graphviz DOT. g may be nil to draw the bare board.
func ToDOT(b *board.Board, g *graph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  compound=true;\n")
	buf.WriteString("  node [style=filled, fillcolor=white, fontsize=12];\n")
	if g != nil {
		fmt.Fprintf(&buf, "  label=%q;\n", fmt.Sprintf("%s step %d (%s)", g.Corporation(), g.Step(), g.State()))
	}
	buf.WriteString("\n")

	for h := range board.HexID(b.NumHexes()) {
		writeHex(&buf, b, g, b.Hex(h), opts)
	}

	buf.WriteString("\n")
	for p := range board.PathID(b.NumPaths()) {
		writePathEdges(&buf, b, b.Path(p))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeHex(buf *bytes.Buffer, b *board.Board, g *graph.Graph, hex *board.Hex, opts Options) {
	label := hex.Name
	if hex.Tile != "" {
		label = fmt.Sprintf("%s [%s/%d]", hex.Name, hex.Tile, hex.Rotation)
	}
	fmt.Fprintf(buf, "  subgraph \"cluster_%s\" {\n", hex.Name)
	fmt.Fprintf(buf, "    label=%q;\n", label)
	if layable(g, hex.ID) {
		buf.WriteString("    style=\"dashed\"; color=darkorange;\n")
	}

	for _, n := range hex.Nodes {
		node := b.Node(n)
		attrs := []string{
			fmt.Sprintf("label=%q", nodeLabel(node, opts.Detailed)),
			"shape=" + nodeShape(node.Kind),
			fillAttr(g, graph.NodeAtom(n)),
		}
		if len(node.Tokens) > 0 {
			attrs = append(attrs, "penwidth=3")
		}
		fmt.Fprintf(buf, "    %s [%s];\n", atomID(graph.NodeAtom(n)), strings.Join(attrs, ", "))
	}
	for _, j := range hex.Junctions {
		a := graph.JunctionAtom(j)
		fmt.Fprintf(buf, "    %s [label=\"\", shape=point, width=0.15, %s];\n", atomID(a), fillAttr(g, a))
	}
	for _, p := range hex.Paths {
		path := b.Path(p)
		a := graph.PathAtom(p)
		fmt.Fprintf(buf, "    %s [label=%q, shape=box, style=\"rounded,filled\", %s];\n",
			atomID(a), pathLabel(path, opts.Detailed), fillAttr(g, a))
	}
	buf.WriteString("  }\n")
}

func writePathEdges(buf *bytes.Buffer, b *board.Board, path *board.Path) {
	from := atomID(graph.PathAtom(path.ID))
	for _, end := range path.Ends() {
		switch end.Kind {
		case board.EndNode:
			fmt.Fprintf(buf, "  %s -- %s;\n", from, atomID(graph.NodeAtom(end.Node)))
		case board.EndJunction:
			fmt.Fprintf(buf, "  %s -- %s;\n", from, atomID(graph.JunctionAtom(end.Junction)))
		case board.EndEdge:
			next, _ := graph.ContinuingPaths(b, graph.Edge{Hex: path.Hex, Dir: end.Edge}, path.Track)
			for _, np := range next {
				// Each crossing is found from both sides; draw it once.
				if np > path.ID {
					fmt.Fprintf(buf, "  %s -- %s [style=bold];\n", from, atomID(graph.PathAtom(np)))
				}
			}
		}
	}
}

func layable(g *graph.Graph, h board.HexID) bool {
	if g == nil {
		return false
	}
	for d := range board.Direction(board.Directions) {
		if g.IsLayable(h, d) {
			return true
		}
	}
	return false
}

func atomID(a graph.Atom) string {
	return fmt.Sprintf("%s%d", a.Kind.String()[:1], a.ID)
}

func fillAttr(g *graph.Graph, a graph.Atom) string {
	class := graph.ClassUnknown
	if g != nil {
		class = g.Classify(a)
	}
	return "fillcolor=" + classColors[class]
}

func nodeShape(k board.NodeKind) string {
	switch k {
	case board.City:
		return "circle"
	case board.Town:
		return "point"
	default:
		return "hexagon"
	}
}

func nodeLabel(n *board.Node, detailed bool) string {
	label := n.Name
	if label == "" {
		label = n.Kind.String()
	}
	if len(n.Tokens) > 0 {
		corps := make([]string, len(n.Tokens))
		for i, c := range n.Tokens {
			corps[i] = string(c)
		}
		label += "\n" + strings.Join(corps, " ")
	}
	if detailed && n.Kind == board.City {
		label += fmt.Sprintf("\n%d/%d", len(n.Tokens), n.Slots)
	}
	return label
}

func pathLabel(p *board.Path, detailed bool) string {
	label := fmt.Sprintf("%s-%s", p.A, p.B)
	if !detailed {
		return label
	}
	if p.Track != board.TrackBroad {
		label += " " + p.Track.String()
	}
	if p.Terminal {
		label += " terminal"
	}
	return label
}
