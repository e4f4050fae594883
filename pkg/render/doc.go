// Package render draws a board and the state of a corporation's search as
// a Graphviz diagram.
//
// Every hex becomes a cluster holding its nodes, junctions and paths.
// Paths link to the nodes and junctions at their ends and to the paths
// they continue onto across hex edges. When a [graph.Graph] is given,
// atoms are filled by their visualization class, so stepping the search
// and re-rendering shows the breadth-first frontier move.
//
//	dot := render.ToDOT(b, g, render.Options{})
//	svg, err := render.RenderSVG(dot)
//
// [ToPDF] and [ToPNG] convert SVG output with the external rsvg-convert
// tool (from librsvg).
package render
