// Package report runs every connectivity query for a corporation and
// collects the answers into a serializable [Report].
package report

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/matzehuels/trackgraph/pkg/adapter"
	"github.com/matzehuels/trackgraph/pkg/board"
	"github.com/matzehuels/trackgraph/pkg/graph"
)

// Report is the full connectivity picture of one corporation.
type Report struct {
	Corporation string `json:"corporation" bson:"corporation"`
	Board       string `json:"board" bson:"board"`

	Route           graph.RouteInfo `json:"route" bson:"route"`
	CanToken        bool            `json:"can_token" bson:"can_token"`
	TokenableCities []NodeRef       `json:"tokenable_cities" bson:"tokenable_cities"`
	ConnectedHexes  []HexEdges      `json:"connected_hexes" bson:"connected_hexes"`
	ConnectedNodes  []NodeRef       `json:"connected_nodes" bson:"connected_nodes"`
	ReachableHexes  []string        `json:"reachable_hexes" bson:"reachable_hexes"`
	ConnectedPaths  int             `json:"connected_paths" bson:"connected_paths"`

	Steps int `json:"steps" bson:"steps"`
}

// NodeRef names a node by hex and position on it.
type NodeRef struct {
	Hex   string `json:"hex" bson:"hex"`
	Index int    `json:"index" bson:"index"`
	Name  string `json:"name,omitempty" bson:"name,omitempty"`
	Kind  string `json:"kind" bson:"kind"`
}

func (r NodeRef) String() string {
	if r.Name != "" {
		return fmt.Sprintf("%s#%d %s", r.Hex, r.Index, r.Name)
	}
	return fmt.Sprintf("%s#%d", r.Hex, r.Index)
}

// HexEdges lists the boundary directions of a hex the network touches.
type HexEdges struct {
	Hex        string `json:"hex" bson:"hex"`
	Directions []int  `json:"directions" bson:"directions"`
}

// Build answers every query for corp through a and resolves IDs to names
// on b. The corporation's graph is left finished.
func Build(a *adapter.Adapter, b *board.Board, corp board.CorpID) Report {
	r := Report{
		Corporation: string(corp),
		Board:       b.Digest(),
		Route:       a.RouteInfo(corp),
		CanToken:    a.CanToken(corp, adapter.CanTokenOpts{}),
	}

	r.TokenableCities = NodeRefs(b, a.TokenableCities(corp))
	r.ConnectedNodes = NodeRefs(b, a.ConnectedNodes(corp))
	r.ConnectedHexes = HexEdgesOf(b, a.ConnectedHexes(corp))
	r.ReachableHexes = HexNames(b, a.ReachableHexes(corp))
	r.ConnectedPaths = len(a.ConnectedPaths(corp))
	r.Steps = a.Graph(corp).Step()
	return r
}

// NodeRefs resolves node IDs to references on b.
func NodeRefs(b *board.Board, nodes []board.NodeID) []NodeRef {
	out := make([]NodeRef, 0, len(nodes))
	for _, n := range nodes {
		node := b.Node(n)
		out = append(out, NodeRef{Hex: b.HexName(node.Hex), Index: node.Index, Name: node.Name, Kind: node.Kind.String()})
	}
	return out
}

// HexEdgesOf resolves a layable hex map, ordered by hex name.
func HexEdgesOf(b *board.Board, hexes map[board.HexID][]board.Direction) []HexEdges {
	out := make([]HexEdges, 0, len(hexes))
	for h, dirs := range hexes {
		he := HexEdges{Hex: b.HexName(h), Directions: make([]int, 0, len(dirs))}
		for _, d := range dirs {
			he.Directions = append(he.Directions, int(d))
		}
		out = append(out, he)
	}
	slices.SortFunc(out, func(x, y HexEdges) int {
		return compareHexNames(x.Hex, y.Hex)
	})
	return out
}

// HexNames resolves hex IDs to their names.
func HexNames(b *board.Board, hexes []board.HexID) []string {
	out := make([]string, 0, len(hexes))
	for _, h := range hexes {
		out = append(out, b.HexName(h))
	}
	return out
}

// compareHexNames orders map coordinates by letter block then number, so
// "B2" sorts before "B10".
func compareHexNames(x, y string) int {
	lx, nx := splitHexName(x)
	ly, ny := splitHexName(y)
	if len(lx) != len(ly) {
		return len(lx) - len(ly)
	}
	if lx != ly {
		if lx < ly {
			return -1
		}
		return 1
	}
	return nx - ny
}

func splitHexName(s string) (string, int) {
	i := 0
	for i < len(s) && (s[i] < '0' || s[i] > '9') {
		i++
	}
	n := 0
	for _, c := range s[i:] {
		if c < '0' || c > '9' {
			return s, 0
		}
		n = n*10 + int(c-'0')
	}
	return s[:i], n
}

// Marshal encodes r as JSON.
func Marshal(r Report) ([]byte, error) { return json.Marshal(r) }

// Unmarshal decodes a JSON report.
func Unmarshal(data []byte) (Report, error) {
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return Report{}, fmt.Errorf("decode report: %w", err)
	}
	return r, nil
}
