package roadgraph

import (
	"errors"
	"math"

	"github.com/tidwall/rtree"

	"github.com/gpsartgen/routeart/core"
	"github.com/gpsartgen/routeart/dijkstra"
	"github.com/gpsartgen/routeart/geoproj"
)

// ErrEmptyGraph indicates New was called with a graph that has no nodes.
var ErrEmptyGraph = errors.New("roadgraph: graph has no nodes")

// ErrNoPath indicates ShortestPath found no route between u and v.
var ErrNoPath = errors.New("roadgraph: no path between nodes")

// CostFunc is an edge cost function; see dijkstra.CostFunc.
type CostFunc = dijkstra.CostFunc

// Graph adapts a core.Graph with a nearest-node spatial index and a
// shortest-path primitive under a pluggable edge cost.
type Graph struct {
	core *core.Graph
	idx  *rtree.RTreeG[string]
}

// New builds a Graph over g, indexing every node's coordinates into an
// R-tree for NearestNode queries. g is expected to be fully built already;
// New does not observe later AddNode/AddEdge calls.
func New(g *core.Graph) *Graph {
	idx := &rtree.RTreeG[string]{}
	for _, n := range g.AllNodes() {
		pt := [2]float64{n.Lng, n.Lat}
		idx.Insert(pt, pt, n.ID)
	}

	return &Graph{core: g, idx: idx}
}

// NearestNode returns the node ID whose coordinates are closest (by
// haversine distance) to (lat, lng).
func (rg *Graph) NearestNode(lat, lng float64) (string, error) {
	if rg.core.NodeCount() == 0 {
		return "", ErrEmptyGraph
	}

	target := geoproj.LatLng{Lat: lat, Lng: lng}

	bestID := ""
	bestD := math.Inf(1)
	search := func(delta float64) {
		min := [2]float64{lng - delta, lat - delta}
		max := [2]float64{lng + delta, lat + delta}
		rg.idx.Search(min, max, func(_, _ [2]float64, id string) bool {
			n, err := rg.core.Node(id)
			if err != nil {
				return true
			}
			d := geoproj.Haversine(target, n.LatLng())
			if d < bestD {
				bestD, bestID = d, id
			}

			return true
		})
	}

	// Expand the search box geometrically until at least one candidate is
	// found, then do one more pass sized to the found distance whenever that
	// distance reaches past the box that was searched: a point
	// just outside the box that found bestID can still be nearer than
	// bestID if it fell inside the original box's corner gap.
	const startDelta = 0.001 // ~111m of latitude at the equator
	delta := startDelta
	for i := 0; i < 24 && bestID == ""; i++ {
		search(delta)
		delta *= 4
	}
	if bestID == "" {
		return "", ErrEmptyGraph
	}

	searched := delta / 4 // delta was grown once more after the successful search
	confirmDelta := bestD / 111000 * 1.5
	if confirmDelta > searched {
		search(confirmDelta)
	}

	return bestID, nil
}

// Coords returns the (lat, lng) of a node.
func (rg *Graph) Coords(nodeID string) (geoproj.LatLng, error) {
	n, err := rg.core.Node(nodeID)
	if err != nil {
		return geoproj.LatLng{}, err
	}

	return n.LatLng(), nil
}

// EdgeLength returns the length in meters of the edge from u to v, or
// ErrNoPath if no such directed edge exists.
func (rg *Graph) EdgeLength(u, v string) (float64, error) {
	for _, e := range rg.core.Edges(u) {
		if e.To == v {
			return e.LengthM, nil
		}
	}

	return 0, ErrNoPath
}

// EdgeGeometry returns the polyline of the edge from u to v.
func (rg *Graph) EdgeGeometry(u, v string) ([]geoproj.LatLng, error) {
	for _, e := range rg.core.Edges(u) {
		if e.To == v {
			return rg.core.EdgeGeometry(e), nil
		}
	}

	return nil, ErrNoPath
}

// ShortestPath computes the lowest-cost node sequence from u to v under
// cost. A nil cost falls back to plain edge length.
func (rg *Graph) ShortestPath(u, v string, cost CostFunc) ([]string, float64, error) {
	if cost == nil {
		cost = dijkstra.LengthCost
	}

	result, err := dijkstra.Run(rg.core,
		dijkstra.Source(u),
		dijkstra.Target(v),
		dijkstra.WithCost(cost),
		dijkstra.WithReturnPath(),
	)
	if err != nil {
		return nil, 0, err
	}

	path, ok := result.Path(u, v)
	if !ok {
		return nil, 0, ErrNoPath
	}

	return path, result.Dist[v], nil
}

// Core exposes the underlying core.Graph for callers (e.g. shaperoute) that
// need direct edge access for a shape-biased cost function.
func (rg *Graph) Core() *core.Graph { return rg.core }
