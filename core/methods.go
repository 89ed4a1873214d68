// File: methods.go
// Role: Node/Edge lifecycle and read queries.
// Determinism: Edges(from) iterates in the order edges were added, so two
// identically-built graphs produce identical edge iteration order.
// AllNodes returns nodes in unspecified order.
package core

import (
	"math"

	"github.com/gpsartgen/routeart/geoproj"
)

// AddNode inserts a node, or no-ops if an identical node already exists.
// Complexity: O(1).
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrEmptyNodeID
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if existing, ok := g.nodes[n.ID]; ok {
		if existing.Lat != n.Lat || existing.Lng != n.Lng {
			return ErrDuplicateNode
		}

		return nil
	}

	g.nodes[n.ID] = n

	return nil
}

// AddEdge inserts a directed edge from e.From to e.To. Both endpoints must
// already exist via AddNode. Complexity: O(1) amortized.
func (g *Graph) AddEdge(e Edge) error {
	if e.From == "" || e.To == "" {
		return ErrEmptyNodeID
	}
	if math.IsNaN(e.LengthM) || math.IsInf(e.LengthM, 0) || e.LengthM < 0 {
		return ErrBadLength
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.nodes[e.From]; !ok {
		return ErrNodeNotFound
	}
	if _, ok := g.nodes[e.To]; !ok {
		return ErrNodeNotFound
	}

	g.edges[e.ID] = e
	g.outAdj[e.From] = append(g.outAdj[e.From], e.ID)

	return nil
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (Node, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return Node{}, ErrNodeNotFound
	}

	return n, nil
}

// HasNode reports whether id exists in the graph.
func (g *Graph) HasNode(id string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	_, ok := g.nodes[id]

	return ok
}

// Edges returns all edges leaving the node id, in insertion order. An
// unknown node yields an empty (not nil-error) slice, matching a road
// graph's convention that a dead-end intersection simply has no outgoing
// edges.
func (g *Graph) Edges(from string) []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	ids := g.outAdj[from]
	out := make([]Edge, 0, len(ids))
	for _, id := range ids {
		out = append(out, g.edges[id])
	}

	return out
}

// Edge returns the edge with the given ID.
func (g *Graph) Edge(id string) (Edge, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	e, ok := g.edges[id]
	if !ok {
		return Edge{}, ErrEdgeNotFound
	}

	return e, nil
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.nodes)
}

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.edges)
}

// AllNodes returns every node in the graph, order unspecified. Callers
// that need determinism (e.g. building a spatial index) should sort by ID.
func (g *Graph) AllNodes() []Node {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}

	return out
}

// EdgeGeometry returns the geographic polyline for edge e: its stored
// Geometry if present, or a straight line between its endpoints when no
// shape points were recorded for the edge.
func (g *Graph) EdgeGeometry(e Edge) []geoproj.LatLng {
	if len(e.Geometry) > 0 {
		return e.Geometry
	}

	from, err := g.Node(e.From)
	if err != nil {
		return nil
	}
	to, err := g.Node(e.To)
	if err != nil {
		return nil
	}

	return []geoproj.LatLng{from.LatLng(), to.LatLng()}
}
