// File: types.go
// Role: Node, Edge, Graph types; sentinel errors; NewGraph constructor.
package core

import (
	"errors"
	"sync"

	"github.com/gpsartgen/routeart/geoproj"
)

// Sentinel errors for core graph operations.
var (
	// ErrEmptyNodeID indicates a Node was added, or an Edge was added with an
	// endpoint, whose ID is empty.
	ErrEmptyNodeID = errors.New("core: node ID is empty")

	// ErrNodeNotFound indicates an operation referenced a non-existent node.
	ErrNodeNotFound = errors.New("core: node not found")

	// ErrEdgeNotFound indicates an operation referenced a non-existent edge.
	ErrEdgeNotFound = errors.New("core: edge not found")

	// ErrDuplicateNode indicates AddNode was called twice for the same ID
	// with different coordinates (re-adding with identical coordinates is a
	// harmless no-op).
	ErrDuplicateNode = errors.New("core: node already exists with different coordinates")

	// ErrBadLength indicates an edge length that is negative, NaN, or +Inf.
	ErrBadLength = errors.New("core: edge length must be finite and non-negative")
)

// Node is a road-graph intersection or shape point: an ID and its
// geographic coordinates. Every Node's coordinates are finite.
type Node struct {
	ID  string
	Lat float64
	Lng float64
}

// LatLng returns n's coordinates as a geoproj.LatLng.
func (n Node) LatLng() geoproj.LatLng {
	return geoproj.LatLng{Lat: n.Lat, Lng: n.Lng}
}

// Edge is a directed road segment between two nodes. LengthM is the
// centerline length in meters, non-negative and finite. Geometry, if
// present, is the shape points of the segment in order from From to To;
// when nil, the segment is a straight line between the endpoints'
// coordinates.
type Edge struct {
	ID       string
	From     string
	To       string
	LengthM  float64
	Geometry []geoproj.LatLng
}

// Graph is the in-memory road-graph structure that roadgraph.Graph adapts
// into the pipeline's routing primitives. All edges are directed; an
// undirected street is represented as two Edges, one in each direction.
type Graph struct {
	mu sync.RWMutex

	nodes map[string]Node
	edges map[string]Edge

	// outAdj[from] = list of edge IDs leaving from, insertion order.
	outAdj map[string][]string
}

// NewGraph constructs an empty Graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:  make(map[string]Node),
		edges:  make(map[string]Edge),
		outAdj: make(map[string][]string),
	}
}
