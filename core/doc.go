// Package core defines the in-memory road-graph type that roadgraph adapts
// external providers into: Node, Edge, and Graph, plus thread-safe
// primitives for building and querying them.
//
// This is a deliberately narrow graph type compared to a general-purpose
// graph library: a road graph in this system is built once (by a provider,
// or by a test fixture) and then only read from during routing, so there is
// no clone, no adjacency-matrix view, and no mixed directed/undirected
// edges — every edge here is directed, matching a road network's one-way
// traversal semantics (an undirected street is simply two opposing directed
// edges, same as OSM-derived graphs represent it).
//
// Concurrency: a single sync.RWMutex guards both the node and edge maps.
// Construction (AddNode/AddEdge) is expected to happen once, single
// threaded, during provider load; queries (Node, Edges, EdgeGeometry, and
// the dijkstra searches over them) may run concurrently from multiple requests against the
// same cached Graph, matching a read-mostly cache's lifecycle.
package core
