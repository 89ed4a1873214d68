// Package dijkstra implements Dijkstra's shortest-path algorithm over a
// core.Graph with a pluggable, possibly shape-biased, edge cost function.
//
// This is the graph-search primitive behind roadgraph.Graph.ShortestPath
// and shaperoute's anchor-to-anchor stitching. Unlike a plain shortest-path
// routine, the cost function here is not required to equal the edge's
// physical length: shaperoute passes a cost that additionally penalizes
// edges straying from the ideal template trajectory, while roadgraph's
// plain queries pass a cost function that is just edge length.
//
// Determinism: the heap pops by cost and then by smaller node ID, and a
// node's predecessor is replaced only by a strictly cheaper candidate, so
// two runs against the same graph produce byte-identical paths. When two
// paths to a node cost the same, the predecessor that reached it first is
// kept; the lexicographically smaller node sequence is not preferred.
//
// Complexity: O((V + E) log V) time, O(V + E) space, using a lazy
// decrease-key min-heap exactly as a textbook Dijkstra would.
package dijkstra
