// Package roadgraph adapts a provider-supplied road core.Graph into the
// routing primitives the rest of the pipeline needs: nearest-node lookup,
// coordinate/length queries, and a pluggable-cost shortest path.
//
// NearestNode is backed by a tidwall/rtree spatial index built once at
// construction, so repeated lookups against the same graph (once per
// anchor, once per scaling-loop iterate) don't fall back to a linear scan.
package roadgraph
