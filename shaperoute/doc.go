// Package shaperoute turns a meter-space ideal trajectory into a routed
// sequence of road-graph nodes whose geometry stays close to that
// trajectory: densify/thin, anchor selection, optional start connector,
// anchor-to-anchor stitching under a shape-biased edge cost, and optional
// loop closing back to the start.
package shaperoute
