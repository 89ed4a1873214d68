// Package routeart generates runnable GPS-art routes: it takes a 2-D vector
// template (a star, a heart, initials, ...), places it geographically around
// a start point, and stitches a path across real road-graph centerlines that
// traces the template's shape while hitting a target distance.
//
// Pipeline, leaves first:
//
//	geoproj       — meter-scale projection, densify/thin, haversine length
//	svgtemplate   — path-description parsing, sampling, unit-square normalization
//	placement     — unit template → meter-space template around a start point
//	roadgraph     — adapter over a road graph: nearest node, edge length, shortest path
//	shaperoute    — shape-biased Dijkstra stitching of anchor waypoints
//	fitloop       — binary search over template scale to hit a target distance
//	guidance      — turn-by-turn guidance point extraction
//	routeassembly — final GeoJSON + metrics + guidance response
//
// generator ties the above into one per-request RouteContext; httpapi and
// cmd/routeart-server wire it to an HTTP surface.
//
//	go get github.com/gpsartgen/routeart
package routeart
