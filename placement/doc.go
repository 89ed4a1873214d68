// Package placement maps a unit-square svgtemplate.Template into meters
// around a start coordinate: center on centroid, scale by the canvas box
// fraction and the scaling loop's current scalar, rotate, then offset so
// the shape sits near (rather than always centered on) the start point.
package placement
