// Package svgtemplate turns an SVG document's path data into a normalized
// unit-square polyline: the template a route traces.
//
// Parsing recognizes the M/m, L/l, H/h, V/v, C/c, and Z/z path commands
// (the common subset a hand-drawn or vector-exported route template uses);
// cubic Béziers are flattened by fixed-step sampling rather than adaptive
// subdivision, which is adequate once the caller resamples every segment
// anyway (svg_samples_per_seg).
package svgtemplate
