// Package geoproj provides the local meter-scale projection and polyline
// utilities shared by every stage of the route-generation pipeline:
// template placement, graph adaptation, shape-biased routing, and guidance
// extraction all reason about geometry in the same meter-space produced
// here, so results stay reproducible across the whole run.
//
// The projection is a local equirectangular approximation parameterized by
// a single origin latitude. It is intentionally not a general-purpose
// geodesy library: it is accurate for the scale this package is built for
// (single routes of a few tens of kilometers) and deterministic, which
// matters more than millimeter accuracy for a GPS-art route.
package geoproj
