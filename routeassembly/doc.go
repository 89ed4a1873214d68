// Package routeassembly packages a fitted, guided route into the response
// shape the HTTP boundary returns: a metrics summary, a GeoJSON
// FeatureCollection holding the routed LineString, the guidance point
// list, and the saved-output path (if any). It also re-validates the
// polyline-length invariant before handing the response back.
package routeassembly
