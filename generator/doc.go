// Package generator orchestrates one request end to end: load template,
// place it, binary-search a scale that fits the target distance, extract
// guidance, and assemble the response. A RouteContext holds no per-request
// state, so one instance may serve concurrent Generate calls.
package generator
