// Package guidance walks a routed geographic polyline and produces an
// ordered list of turn-by-turn guidance points: a start marker, a
// classified turn at every interior vertex whose bearing change is at least
// 15 degrees (same-side turns within the merge gap collapse to the sharper
// one), a kilometer marker at each 1km boundary, and a finish
// marker, renumbered 1..K in polyline order.
package guidance
