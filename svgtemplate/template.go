package svgtemplate

import (
	"math"

	"github.com/gpsartgen/routeart/geoproj"
	"github.com/gpsartgen/routeart/options"
	"github.com/gpsartgen/routeart/routeerrors"
)

// Template is a normalized unit-square polyline ready for placement: both
// axes lie in [0, 1], first and last points may coincide for a closed
// shape.
type Template struct {
	Points []Point
}

// Load parses SVG bytes into a unit-square Template per o's svg_* fields.
func Load(data []byte, o options.Options) (Template, error) {
	subs, err := parseSVG(data)
	if err != nil {
		return Template{}, routeerrors.Wrap(routeerrors.KindTemplateInvalid, err, "parsing SVG template")
	}
	if len(subs) == 0 {
		return Template{}, routeerrors.New(routeerrors.KindTemplateInvalid, "template contains no path data")
	}

	var chosen subPath
	if o.SVGPathAuto {
		chosen = mergeSubPaths(subs)
	} else {
		if o.SVGPathIndex < 0 || o.SVGPathIndex >= len(subs) {
			return Template{}, routeerrors.New(routeerrors.KindTemplateInvalid,
				"svg_path_index %d out of range (template has %d sub-paths)", o.SVGPathIndex, len(subs))
		}
		chosen = subs[o.SVGPathIndex]
	}

	if len(chosen.Points) < 2 {
		return Template{}, routeerrors.New(routeerrors.KindTemplateInvalid, "selected sub-path has fewer than 2 points")
	}

	sampled := sampleSegments(chosen.Points, o.SVGSamplesPerSeg)

	unit, err := normalizeToUnitSquare(sampled)
	if err != nil {
		return Template{}, err
	}

	if o.SVGFlipY {
		for i := range unit {
			unit[i].Y = 1 - unit[i].Y
		}
	}

	if o.SVGSimplify > 0 {
		unit = geoproj.Simplify(unit, o.SVGSimplify)
	}

	return Template{Points: unit}, nil
}

// mergeSubPaths greedily chains sub-paths into one polyline by repeatedly
// appending whichever remaining sub-path's nearer endpoint is closest to
// the current tail, reversing that sub-path if its far endpoint is closer.
// Ties are broken by the sub-path's original index.
func mergeSubPaths(subs []subPath) subPath {
	remaining := make([]subPath, len(subs))
	copy(remaining, subs)

	merged := subPath{Points: append([]Point(nil), remaining[0].Points...)}
	remaining = remaining[1:]

	for len(remaining) > 0 {
		tail := merged.Points[len(merged.Points)-1]

		bestIdx := -1
		bestReverse := false
		bestDist := math.Inf(1)

		for idx, sp := range remaining {
			head := sp.Points[0]
			end := sp.Points[len(sp.Points)-1]

			if d := dist(tail, head); d < bestDist {
				bestDist, bestIdx, bestReverse = d, idx, false
			}
			if d := dist(tail, end); d < bestDist {
				bestDist, bestIdx, bestReverse = d, idx, true
			}
		}

		next := remaining[bestIdx].Points
		if bestReverse {
			next = reversePoints(next)
		}
		merged.Points = append(merged.Points, next...)

		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return merged
}

func dist(a, b Point) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y

	return math.Hypot(dx, dy)
}

func reversePoints(pts []Point) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}

	return out
}

// sampleSegments resamples each segment of pts into samplesPerSeg+1
// evenly spaced points (linear interpolation), concatenating across
// segments while not duplicating shared endpoints.
func sampleSegments(pts []Point, samplesPerSeg int) []Point {
	if samplesPerSeg < 1 {
		samplesPerSeg = 1
	}

	out := make([]Point, 0, (len(pts)-1)*samplesPerSeg+1)
	out = append(out, pts[0])

	for i := 0; i < len(pts)-1; i++ {
		a, b := pts[i], pts[i+1]
		for k := 1; k <= samplesPerSeg; k++ {
			t := float64(k) / float64(samplesPerSeg)
			out = append(out, Point{
				X: a.X + t*(b.X-a.X),
				Y: a.Y + t*(b.Y-a.Y),
			})
		}
	}

	return out
}

// normalizeToUnitSquare affine-maps pts' bounding box into [0,1]x[0,1],
// preserving aspect ratio by letterboxing (centering the shorter axis).
func normalizeToUnitSquare(pts []Point) ([]Point, error) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	w, h := maxX-minX, maxY-minY
	if math.Max(w, h) <= 0 {
		return nil, routeerrors.New(routeerrors.KindTemplateInvalid, "template bounding box is degenerate")
	}

	side := math.Max(w, h)
	padX, padY := (side-w)/2, (side-h)/2

	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = Point{
			X: (p.X - minX + padX) / side,
			Y: (p.Y - minY + padY) / side,
		}
	}

	return out, nil
}
