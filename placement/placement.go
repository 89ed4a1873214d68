package placement

import "math"

// Point is a 2-D point in meters, relative to the Placement's own local
// origin (the start coordinate's projection), not yet converted back to
// lat/lng.
type Point struct {
	X, Y float64
}

// Place centers unit on its centroid, scales by canvasBoxFrac * refSideM *
// scale, rotates by rotDeg, and offsets the result so it lies near the
// origin (the start point, at local (0,0)) per the proximity blend.
//
// proximityAlpha blends between "no shift" (0) and "shift so the nearest
// template sample lands exactly on the start" (1); the resulting shift is
// capped in magnitude by proximityMaxShiftM.
func Place(unit []Point, canvasBoxFrac, refSideM, scale, rotDeg, proximityAlpha, proximityMaxShiftM float64) []Point {
	if len(unit) == 0 {
		return nil
	}

	cx, cy := centroid(unit)

	sideM := canvasBoxFrac * refSideM * scale
	theta := rotDeg * math.Pi / 180

	scaledRotated := make([]Point, len(unit))
	for i, p := range unit {
		// Center on centroid, then scale.
		dx := (p.X - cx) * sideM
		dy := (p.Y - cy) * sideM

		// Rotate.
		rx := dx*math.Cos(theta) - dy*math.Sin(theta)
		ry := dx*math.Sin(theta) + dy*math.Cos(theta)

		scaledRotated[i] = Point{X: rx, Y: ry}
	}

	// v is the vector that would move the nearest template sample (to the
	// origin/start, post scale+rotate) onto the start: the negation of
	// that sample's own position.
	nearest := nearestToOrigin(scaledRotated)
	v := Point{X: -nearest.X, Y: -nearest.Y}

	offset := Point{
		X: (1 - proximityAlpha) * 0 + proximityAlpha*v.X,
		Y: (1 - proximityAlpha) * 0 + proximityAlpha*v.Y,
	}
	offset = capMagnitude(offset, proximityMaxShiftM)

	out := make([]Point, len(scaledRotated))
	for i, p := range scaledRotated {
		out[i] = Point{X: p.X + offset.X, Y: p.Y + offset.Y}
	}

	return out
}

func centroid(pts []Point) (float64, float64) {
	var sx, sy float64
	for _, p := range pts {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(pts))

	return sx / n, sy / n
}

func nearestToOrigin(pts []Point) Point {
	best := pts[0]
	bestD := math.Hypot(best.X, best.Y)
	for _, p := range pts[1:] {
		d := math.Hypot(p.X, p.Y)
		// Equal distances go to the smaller (X, Y), so the choice does not
		// depend on the order of pts.
		if d < bestD || (d == bestD && (p.X < best.X || (p.X == best.X && p.Y < best.Y))) {
			best, bestD = p, d
		}
	}

	return best
}

func capMagnitude(p Point, maxMag float64) Point {
	mag := math.Hypot(p.X, p.Y)
	if mag <= maxMag || mag == 0 {
		return p
	}

	scale := maxMag / mag

	return Point{X: p.X * scale, Y: p.Y * scale}
}
