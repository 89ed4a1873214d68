package fitloop

import (
	"context"
	"math"

	"github.com/gpsartgen/routeart/geoproj"
	"github.com/gpsartgen/routeart/options"
	"github.com/gpsartgen/routeart/placement"
	"github.com/gpsartgen/routeart/roadgraph"
	"github.com/gpsartgen/routeart/routeerrors"
	"github.com/gpsartgen/routeart/shaperoute"
	"github.com/gpsartgen/routeart/svgtemplate"
)

// Result is the outcome of Fit: the accepted (or best-effort) routed path,
// the scale that produced it, and whether it met tolerance.
type Result struct {
	Route     shaperoute.RoutedPath
	ScaleUsed float64
	Matched   bool
	LengthM   float64
}

const (
	initialSLo = 0.2
	initialSHi = 3.0
)

// Fit binary-searches a placement scale so the routed path length lands
// within tol_ratio of targetKM, trying at most iters bisection candidates
// after an optional one-shot bracket-grow step. If no candidate satisfies
// tolerance, it returns the best (smallest |L-target|) feasible candidate
// with Matched=false. It returns routeerrors.KindFitFailed only if every
// evaluated candidate was infeasible.
func Fit(ctx context.Context, rg *roadgraph.Graph, proj *geoproj.Projector, tmpl svgtemplate.Template, start geoproj.LatLng, targetKM float64, o options.Options) (Result, error) {
	targetM := targetKM * 1000

	sLo, sHi := initialSLo, initialSHi

	lLo, routeLo, errLo := evaluate(ctx, rg, proj, tmpl, start, sLo, o)
	if errLo != nil {
		return Result{}, errLo
	}
	lHi, routeHi, errHi := evaluate(ctx, rg, proj, tmpl, start, sHi, o)
	if errHi != nil {
		return Result{}, errHi
	}

	// Bracket-grow: widen once if the target isn't bounded by [sLo, sHi].
	if lLo.length > targetM {
		sLo /= 2
		l, r, err := evaluate(ctx, rg, proj, tmpl, start, sLo, o)
		if err != nil {
			return Result{}, err
		}
		lLo, routeLo = l, r
	}
	if lHi.length < targetM {
		sHi *= 2
		l, r, err := evaluate(ctx, rg, proj, tmpl, start, sHi, o)
		if err != nil {
			return Result{}, err
		}
		lHi, routeHi = l, r
	}

	best := newBestTracker(targetM)
	best.consider(sLo, lLo, routeLo)
	best.consider(sHi, lHi, routeHi)

	if r, ok := best.ifWithinTolerance(o.TolRatio); ok {
		return r, nil
	}

	for i := 0; i < o.Iters; i++ {
		select {
		case <-ctx.Done():
			return Result{}, routeerrors.New(routeerrors.KindCancelled, "cancelled during scaling loop iteration %d", i)
		default:
		}

		s := (sLo + sHi) / 2
		l, routed, err := evaluate(ctx, rg, proj, tmpl, start, s, o)
		if err != nil {
			return Result{}, err
		}

		best.consider(s, l, routed)

		if r, ok := best.ifWithinTolerance(o.TolRatio); ok {
			return r, nil
		}

		// An infeasible candidate's length (+Inf for a broken sub-segment, 0
		// for an unreachable connector) still tells the bisection which side
		// of the target it falls on.
		if l.length < targetM {
			sLo = s
		} else {
			sHi = s
		}
	}

	if !best.everFeasible {
		return Result{}, routeerrors.New(routeerrors.KindFitFailed, "no placement scale produced a routable path in [%g, %g] after bracket-grow", initialSLo, initialSHi)
	}

	return best.result(false), nil
}

// evalOutcome captures one scale candidate's evaluation: its effective
// length (used for bisection direction) and whether it was an actual
// routed path (feasible) or a non-fatal infeasible iterate.
type evalOutcome struct {
	feasible bool
	length   float64
}

func evaluate(ctx context.Context, rg *roadgraph.Graph, proj *geoproj.Projector, tmpl svgtemplate.Template, start geoproj.LatLng, scale float64, o options.Options) (evalOutcome, shaperoute.RoutedPath, error) {
	unit := make([]placement.Point, len(tmpl.Points))
	for i, p := range tmpl.Points {
		unit[i] = placement.Point{X: p.X, Y: p.Y}
	}

	placed := placement.Place(unit, o.CanvasBoxFrac, o.GraphRadiusM, scale, o.GlobalRotDeg, o.ProximityAlpha, o.ProximityMaxShiftM)

	traj := make([]geoproj.MeterPoint, len(placed))
	for i, p := range placed {
		traj[i] = geoproj.MeterPoint{X: p.X, Y: p.Y}
	}

	routed, err := shaperoute.Route(ctx, rg, proj, traj, start, o)
	if err == nil {
		return evalOutcome{feasible: true, length: routed.LengthM}, routed, nil
	}

	switch {
	case routeerrors.Is(err, routeerrors.KindNoPath):
		return evalOutcome{feasible: false, length: math.Inf(1)}, shaperoute.RoutedPath{}, nil
	case routeerrors.Is(err, routeerrors.KindConnectorTooLong):
		return evalOutcome{feasible: false, length: 0}, shaperoute.RoutedPath{}, nil
	default:
		return evalOutcome{}, shaperoute.RoutedPath{}, err
	}
}

// bestTracker remembers the feasible candidate whose length came closest
// to targetM across every scale evaluated.
type bestTracker struct {
	targetM      float64
	everFeasible bool
	bestDiff     float64
	bestScale    float64
	bestRoute    shaperoute.RoutedPath
}

func newBestTracker(targetM float64) *bestTracker {
	return &bestTracker{targetM: targetM, bestDiff: math.Inf(1)}
}

func (b *bestTracker) consider(scale float64, o evalOutcome, routed shaperoute.RoutedPath) {
	if !o.feasible {
		return
	}

	diff := math.Abs(o.length - b.targetM)
	if !b.everFeasible || diff < b.bestDiff {
		b.everFeasible = true
		b.bestDiff = diff
		b.bestScale = scale
		b.bestRoute = routed
	}
}

func (b *bestTracker) ifWithinTolerance(tolRatio float64) (Result, bool) {
	if !b.everFeasible {
		return Result{}, false
	}
	if b.bestDiff <= tolRatio*b.targetM {
		return b.result(true), true
	}

	return Result{}, false
}

func (b *bestTracker) result(matched bool) Result {
	return Result{
		Route:     b.bestRoute,
		ScaleUsed: b.bestScale,
		Matched:   matched,
		LengthM:   b.bestRoute.LengthM,
	}
}
