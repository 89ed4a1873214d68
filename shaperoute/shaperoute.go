package shaperoute

import (
	"context"
	"errors"
	"math"

	"github.com/gpsartgen/routeart/core"
	"github.com/gpsartgen/routeart/geoproj"
	"github.com/gpsartgen/routeart/options"
	"github.com/gpsartgen/routeart/roadgraph"
	"github.com/gpsartgen/routeart/routeerrors"
)

// RoutedPath is the outcome of Route: a node sequence, its rendered
// geographic polyline, and its total on-road length.
type RoutedPath struct {
	Nodes    []string
	Polyline []geoproj.LatLng
	LengthM  float64
}

// Route densifies trajectory, selects anchors, optionally prepends a
// connector from start, stitches consecutive anchors under a shape-biased
// cost, and optionally closes the loop back to start.
func Route(ctx context.Context, rg *roadgraph.Graph, proj *geoproj.Projector, trajectory []geoproj.MeterPoint, start geoproj.LatLng, o options.Options) (RoutedPath, error) {
	densified, err := geoproj.Densify(trajectory, o.SampleStepM)
	if err != nil {
		return RoutedPath{}, routeerrors.Wrap(routeerrors.KindTemplateTooSparse, err, "densifying template trajectory")
	}
	thinned, err := geoproj.Thin(densified, o.MinWPGapM)
	if err != nil {
		return RoutedPath{}, routeerrors.Wrap(routeerrors.KindTemplateTooSparse, err, "thinning template trajectory")
	}
	if len(thinned) < 2 {
		return RoutedPath{}, routeerrors.New(routeerrors.KindTemplateTooSparse, "template trajectory has fewer than 2 points after densify/thin")
	}

	anchorPts := selectAnchorPoints(thinned, o)

	anchorNodes, err := mapAnchorsToNodes(rg, proj, anchorPts)
	if err != nil {
		return RoutedPath{}, err
	}
	if len(anchorNodes) == 0 {
		return RoutedPath{}, routeerrors.New(routeerrors.KindTemplateTooSparse, "no anchors could be mapped to graph nodes")
	}

	var nodes []string

	if o.ConnectFromStart {
		startNode, err := rg.NearestNode(start.Lat, start.Lng)
		if err != nil {
			return RoutedPath{}, routeerrors.Wrap(routeerrors.KindNoPath, err, "locating nearest node to start")
		}

		startPt := proj.ToMeters(start)
		cost := biasedCost(rg, proj, thinned, startPt, anchorPts[0], o.ShapeBiasLambda)

		path, _, err := rg.ShortestPath(startNode, anchorNodes[0], cost)
		if err != nil {
			if errors.Is(err, roadgraph.ErrNoPath) {
				return RoutedPath{}, routeerrors.New(routeerrors.KindNoPath, "no connector path from start to first anchor")
			}

			return RoutedPath{}, routeerrors.Wrap(routeerrors.KindInternal, err, "computing connector path")
		}

		connectorLen := pathLength(rg, path)
		if connectorLen > o.MaxConnectorM {
			return RoutedPath{}, routeerrors.New(routeerrors.KindConnectorTooLong,
				"connector length %.1fm exceeds max_connector_m=%.1fm", connectorLen, o.MaxConnectorM)
		}

		nodes = append(nodes, path...)
	} else {
		nodes = append(nodes, anchorNodes[0])
	}

	for i := 0; i < len(anchorNodes)-1; i++ {
		if ctx != nil {
			select {
			case <-ctx.Done():
				return RoutedPath{}, routeerrors.New(routeerrors.KindCancelled, "cancelled while stitching anchors")
			default:
			}
		}

		a, b := anchorNodes[i], anchorNodes[i+1]
		if a == b {
			continue
		}

		cost := biasedCost(rg, proj, thinned, anchorPts[i], anchorPts[i+1], o.ShapeBiasLambda)

		path, _, err := rg.ShortestPath(a, b, cost)
		if err != nil {
			if errors.Is(err, roadgraph.ErrNoPath) {
				return RoutedPath{}, routeerrors.New(routeerrors.KindNoPath, "no path between anchors %s and %s", a, b)
			}

			return RoutedPath{}, routeerrors.Wrap(routeerrors.KindInternal, err, "stitching anchors")
		}

		nodes = append(nodes, path[1:]...)
	}

	if o.ReturnToStart {
		startNode, err := rg.NearestNode(start.Lat, start.Lng)
		if err != nil {
			return RoutedPath{}, routeerrors.Wrap(routeerrors.KindNoPath, err, "locating nearest node to start")
		}

		last := nodes[len(nodes)-1]
		if last != startNode {
			lastPt := anchorPts[len(anchorPts)-1]
			startPt := proj.ToMeters(start)
			cost := biasedCost(rg, proj, thinned, lastPt, startPt, o.ShapeBiasLambda)

			path, _, err := rg.ShortestPath(last, startNode, cost)
			if err != nil {
				if errors.Is(err, roadgraph.ErrNoPath) {
					return RoutedPath{}, routeerrors.New(routeerrors.KindNoPath, "no loop-closing path back to start")
				}

				return RoutedPath{}, routeerrors.Wrap(routeerrors.KindInternal, err, "closing loop to start")
			}
			nodes = append(nodes, path[1:]...)
		}
	}

	polyline := renderPolyline(rg, nodes)
	length := pathLength(rg, nodes)

	return RoutedPath{Nodes: nodes, Polyline: polyline, LengthM: length}, nil
}

// selectAnchorPoints picks anchor_count evenly arclength-spaced points from
// T when use_anchors is set, otherwise just T's two endpoints.
func selectAnchorPoints(t []geoproj.MeterPoint, o options.Options) []geoproj.MeterPoint {
	if !o.UseAnchors {
		return []geoproj.MeterPoint{t[0], t[len(t)-1]}
	}

	n := o.AnchorCount
	if n < 1 {
		n = 1
	}

	return geoproj.ArcLengthSample(t, n)
}

// mapAnchorsToNodes converts each anchor to lat/lng and finds its nearest
// graph node, collapsing consecutive duplicate nodes.
func mapAnchorsToNodes(rg *roadgraph.Graph, proj *geoproj.Projector, anchors []geoproj.MeterPoint) ([]string, error) {
	var nodes []string
	for _, a := range anchors {
		ll := proj.ToLatLng(a)
		id, err := rg.NearestNode(ll.Lat, ll.Lng)
		if err != nil {
			return nil, routeerrors.Wrap(routeerrors.KindNoPath, err, "locating nearest node to anchor")
		}
		if len(nodes) > 0 && nodes[len(nodes)-1] == id {
			continue
		}
		nodes = append(nodes, id)
	}

	return nodes, nil
}

// biasedCost builds the shape-biased edge cost for stitching from/to the
// straight-line neighborhood of a and b: cost(e) = length(e) * (1 + lambda
// * dev(e)/refDist), where dev(e) is the mean distance of e's endpoints
// from the ideal trajectory t, normalized by the straight-line distance
// between a and b.
func biasedCost(rg *roadgraph.Graph, proj *geoproj.Projector, t []geoproj.MeterPoint, a, b geoproj.MeterPoint, lambda float64) func(e core.Edge) float64 {
	refDist := math.Hypot(b.X-a.X, b.Y-a.Y)
	if refDist < 1 {
		refDist = 1
	}

	return func(e core.Edge) float64 {
		fromLL, err1 := rg.Coords(e.From)
		toLL, err2 := rg.Coords(e.To)
		if err1 != nil || err2 != nil {
			return e.LengthM
		}

		fromPt := proj.ToMeters(fromLL)
		toPt := proj.ToMeters(toLL)

		devFrom := distanceToPolyline(fromPt, t)
		devTo := distanceToPolyline(toPt, t)
		dev := (devFrom + devTo) / 2

		return e.LengthM * (1 + lambda*dev/refDist)
	}
}

func distanceToPolyline(p geoproj.MeterPoint, poly []geoproj.MeterPoint) float64 {
	best := math.Inf(1)
	for i := 0; i < len(poly)-1; i++ {
		d := geoproj.SegmentPointDistance(p, poly[i], poly[i+1])
		if d < best {
			best = d
		}
	}

	return best
}

func pathLength(rg *roadgraph.Graph, nodes []string) float64 {
	var total float64
	for i := 0; i < len(nodes)-1; i++ {
		l, err := rg.EdgeLength(nodes[i], nodes[i+1])
		if err == nil {
			total += l
		}
	}

	return total
}

func renderPolyline(rg *roadgraph.Graph, nodes []string) []geoproj.LatLng {
	var out []geoproj.LatLng
	for i := 0; i < len(nodes)-1; i++ {
		geom, err := rg.EdgeGeometry(nodes[i], nodes[i+1])
		if err != nil || len(geom) == 0 {
			continue
		}
		if len(out) > 0 {
			geom = geom[1:]
		}
		out = append(out, geom...)
	}

	return out
}
