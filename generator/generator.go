package generator

import (
	"context"

	"github.com/gpsartgen/routeart/fitloop"
	"github.com/gpsartgen/routeart/geoproj"
	"github.com/gpsartgen/routeart/guidance"
	"github.com/gpsartgen/routeart/options"
	"github.com/gpsartgen/routeart/rgcache"
	"github.com/gpsartgen/routeart/roadgraph"
	"github.com/gpsartgen/routeart/routeassembly"
	"github.com/gpsartgen/routeart/routeerrors"
	"github.com/gpsartgen/routeart/svgtemplate"
)

// TemplateSource loads a named template's raw SVG bytes, e.g. from a local
// directory keyed by name.
type TemplateSource interface {
	LoadTemplate(ctx context.Context, name string) ([]byte, error)
}

// RoadGraphProvider fetches the road network within radiusM of (lat, lng),
// e.g. from an Overpass mirror or a local extract.
type RoadGraphProvider interface {
	GetGraph(ctx context.Context, lat, lng, radiusM float64) (*roadgraph.Graph, error)
}

// OutputSink persists a generated route's GeoJSON, returning the path (or
// key) it was saved under.
type OutputSink interface {
	SaveGeoJSON(ctx context.Context, data []byte) (string, error)
}

// RouteContext wires the pipeline's dependencies: where templates and road
// graphs come from, where output is saved, and the process-wide graph
// cache. Safe for concurrent Generate calls once built.
type RouteContext struct {
	Templates TemplateSource
	Roads     RoadGraphProvider
	Output    OutputSink
	Cache     *rgcache.Cache
}

// Request is one route-generation request.
type Request struct {
	TemplateName string
	Start        geoproj.LatLng
	TargetKM     float64
	Options      options.Options
	SaveGeoJSON  bool
}

// Generate runs the full pipeline: load and parse the template, fetch (or
// reuse a cached) road graph, binary-search a fitting scale, extract turn
// guidance, and assemble the response. If req.SaveGeoJSON is set, the
// assembled GeoJSON is persisted via rc.Output and its path recorded in the
// response.
func (rc *RouteContext) Generate(ctx context.Context, req Request) (routeassembly.Response, error) {
	raw, err := rc.Templates.LoadTemplate(ctx, req.TemplateName)
	if err != nil {
		return routeassembly.Response{}, routeerrors.Wrap(routeerrors.KindTemplateNotFound, err, "loading template %q", req.TemplateName)
	}

	tmpl, err := svgtemplate.Load(raw, req.Options)
	if err != nil {
		return routeassembly.Response{}, err
	}

	key := rgcache.NewKey(req.Start.Lat, req.Start.Lng, req.Options.GraphRadiusM)
	rg, err := rc.Cache.Get(ctx, key, func(ctx context.Context, k rgcache.Key) (*roadgraph.Graph, error) {
		return rc.Roads.GetGraph(ctx, k.Lat, k.Lng, k.RadiusM)
	})
	if err != nil {
		return routeassembly.Response{}, routeerrors.Wrap(routeerrors.KindGraphUnavailable, err, "fetching road graph for %q", req.TemplateName)
	}

	proj := geoproj.NewProjector(req.Start)

	fit, err := fitloop.Fit(ctx, rg, proj, tmpl, req.Start, req.TargetKM, req.Options)
	if err != nil {
		return routeassembly.Response{}, err
	}

	points := guidance.Extract(fit.Route.Polyline, req.TargetKM, req.Options.MinWPGapM)

	alignMode := "endpoints"
	if req.Options.UseAnchors {
		alignMode = "anchors"
	}

	resp, err := routeassembly.Assemble(fit, points, req.TemplateName, alignMode, req.TargetKM, nil)
	if err != nil {
		return routeassembly.Response{}, err
	}

	if req.SaveGeoJSON {
		data, err := resp.GeoJSON.MarshalJSON()
		if err != nil {
			return routeassembly.Response{}, routeerrors.Wrap(routeerrors.KindInternal, err, "marshaling geojson for save")
		}

		path, err := rc.Output.SaveGeoJSON(ctx, data)
		if err != nil {
			return routeassembly.Response{}, routeerrors.Wrap(routeerrors.KindOutputUnavailable, err, "saving generated route")
		}

		resp.Saved = &path
	}

	return resp, nil
}
