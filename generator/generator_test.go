package generator_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gpsartgen/routeart/core"
	"github.com/gpsartgen/routeart/generator"
	"github.com/gpsartgen/routeart/geoproj"
	"github.com/gpsartgen/routeart/options"
	"github.com/gpsartgen/routeart/rgcache"
	"github.com/gpsartgen/routeart/roadgraph"
	"github.com/gpsartgen/routeart/routeerrors"
)

const squareSVG = `<svg><path d="M0,0 L200,0 L200,200 L0,200 Z"/></svg>`

// buildGrid makes an (n*2+1) square of nodes step meters apart, centered on
// origin, with directed edges in both directions along rows and columns.
func buildGrid(t *testing.T, origin geoproj.LatLng, n int, step float64) *roadgraph.Graph {
	t.Helper()

	proj := geoproj.NewProjector(origin)
	g := core.NewGraph()
	size := 2*n + 1
	id := func(i, j int) string { return "n" + string(rune('a'+i)) + string(rune('a'+j)) }

	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			x := float64(j-n) * step
			y := float64(i-n) * step
			ll := proj.ToLatLng(geoproj.MeterPoint{X: x, Y: y})
			require.NoError(t, g.AddNode(core.Node{ID: id(i, j), Lat: ll.Lat, Lng: ll.Lng}))
		}
	}

	link := func(a, b string, length float64) {
		require.NoError(t, g.AddEdge(core.Edge{ID: a + "-" + b, From: a, To: b, LengthM: length}))
		require.NoError(t, g.AddEdge(core.Edge{ID: b + "-" + a, From: b, To: a, LengthM: length}))
	}

	for i := 0; i < size; i++ {
		for j := 0; j < size-1; j++ {
			link(id(i, j), id(i, j+1), step)
		}
	}
	for j := 0; j < size; j++ {
		for i := 0; i < size-1; i++ {
			link(id(i, j), id(i+1, j), step)
		}
	}

	return roadgraph.New(g)
}

type fakeTemplates struct {
	data map[string][]byte
}

func (f fakeTemplates) LoadTemplate(ctx context.Context, name string) ([]byte, error) {
	d, ok := f.data[name]
	if !ok {
		return nil, errors.New("template not found on disk")
	}

	return d, nil
}

type fakeRoads struct {
	graph *roadgraph.Graph
	err   error
}

func (f fakeRoads) GetGraph(ctx context.Context, lat, lng, radiusM float64) (*roadgraph.Graph, error) {
	if f.err != nil {
		return nil, f.err
	}

	return f.graph, nil
}

type fakeOutput struct {
	saved [][]byte
}

func (f *fakeOutput) SaveGeoJSON(ctx context.Context, data []byte) (string, error) {
	f.saved = append(f.saved, data)

	return "memory://route-1.geojson", nil
}

func testOptions() options.Options {
	o := options.Default()
	o.GraphRadiusM = 300
	o.SampleStepM = 15
	o.MinWPGapM = 10
	o.AnchorCount = 4
	o.MaxConnectorM = 400
	o.Iters = 10

	return o
}

func newContext(t *testing.T, graph *roadgraph.Graph, tmplName string, tmplBytes []byte) *generator.RouteContext {
	t.Helper()

	cache, err := rgcache.New(4)
	require.NoError(t, err)

	return &generator.RouteContext{
		Templates: fakeTemplates{data: map[string][]byte{tmplName: tmplBytes}},
		Roads:     fakeRoads{graph: graph},
		Output:    &fakeOutput{},
		Cache:     cache,
	}
}

func TestGenerate_HappyPathReturnsRouteAndGuidance(t *testing.T) {
	origin := geoproj.LatLng{Lat: 40.0, Lng: -105.0}
	graph := buildGrid(t, origin, 8, 25)

	rc := newContext(t, graph, "square.svg", []byte(squareSVG))

	req := generator.Request{
		TemplateName: "square.svg",
		Start:        origin,
		TargetKM:     0.6,
		Options:      testOptions(),
	}

	resp, err := rc.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Greater(t, resp.Metrics.RouteLengthM, 0.0)
	assert.Equal(t, 0.6, resp.Metrics.TargetKM)
	require.Len(t, resp.GeoJSON.Features, 1)
	assert.NotEmpty(t, resp.Guidance.GuidancePoints)
	assert.Equal(t, "RUN_START", string(resp.Guidance.GuidancePoints[0].GuidanceID))
	assert.Nil(t, resp.Saved)
}

func TestGenerate_SavesGeoJSONWhenRequested(t *testing.T) {
	origin := geoproj.LatLng{Lat: 40.0, Lng: -105.0}
	graph := buildGrid(t, origin, 8, 25)

	rc := newContext(t, graph, "square.svg", []byte(squareSVG))

	req := generator.Request{
		TemplateName: "square.svg",
		Start:        origin,
		TargetKM:     0.6,
		Options:      testOptions(),
		SaveGeoJSON:  true,
	}

	resp, err := rc.Generate(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, resp.Saved)
	assert.Equal(t, "memory://route-1.geojson", *resp.Saved)
}

func TestGenerate_UnknownTemplateReturnsTemplateNotFound(t *testing.T) {
	origin := geoproj.LatLng{Lat: 40.0, Lng: -105.0}
	graph := buildGrid(t, origin, 8, 25)

	rc := newContext(t, graph, "square.svg", []byte(squareSVG))

	req := generator.Request{
		TemplateName: "missing.svg",
		Start:        origin,
		TargetKM:     0.6,
		Options:      testOptions(),
	}

	_, err := rc.Generate(context.Background(), req)
	require.Error(t, err)
	assert.True(t, routeerrors.Is(err, routeerrors.KindTemplateNotFound))
}

func TestGenerate_GraphProviderFailureReturnsGraphUnavailable(t *testing.T) {
	origin := geoproj.LatLng{Lat: 40.0, Lng: -105.0}

	cache, err := rgcache.New(4)
	require.NoError(t, err)

	rc := &generator.RouteContext{
		Templates: fakeTemplates{data: map[string][]byte{"square.svg": []byte(squareSVG)}},
		Roads:     fakeRoads{err: errors.New("upstream extract service unreachable")},
		Output:    &fakeOutput{},
		Cache:     cache,
	}

	req := generator.Request{
		TemplateName: "square.svg",
		Start:        origin,
		TargetKM:     0.6,
		Options:      testOptions(),
	}

	_, err = rc.Generate(context.Background(), req)
	require.Error(t, err)
	assert.True(t, routeerrors.Is(err, routeerrors.KindGraphUnavailable))
}

func TestGenerate_ReusesCachedGraphAcrossCalls(t *testing.T) {
	origin := geoproj.LatLng{Lat: 40.0, Lng: -105.0}
	graph := buildGrid(t, origin, 8, 25)

	rc := newContext(t, graph, "square.svg", []byte(squareSVG))

	req := generator.Request{
		TemplateName: "square.svg",
		Start:        origin,
		TargetKM:     0.6,
		Options:      testOptions(),
	}

	_, err := rc.Generate(context.Background(), req)
	require.NoError(t, err)
	_, err = rc.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, rc.Cache.Len())
}
