package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gpsartgen/routeart/core"
	"github.com/gpsartgen/routeart/generator"
	"github.com/gpsartgen/routeart/geoproj"
	"github.com/gpsartgen/routeart/httpapi"
	"github.com/gpsartgen/routeart/rgcache"
	"github.com/gpsartgen/routeart/roadgraph"
)

const squareSVG = `<svg><path d="M0,0 L200,0 L200,200 L0,200 Z"/></svg>`

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
		return nil, assert.AnError
	}

	return d, nil
}

type fakeRoads struct {
	graph *roadgraph.Graph
}

func (f fakeRoads) GetGraph(ctx context.Context, lat, lng, radiusM float64) (*roadgraph.Graph, error) {
	return f.graph, nil
}

type fakeOutput struct{}

func (fakeOutput) SaveGeoJSON(ctx context.Context, data []byte) (string, error) {
	return "memory://route.geojson", nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	origin := geoproj.LatLng{Lat: 40.0, Lng: -105.0}
	graph := buildGrid(t, origin, 8, 25)

	cache, err := rgcache.New(4)
	require.NoError(t, err)

	rc := &generator.RouteContext{
		Templates: fakeTemplates{data: map[string][]byte{"square.svg": []byte(squareSVG)}},
		Roads:     fakeRoads{graph: graph},
		Output:    fakeOutput{},
		Cache:     cache,
	}

	return httpapi.NewRouter(httpapi.NewHandler(rc, nil))
}

func postJSON(t *testing.T, router http.Handler, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/routes/generate", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestGenerateRoute_HappyPathReturns200(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, map[string]any{
		"template_name": "square.svg",
		"start_point":   map[string]any{"lat": 40.0, "lng": -105.0},
		"target_km":     0.6,
		"options":       map[string]any{"graph_radius_m": 300.0, "max_connector_m": 400.0},
	})

	assert.Equal(t, http.StatusOK, rec.Code)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	assert.Equal(t, true, decoded["ok"])
	assert.Contains(t, decoded, "data")
}

func TestGenerateRoute_UnknownTemplateReturns404(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, map[string]any{
		"template_name": "missing.svg",
		"start_point":   map[string]any{"lat": 40.0, "lng": -105.0},
		"target_km":     0.6,
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	assert.Equal(t, false, decoded["ok"])
	errObj, ok := decoded["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "TemplateNotFound", errObj["kind"])
}

func TestGenerateRoute_MissingTemplateNameReturns400(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, map[string]any{
		"start_point": map[string]any{"lat": 40.0, "lng": -105.0},
		"target_km":   0.6,
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateRoute_NonPositiveTargetReturns400(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, map[string]any{
		"template_name": "square.svg",
		"start_point":   map[string]any{"lat": 40.0, "lng": -105.0},
		"target_km":     0.0,
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateRoute_MalformedJSONReturns400(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/routes/generate", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
