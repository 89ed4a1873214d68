package shaperoute_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gpsartgen/routeart/core"
	"github.com/gpsartgen/routeart/geoproj"
	"github.com/gpsartgen/routeart/options"
	"github.com/gpsartgen/routeart/roadgraph"
	"github.com/gpsartgen/routeart/routeerrors"
	"github.com/gpsartgen/routeart/shaperoute"
)

// buildGrid makes a 5x5 grid of nodes 50m apart, with node a0 at meter-space
// (0,0) and the grid extending east and north to (200,200), with directed
// edges in both directions along rows and columns.
func buildGrid(t *testing.T) (*core.Graph, *geoproj.Projector) {
	t.Helper()

	origin := geoproj.LatLng{Lat: 40.0, Lng: -105.0}
	proj := geoproj.NewProjector(origin)

	g := core.NewGraph()
	const step = 50.0
	id := func(i, j int) string { return string(rune('a'+i)) + string(rune('0'+j)) }

	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			ll := proj.ToLatLng(geoproj.MeterPoint{X: float64(j) * step, Y: float64(i) * step})
			require.NoError(t, g.AddNode(core.Node{ID: id(i, j), Lat: ll.Lat, Lng: ll.Lng}))
		}
	}

	link := func(a, b string, length float64) {
		require.NoError(t, g.AddEdge(core.Edge{ID: a + "-" + b, From: a, To: b, LengthM: length}))
		require.NoError(t, g.AddEdge(core.Edge{ID: b + "-" + a, From: b, To: a, LengthM: length}))
	}

	for i := 0; i < 5; i++ {
		for j := 0; j < 4; j++ {
			link(id(i, j), id(i, j+1), step)
		}
	}
	for j := 0; j < 5; j++ {
		for i := 0; i < 4; i++ {
			link(id(i, j), id(i+1, j), step)
		}
	}

	return g, proj
}

func straightTrajectory(proj *geoproj.Projector, endX float64) []geoproj.MeterPoint {
	return []geoproj.MeterPoint{{X: 0, Y: 0}, {X: endX, Y: 0}}
}

func baseOptions() options.Options {
	o := options.Default()
	o.SampleStepM = 10
	o.MinWPGapM = 5
	o.AnchorCount = 3
	o.UseAnchors = true
	o.ConnectFromStart = true
	o.MaxConnectorM = 500
	o.ReturnToStart = false
	return o
}

func TestRoute_StraightLineAlongGridRow(t *testing.T) {
	g, proj := buildGrid(t)
	rg := roadgraph.New(g)

	start := proj.ToLatLng(geoproj.MeterPoint{X: 0, Y: 0})
	traj := straightTrajectory(proj, 200)

	o := baseOptions()
	got, err := shaperoute.Route(context.Background(), rg, proj, traj, start, o)
	require.NoError(t, err)

	assert.Equal(t, "a0", got.Nodes[0])
	assert.Equal(t, "a4", got.Nodes[len(got.Nodes)-1])
	assert.InDelta(t, 200.0, got.LengthM, 1e-6)
	assert.NotEmpty(t, got.Polyline)
}

func TestRoute_ReturnToStartClosesLoop(t *testing.T) {
	g, proj := buildGrid(t)
	rg := roadgraph.New(g)

	start := proj.ToLatLng(geoproj.MeterPoint{X: 0, Y: 0})
	traj := straightTrajectory(proj, 150)

	o := baseOptions()
	o.ReturnToStart = true
	got, err := shaperoute.Route(context.Background(), rg, proj, traj, start, o)
	require.NoError(t, err)

	assert.Equal(t, got.Nodes[0], got.Nodes[len(got.Nodes)-1])
}

func TestRoute_ConnectorTooLongFails(t *testing.T) {
	g, proj := buildGrid(t)
	rg := roadgraph.New(g)

	// Trajectory starts far from (0,0) so the prepended connector is long.
	traj := []geoproj.MeterPoint{{X: 180, Y: 180}, {X: 195, Y: 180}}
	start := proj.ToLatLng(geoproj.MeterPoint{X: 0, Y: 0})

	o := baseOptions()
	o.MaxConnectorM = 10
	_, err := shaperoute.Route(context.Background(), rg, proj, traj, start, o)
	require.Error(t, err)
	assert.True(t, routeerrors.Is(err, routeerrors.KindConnectorTooLong))
}

func TestRoute_TemplateTooSparseFails(t *testing.T) {
	g, proj := buildGrid(t)
	rg := roadgraph.New(g)

	start := proj.ToLatLng(geoproj.MeterPoint{X: 0, Y: 0})
	traj := []geoproj.MeterPoint{{X: 0, Y: 0}} // single point, Densify rejects it

	o := baseOptions()
	_, err := shaperoute.Route(context.Background(), rg, proj, traj, start, o)
	require.Error(t, err)
	assert.True(t, routeerrors.Is(err, routeerrors.KindTemplateTooSparse))
}

func TestRoute_NoAnchorsWhenUseAnchorsDisabledUsesEndpointsOnly(t *testing.T) {
	g, proj := buildGrid(t)
	rg := roadgraph.New(g)

	start := proj.ToLatLng(geoproj.MeterPoint{X: 0, Y: 0})
	traj := straightTrajectory(proj, 200)

	o := baseOptions()
	o.UseAnchors = false
	o.ConnectFromStart = false
	got, err := shaperoute.Route(context.Background(), rg, proj, traj, start, o)
	require.NoError(t, err)
	assert.Equal(t, "a0", got.Nodes[0])
	assert.Equal(t, "a4", got.Nodes[len(got.Nodes)-1])
}

func TestRoute_CancelledContextDuringStitching(t *testing.T) {
	g, proj := buildGrid(t)
	rg := roadgraph.New(g)

	start := proj.ToLatLng(geoproj.MeterPoint{X: 0, Y: 0})
	traj := straightTrajectory(proj, 200)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := baseOptions()
	o.ConnectFromStart = false
	_, err := shaperoute.Route(ctx, rg, proj, traj, start, o)
	require.Error(t, err)
	assert.True(t, routeerrors.Is(err, routeerrors.KindCancelled))
}
