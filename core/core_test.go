package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gpsartgen/routeart/core"
	"github.com/gpsartgen/routeart/geoproj"
)

func TestAddNode_DuplicateSameCoordsNoop(t *testing.T) {
	g := core.NewGraph()
	require.NoError(t, g.AddNode(core.Node{ID: "a", Lat: 1, Lng: 2}))
	require.NoError(t, g.AddNode(core.Node{ID: "a", Lat: 1, Lng: 2}))
	assert.Equal(t, 1, g.NodeCount())
}

func TestAddNode_DuplicateDifferentCoords(t *testing.T) {
	g := core.NewGraph()
	require.NoError(t, g.AddNode(core.Node{ID: "a", Lat: 1, Lng: 2}))
	err := g.AddNode(core.Node{ID: "a", Lat: 9, Lng: 9})
	require.ErrorIs(t, err, core.ErrDuplicateNode)
}

func TestAddEdge_RequiresExistingNodes(t *testing.T) {
	g := core.NewGraph()
	require.NoError(t, g.AddNode(core.Node{ID: "a"}))
	err := g.AddEdge(core.Edge{ID: "e1", From: "a", To: "b", LengthM: 10})
	require.ErrorIs(t, err, core.ErrNodeNotFound)
}

func TestAddEdge_RejectsBadLength(t *testing.T) {
	g := core.NewGraph()
	require.NoError(t, g.AddNode(core.Node{ID: "a"}))
	require.NoError(t, g.AddNode(core.Node{ID: "b"}))
	err := g.AddEdge(core.Edge{ID: "e1", From: "a", To: "b", LengthM: -1})
	require.ErrorIs(t, err, core.ErrBadLength)
}

func TestEdges_UnknownNodeReturnsEmpty(t *testing.T) {
	g := core.NewGraph()
	assert.Empty(t, g.Edges("nope"))
}

func TestEdges_InsertionOrder(t *testing.T) {
	g := core.NewGraph()
	for _, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, g.AddNode(core.Node{ID: id}))
	}
	require.NoError(t, g.AddEdge(core.Edge{ID: "e1", From: "a", To: "b", LengthM: 1}))
	require.NoError(t, g.AddEdge(core.Edge{ID: "e2", From: "a", To: "c", LengthM: 1}))
	require.NoError(t, g.AddEdge(core.Edge{ID: "e3", From: "a", To: "d", LengthM: 1}))

	edges := g.Edges("a")
	require.Len(t, edges, 3)
	assert.Equal(t, "e1", edges[0].ID)
	assert.Equal(t, "e2", edges[1].ID)
	assert.Equal(t, "e3", edges[2].ID)
}

func TestEdgeGeometry_FallsBackToStraightLine(t *testing.T) {
	g := core.NewGraph()
	require.NoError(t, g.AddNode(core.Node{ID: "a", Lat: 0, Lng: 0}))
	require.NoError(t, g.AddNode(core.Node{ID: "b", Lat: 1, Lng: 1}))
	e := core.Edge{ID: "e1", From: "a", To: "b", LengthM: 1}
	require.NoError(t, g.AddEdge(e))

	geom := g.EdgeGeometry(e)
	require.Len(t, geom, 2)
	assert.Equal(t, 0.0, geom[0].Lat)
	assert.Equal(t, 1.0, geom[1].Lat)
}

func TestEdgeGeometry_PrefersStoredGeometry(t *testing.T) {
	g := core.NewGraph()
	require.NoError(t, g.AddNode(core.Node{ID: "a"}))
	require.NoError(t, g.AddNode(core.Node{ID: "b"}))
	e := core.Edge{
		ID: "e1", From: "a", To: "b", LengthM: 1,
		Geometry: []geoproj.LatLng{{Lat: 5, Lng: 5}, {Lat: 6, Lng: 6}},
	}
	require.NoError(t, g.AddEdge(e))

	geom := g.EdgeGeometry(e)
	require.Len(t, geom, 2)
	assert.Equal(t, 5.0, geom[0].Lat)
}
