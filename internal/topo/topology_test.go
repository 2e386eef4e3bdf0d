package topo

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// two unit squares sharing the edge x=1
const squares = `{
	"type": "Topology",
	"arcs": [
		[[1,0],[1,1]],
		[[1,1],[0,1],[0,0],[1,0]],
		[[1,0],[2,0],[2,1],[1,1]]
	],
	"objects": {
		"counties": {"type": "GeometryCollection", "geometries": [
			{"type": "Polygon", "id": 1001, "arcs": [[0, 1]]},
			{"type": "Polygon", "id": "1003", "arcs": [[2, -1]], "properties": {"name": "B"}}
		]},
		"states": {"type": "GeometryCollection", "geometries": [
			{"type": "MultiPolygon", "id": 1, "arcs": [[[0, 1]], [[2, -1]]]}
		]}
	}
}`

func TestDecode_NotTopology(t *testing.T) {
	_, err := Decode([]byte(`{"type":"FeatureCollection"}`))
	assert.ErrorIs(t, err, ErrNotTopology)
}

func TestFeature_StitchesArcs(t *testing.T) {
	topo, err := Decode([]byte(squares))
	require.NoError(t, err)

	fc, err := topo.Feature("counties")
	require.NoError(t, err)
	require.Len(t, fc.Features, 2)

	a := fc.Features[0]
	id, ok := FeatureID(a)
	require.True(t, ok)
	assert.Equal(t, 1001, id)
	assert.Equal(t, orb.Polygon{orb.Ring{{1, 0}, {1, 1}, {0, 1}, {0, 0}, {1, 0}}}, a.Geometry)

	b := fc.Features[1]
	id, ok = FeatureID(b)
	require.True(t, ok)
	assert.Equal(t, 1003, id)
	assert.Equal(t, "B", b.Properties["name"])
	// reversed reference to the shared arc
	assert.Equal(t, orb.Polygon{orb.Ring{{1, 0}, {2, 0}, {2, 1}, {1, 1}, {1, 0}}}, b.Geometry)
}

func TestFeature_MultiPolygon(t *testing.T) {
	topo, err := Decode([]byte(squares))
	require.NoError(t, err)
	fc, err := topo.Feature("states")
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)
	mp, ok := fc.Features[0].Geometry.(orb.MultiPolygon)
	require.True(t, ok)
	assert.Len(t, mp, 2)
}

func TestFeature_UnknownObject(t *testing.T) {
	topo, err := Decode([]byte(squares))
	require.NoError(t, err)
	_, err = topo.Feature("nation")
	assert.ErrorIs(t, err, ErrUnknownObject)
}

func TestFeature_BadArc(t *testing.T) {
	topo, err := Decode([]byte(`{"type":"Topology","arcs":[[[0,0],[1,1]]],
		"objects":{"x":{"type":"LineString","arcs":[3]}}}`))
	require.NoError(t, err)
	_, err = topo.Feature("x")
	assert.ErrorIs(t, err, ErrBadArc)
}

func TestDecode_Transform(t *testing.T) {
	topo, err := Decode([]byte(`{
		"type":"Topology",
		"transform":{"scale":[2,3],"translate":[10,20]},
		"arcs":[[[0,0],[1,0],[0,1]]],
		"objects":{"line":{"type":"LineString","arcs":[0]}}
	}`))
	require.NoError(t, err)
	fc, err := topo.Feature("line")
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)
	assert.Equal(t, orb.LineString{{10, 20}, {12, 20}, {12, 23}}, fc.Features[0].Geometry)
	_, ok := FeatureID(fc.Features[0])
	assert.False(t, ok)
}

func TestMesh(t *testing.T) {
	topo, err := Decode([]byte(squares))
	require.NoError(t, err)

	all, err := topo.Mesh("counties", nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	inner, err := topo.Mesh("counties", Interior)
	require.NoError(t, err)
	require.Len(t, inner, 1)
	assert.Equal(t, orb.LineString{{1, 0}, {1, 1}}, inner[0])

	// a single multipolygon references every arc only once
	inner, err = topo.Mesh("states", Interior)
	require.NoError(t, err)
	assert.Empty(t, inner)
}
