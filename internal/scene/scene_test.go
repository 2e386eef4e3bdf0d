package scene

import (
	"testing"

	"edu-choropleth/internal/colorscale"
	"edu-choropleth/internal/dataset"
	"edu-choropleth/internal/dataset/datasettest"
	"edu-choropleth/internal/join"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture(t *testing.T) *dataset.Snapshot {
	t.Helper()
	s, err := dataset.Build(datasettest.Education, datasettest.Topology)
	require.NoError(t, err)
	return s
}

func TestBuild_NoSnapshot(t *testing.T) {
	_, err := Build(nil, colorscale.DefaultLinear(), DefaultViewport())
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestBuild_FillsFollowScale(t *testing.T) {
	snap := fixture(t)
	for _, sc := range []colorscale.Scale{colorscale.DefaultLinear(), colorscale.DefaultThreshold()} {
		s, err := Build(snap, sc, DefaultViewport())
		require.NoError(t, err)
		require.Len(t, s.Counties, 4)
		for _, c := range s.Counties {
			if v, ok := datasettest.Values[c.FIPS]; ok {
				assert.Equal(t, sc.Color(v), c.Fill, "%s fips %d", sc.Name(), c.FIPS)
				assert.True(t, c.Entry.Known)
				continue
			}
			assert.Equal(t, NoDataColor, c.Fill)
		}
	}
}

func TestBuild_ThresholdSyntheticColors(t *testing.T) {
	s, err := Build(fixture(t), colorscale.DefaultThreshold(), DefaultViewport())
	require.NoError(t, err)
	got := map[int]string{}
	for _, c := range s.Counties {
		got[c.FIPS] = colorscale.Hex(c.Fill)
	}
	assert.Equal(t, "#e5f5e0", got[1001])
	assert.Equal(t, "#41ab5d", got[1003])
	assert.Equal(t, "#006d2c", got[1005])
}

func TestBuild_UnknownCounty(t *testing.T) {
	s, err := Build(fixture(t), colorscale.DefaultLinear(), DefaultViewport())
	require.NoError(t, err)
	assert.Equal(t, 1, s.Unmatched)
	for _, c := range s.Counties {
		if c.FIPS == datasettest.UnknownFIPS {
			assert.Equal(t, join.UnknownName, c.Entry.AreaName)
			assert.Equal(t, "Unknown: N/A", c.Tooltip.Text)
			return
		}
	}
	t.Fatal("unknown county missing from scene")
}

func TestBuild_PlacesMapBelowHeader(t *testing.T) {
	s, err := Build(fixture(t), colorscale.DefaultLinear(), DefaultViewport())
	require.NoError(t, err)
	assert.Equal(t, 1.0, s.Transform.Scale)
	assert.Equal(t, orb.Bound{Min: orb.Point{400, 395}, Max: orb.Point{500, 495}}, s.Counties[0].Bound)
	assert.Len(t, s.States, 2)
	assert.Equal(t, Title, s.Title)
}

func TestBuild_ScalesDownLargeMaps(t *testing.T) {
	s, err := Build(fixture(t), colorscale.DefaultLinear(), Viewport{Width: 240, Height: 400})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, s.Transform.Scale, 1e-9)
}

func TestFit_SkipsEmptyGeometry(t *testing.T) {
	sq := orb.Polygon{{{500, 500}, {600, 500}, {600, 600}, {500, 600}, {500, 500}}}
	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(orb.Collection{}))
	fc.Append(geojson.NewFeature(sq))
	tr := fit(fc, DefaultViewport())
	assert.Equal(t, Transform{Scale: 1, DX: 50, DY: -105}, tr)

	empty := geojson.NewFeatureCollection()
	empty.Append(geojson.NewFeature(orb.Collection{}))
	assert.Equal(t, Transform{Scale: 1}, fit(empty, DefaultViewport()))
}

func TestBuildLegend_Threshold(t *testing.T) {
	sc := colorscale.DefaultThreshold()
	lg := BuildLegend(sc, 100, 50, 300)
	assert.False(t, lg.Continuous)
	require.Len(t, lg.Swatches, 4)
	for i, w := range lg.Swatches {
		assert.Equal(t, sc.Color(sc.Domain()[i+1]), w.Color)
		assert.InDelta(t, 75, w.Width, 1e-9)
	}
	require.Len(t, lg.Ticks, 5)
	assert.Equal(t, "0%", lg.Ticks[0].Label)
	assert.Equal(t, "60%", lg.Ticks[4].Label)
	assert.InDelta(t, 175, lg.Ticks[1].X, 1e-9)
}

func TestBuildLegend_Linear(t *testing.T) {
	sc := colorscale.DefaultLinear()
	lg := BuildLegend(sc, 0, 0, 500)
	assert.True(t, lg.Continuous)
	require.Len(t, lg.Swatches, 6)
	for i, w := range lg.Swatches {
		bp := []float64{0, 20, 40, 60, 80, 100}[i]
		assert.Equal(t, sc.Color(bp), w.Color)
		assert.InDelta(t, bp/100, w.Offset, 1e-9)
	}
	assert.Equal(t, "100%", lg.Ticks[5].Label)
	assert.InDelta(t, 500, lg.Ticks[5].X, 1e-9)
}
