package rastermap

import (
	"bytes"
	"image/png"
	"io"
	"testing"
	"time"

	"edu-choropleth/internal/colorscale"
	"edu-choropleth/internal/dataset"
	"edu-choropleth/internal/dataset/datasettest"
	"edu-choropleth/internal/scene"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildScene(t *testing.T, sc colorscale.Scale) *scene.Scene {
	t.Helper()
	snap, err := dataset.Build(datasettest.Education, datasettest.Topology)
	require.NoError(t, err)
	s, err := scene.Build(snap, sc, scene.DefaultViewport())
	require.NoError(t, err)
	return s
}

func TestRender_CountyFills(t *testing.T) {
	s := buildScene(t, colorscale.DefaultThreshold())
	img := Render(s)
	assert.Equal(t, 1200, img.Bounds().Dx())
	for _, c := range s.Counties {
		cx := int((c.Bound.Min[0] + c.Bound.Max[0]) / 2)
		cy := int((c.Bound.Min[1] + c.Bound.Max[1]) / 2)
		assert.Equal(t, c.Fill, img.RGBAAt(cx, cy), "fips %d", c.FIPS)
	}
	assert.Equal(t, background, img.RGBAAt(2, 790))
}

func TestRender_ThresholdLegend(t *testing.T) {
	s := buildScene(t, colorscale.DefaultThreshold())
	img := Render(s)
	lg := s.Legend
	y := int(lg.Y + lg.Height/2)
	for _, sw := range lg.Swatches {
		x := int(sw.X + sw.Width/2)
		assert.Equal(t, sw.Color, img.RGBAAt(x, y))
	}
}

func TestRender_StateBorder(t *testing.T) {
	s := buildScene(t, colorscale.DefaultThreshold())
	require.Len(t, s.Borders, 1)
	img := Render(s)
	// 州界位于 2013 左边缘（画布 x=700），白色描边提亮该列像素
	px := img.RGBAAt(700, 445)
	assert.NotEqual(t, scene.NoDataColor, px)
	assert.Greater(t, colorscale.Luminance(px), colorscale.Luminance(scene.NoDataColor))
	assert.Equal(t, scene.NoDataColor, img.RGBAAt(750, 445))
}

// gridScene：约 3000 个县规模的合成场景，15x13 像素方块铺满画布
func gridScene(cols, rows int) *scene.Scene {
	s := &scene.Scene{
		Viewport: scene.DefaultViewport(),
		Legend:   scene.BuildLegend(colorscale.DefaultLinear(), 880, 80, 300),
	}
	sc := colorscale.DefaultLinear()
	for i := 0; i < cols*rows; i++ {
		x := 20 + float64(i%cols)*16
		y := 110 + float64(i/cols)*14
		ring := orb.Ring{{x, y}, {x + 15, y}, {x + 15, y + 13}, {x, y + 13}, {x, y}}
		shape := orb.MultiPolygon{{ring}}
		s.Counties = append(s.Counties, scene.County{
			FIPS:  1000 + i,
			Shape: shape,
			Bound: shape.Bound(),
			Fill:  sc.Color(float64(i % 100)),
		})
	}
	return s
}

func TestRender_NationalScale(t *testing.T) {
	s := gridScene(70, 45)
	begin := time.Now()
	require.NoError(t, Write(io.Discard, s))
	assert.Less(t, time.Since(begin), 5*time.Second, "%d counties", len(s.Counties))

	img := Render(s)
	last := s.Counties[len(s.Counties)-1]
	assert.Equal(t, last.Fill, img.RGBAAt(int(last.Bound.Min[0])+7, int(last.Bound.Min[1])+6))
}

func BenchmarkRender(b *testing.B) {
	s := gridScene(70, 45)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Render(s)
	}
}

func TestGradientAt(t *testing.T) {
	lg := scene.BuildLegend(colorscale.DefaultLinear(), 0, 0, 100)
	assert.Equal(t, lg.Swatches[0].Color, gradientAt(lg.Swatches, 0))
	assert.Equal(t, lg.Swatches[2].Color, gradientAt(lg.Swatches, 0.4))
	assert.Equal(t, lg.Swatches[5].Color, gradientAt(lg.Swatches, 1.2))
}

func TestWrite_EncodesPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, buildScene(t, colorscale.DefaultLinear())))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 800, img.Bounds().Dy())
}
