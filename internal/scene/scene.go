// 包 scene：纯渲染层，把只读快照与比例尺转换为不可变的场景描述
// 背景：数据变换与文档输出分离；SVG/PNG/HTML 适配器只消费 Scene，不再访问快照或比例尺。
package scene

import (
	"errors"
	"image/color"
	"math"
	"strconv"

	"edu-choropleth/internal/colorscale"
	"edu-choropleth/internal/dataset"
	"edu-choropleth/internal/join"
	"edu-choropleth/internal/tooltip"
	"edu-choropleth/internal/topo"

	"github.com/aclements/go-moremath/scale"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

var ErrNoSnapshot = errors.New("scene: snapshot not loaded")

const (
	Title       = "United States Educational Attainment"
	Description = "Percentage of adults age 25 and older with a bachelor's degree or higher (2010-2014)"

	margin       = 20.0
	headerHeight = 110.0
	legendWidth  = 300.0
	legendHeight = 12.0
)

var (
	// NoDataColor：教育数据中缺失的县
	NoDataColor = color.RGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}
	// StateFill：州底色（县图层之下）
	StateFill = color.RGBA{R: 0xf4, G: 0xf4, B: 0xf4, A: 0xff}
	// BorderColor：州边界网格
	BorderColor = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// Viewport：逻辑画布尺寸
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func DefaultViewport() Viewport { return Viewport{Width: 1200, Height: 800} }

// Transform：预投影坐标到画布坐标的等比缩放与平移
type Transform struct {
	Scale  float64 `json:"scale"`
	DX, DY float64
}

func (t Transform) Apply(p orb.Point) orb.Point {
	return orb.Point{p[0]*t.Scale + t.DX, p[1]*t.Scale + t.DY}
}

// County：县多边形（画布坐标）及其填色与提示内容
type County struct {
	FIPS    int
	Shape   orb.MultiPolygon
	Bound   orb.Bound
	Fill    color.RGBA
	Entry   join.Entry
	Tooltip tooltip.Content
}

// State：州多边形（画布坐标）
type State struct {
	ID    int
	Shape orb.MultiPolygon
}

// LegendSwatch：图例色块（画布坐标）；Offset 为渐变中的归一化位置
type LegendSwatch struct {
	X, Width float64
	Offset   float64
	Value    float64
	Color    color.RGBA
}

// Tick：图例刻度
type Tick struct {
	X     float64 `json:"x"`
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// Legend：图例几何，全部由比例尺的 Domain / Swatches 推导
type Legend struct {
	X, Y, Width, Height float64
	Continuous          bool
	ScaleName           string
	Swatches            []LegendSwatch
	Ticks               []Tick
}

// Scene：一次渲染的完整描述，按绘制顺序：州底色 → 县 → 州边界 → 图例
type Scene struct {
	Viewport    Viewport
	Title       string
	Description string
	Transform   Transform
	States      []State
	Counties    []County
	Borders     orb.MultiLineString
	Legend      Legend
	Unmatched   int
	Version     string
}

// 文档注释：构建场景（纯函数）
// 背景：按快照与比例尺计算每个县的填色、提示内容与图例几何；不做任何 I/O。
// 约束：县填色只依赖该县的 bachelorsOrHigher；无匹配记录时使用 NoDataColor 与 Unknown/N/A 内容。
func Build(snap *dataset.Snapshot, sc colorscale.Scale, vp Viewport) (*Scene, error) {
	if snap == nil {
		return nil, ErrNoSnapshot
	}
	if vp.Width <= 0 || vp.Height <= 0 {
		vp = DefaultViewport()
	}
	tr := fit(snap.Counties, vp)
	s := &Scene{
		Viewport:    vp,
		Title:       Title,
		Description: Description,
		Transform:   tr,
		Version:     snap.Version,
	}
	for _, f := range snap.States.Features {
		id, _ := topo.FeatureID(f)
		s.States = append(s.States, State{ID: id, Shape: project(toMulti(f.Geometry), tr)})
	}
	for _, f := range snap.Counties.Features {
		id, _ := topo.FeatureID(f)
		e := snap.Index.Describe(id)
		fill := NoDataColor
		if e.Known {
			fill = sc.Color(e.Value)
		} else {
			s.Unmatched++
		}
		shape := project(toMulti(f.Geometry), tr)
		s.Counties = append(s.Counties, County{
			FIPS:    id,
			Shape:   shape,
			Bound:   shape.Bound(),
			Fill:    fill,
			Entry:   e,
			Tooltip: tooltip.ContentFor(e),
		})
	}
	for _, ls := range snap.StateMesh {
		out := make(orb.LineString, len(ls))
		for i, p := range ls {
			out[i] = tr.Apply(p)
		}
		s.Borders = append(s.Borders, out)
	}
	s.Legend = BuildLegend(sc, vp.Width-margin-legendWidth, margin+60, legendWidth)
	return s, nil
}

// 文档注释：图例几何
// 背景：刻度位于比例尺 Domain 的每个断点；色块取 Swatches，颜色即 Scale.Color(断点)。
func BuildLegend(sc colorscale.Scale, x, y, width float64) Legend {
	d := sc.Domain()
	axis := scale.Linear{Min: d[0], Max: d[len(d)-1]}
	lg := Legend{X: x, Y: y, Width: width, Height: legendHeight, Continuous: sc.Continuous(), ScaleName: sc.Name()}
	for _, w := range sc.Swatches() {
		x0 := x + axis.Map(w.From)*width
		x1 := x + axis.Map(w.To)*width
		lg.Swatches = append(lg.Swatches, LegendSwatch{
			X:      x0,
			Width:  x1 - x0,
			Offset: axis.Map(w.Value),
			Value:  w.Value,
			Color:  w.Color,
		})
	}
	for _, v := range d {
		lg.Ticks = append(lg.Ticks, Tick{X: x + axis.Map(v)*width, Value: v, Label: strconv.FormatFloat(v, 'f', -1, 64) + "%"})
	}
	return lg
}

// fit：等比缩放使县图层置于标题下方的可用区域内（不放大）
func fit(fc *geojson.FeatureCollection, vp Viewport) Transform {
	var b orb.Bound
	first := true
	for _, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		fb := f.Geometry.Bound()
		if fb.IsEmpty() {
			continue
		}
		if first {
			b = fb
			first = false
			continue
		}
		b = b.Union(fb)
	}
	if first {
		return Transform{Scale: 1}
	}
	availW := vp.Width - 2*margin
	availH := vp.Height - headerHeight - margin
	bw, bh := b.Max[0]-b.Min[0], b.Max[1]-b.Min[1]
	k := 1.0
	if bw > 0 {
		k = math.Min(k, availW/bw)
	}
	if bh > 0 {
		k = math.Min(k, availH/bh)
	}
	return Transform{
		Scale: k,
		DX:    margin + (availW-bw*k)/2 - b.Min[0]*k,
		DY:    headerHeight + (availH-bh*k)/2 - b.Min[1]*k,
	}
}

func toMulti(g orb.Geometry) orb.MultiPolygon {
	switch v := g.(type) {
	case orb.Polygon:
		return orb.MultiPolygon{v}
	case orb.MultiPolygon:
		return v
	case orb.Collection:
		var out orb.MultiPolygon
		for _, c := range v {
			out = append(out, toMulti(c)...)
		}
		return out
	}
	return nil
}

func project(mp orb.MultiPolygon, tr Transform) orb.MultiPolygon {
	out := make(orb.MultiPolygon, len(mp))
	for i, poly := range mp {
		np := make(orb.Polygon, len(poly))
		for j, ring := range poly {
			nr := make(orb.Ring, len(ring))
			for k, p := range ring {
				nr[k] = tr.Apply(p)
			}
			np[j] = nr
		}
		out[i] = np
	}
	return out
}
