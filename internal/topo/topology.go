// 包 topo：TopoJSON 拓扑解码，转换为独立的多边形要素集合
package topo

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

var (
	ErrNotTopology   = errors.New("topo: not a Topology object")
	ErrUnknownObject = errors.New("topo: unknown object")
	ErrBadArc        = errors.New("topo: arc index out of range")
)

// 文档注释：拓扑对象（共享边界编码）
// 背景：多边形通过共享弧段引用表达，县与州边界只存一份；渲染前需解码为独立几何。
// 约束：Transform 存在时弧段为量化后的增量坐标；不存在时为绝对坐标。
type Topology struct {
	Type      string               `json:"type"`
	Transform *Transform           `json:"transform,omitempty"`
	BBox      []float64            `json:"bbox,omitempty"`
	Arcs      [][][]float64        `json:"arcs"`
	Objects   map[string]*Geometry `json:"objects"`

	abs []orb.LineString
}

// Transform：量化参数，point = q*scale + translate
type Transform struct {
	Scale     [2]float64 `json:"scale"`
	Translate [2]float64 `json:"translate"`
}

// Geometry：拓扑几何（Polygon/MultiPolygon/LineString/MultiLineString/Point/GeometryCollection）
// Arcs 的嵌套层级随类型变化，按需解析。
type Geometry struct {
	Type       string          `json:"type"`
	ID         json.RawMessage `json:"id,omitempty"`
	Properties map[string]any  `json:"properties,omitempty"`
	Arcs       json.RawMessage `json:"arcs,omitempty"`
	Geometries []*Geometry     `json:"geometries,omitempty"`
}

// Decode：解析拓扑 JSON 并预先还原全部弧段为绝对坐标
func Decode(b []byte) (*Topology, error) {
	var t Topology
	if err := json.Unmarshal(b, &t); err != nil {
		return nil, fmt.Errorf("topo: decode: %w", err)
	}
	if !strings.EqualFold(t.Type, "Topology") {
		return nil, ErrNotTopology
	}
	t.abs = make([]orb.LineString, len(t.Arcs))
	for i, arc := range t.Arcs {
		t.abs[i] = t.decodeArc(arc)
	}
	return &t, nil
}

func (t *Topology) decodeArc(arc [][]float64) orb.LineString {
	out := make(orb.LineString, 0, len(arc))
	var x, y float64
	for _, p := range arc {
		if len(p) < 2 {
			continue
		}
		if t.Transform == nil {
			out = append(out, orb.Point{p[0], p[1]})
			continue
		}
		x += p[0]
		y += p[1]
		out = append(out, orb.Point{
			x*t.Transform.Scale[0] + t.Transform.Translate[0],
			y*t.Transform.Scale[1] + t.Transform.Translate[1],
		})
	}
	return out
}

// ObjectNames：返回拓扑中的图层名
func (t *Topology) ObjectNames() []string {
	out := make([]string, 0, len(t.Objects))
	for k := range t.Objects {
		out = append(out, k)
	}
	return out
}

// 文档注释：按图层名输出要素集合
// 背景：GeometryCollection 展开为多个要素；单一几何输出为仅含一个要素的集合。
// 约束：要素 ID 为数值时保存为 int，便于与 fips 连接；字符串 ID 原样保留。
func (t *Topology) Feature(name string) (*geojson.FeatureCollection, error) {
	obj, ok := t.Objects[name]
	if !ok || obj == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownObject, name)
	}
	fc := geojson.NewFeatureCollection()
	geoms := []*Geometry{obj}
	if strings.EqualFold(obj.Type, "GeometryCollection") {
		geoms = obj.Geometries
	}
	for _, g := range geoms {
		f, err := t.toFeature(g)
		if err != nil {
			return nil, err
		}
		fc.Append(f)
	}
	return fc, nil
}

func (t *Topology) toFeature(g *Geometry) (*geojson.Feature, error) {
	geom, err := t.geometry(g)
	if err != nil {
		return nil, err
	}
	f := geojson.NewFeature(geom)
	if id, ok := parseID(g.ID); ok {
		f.ID = id
	}
	for k, v := range g.Properties {
		f.Properties[k] = v
	}
	return f, nil
}

func (t *Topology) geometry(g *Geometry) (orb.Geometry, error) {
	switch g.Type {
	case "Polygon":
		var idx [][]int
		if err := unmarshalArcs(g.Arcs, &idx); err != nil {
			return nil, err
		}
		return t.polygon(idx)
	case "MultiPolygon":
		var idx [][][]int
		if err := unmarshalArcs(g.Arcs, &idx); err != nil {
			return nil, err
		}
		mp := make(orb.MultiPolygon, 0, len(idx))
		for _, p := range idx {
			poly, err := t.polygon(p)
			if err != nil {
				return nil, err
			}
			mp = append(mp, poly)
		}
		return mp, nil
	case "LineString":
		var idx []int
		if err := unmarshalArcs(g.Arcs, &idx); err != nil {
			return nil, err
		}
		return t.line(idx)
	case "MultiLineString":
		var idx [][]int
		if err := unmarshalArcs(g.Arcs, &idx); err != nil {
			return nil, err
		}
		ml := make(orb.MultiLineString, 0, len(idx))
		for _, l := range idx {
			ls, err := t.line(l)
			if err != nil {
				return nil, err
			}
			ml = append(ml, ls)
		}
		return ml, nil
	case "GeometryCollection":
		c := make(orb.Collection, 0, len(g.Geometries))
		for _, child := range g.Geometries {
			cg, err := t.geometry(child)
			if err != nil {
				return nil, err
			}
			if cg != nil {
				c = append(c, cg)
			}
		}
		return c, nil
	case "":
		// 空几何（null geometry）
		return orb.Collection{}, nil
	default:
		return nil, fmt.Errorf("topo: unsupported geometry type %q", g.Type)
	}
}

func (t *Topology) polygon(rings [][]int) (orb.Polygon, error) {
	poly := make(orb.Polygon, 0, len(rings))
	for _, r := range rings {
		ls, err := t.line(r)
		if err != nil {
			return nil, err
		}
		ring := orb.Ring(ls)
		// 退化环补齐到 4 点
		for len(ring) > 0 && len(ring) < 4 {
			ring = append(ring, ring[0])
		}
		poly = append(poly, ring)
	}
	return poly, nil
}

// line：按弧段索引拼接；负索引 ~i 表示反向引用第 i 条弧
// 相邻弧段共享端点，拼接时去掉前一段的末点。
func (t *Topology) line(arcs []int) (orb.LineString, error) {
	var out orb.LineString
	for _, i := range arcs {
		j := i
		if i < 0 {
			j = ^i
		}
		if j >= len(t.abs) {
			return nil, fmt.Errorf("%w: %d", ErrBadArc, i)
		}
		src := t.abs[j]
		if len(out) > 0 {
			out = out[:len(out)-1]
		}
		if i < 0 {
			for k := len(src) - 1; k >= 0; k-- {
				out = append(out, src[k])
			}
		} else {
			out = append(out, src...)
		}
	}
	return out, nil
}

func unmarshalArcs(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("topo: arcs: %w", err)
	}
	return nil
}

func parseID(raw json.RawMessage) (any, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, false
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if v, err := strconv.Atoi(n.String()); err == nil {
			return v, true
		}
		return n.String(), true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.Atoi(s); err == nil {
			return v, true
		}
		return s, true
	}
	return nil, false
}

// FeatureID：读取要素的数值 ID
func FeatureID(f *geojson.Feature) (int, bool) {
	switch v := f.ID.(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(v)
		return n, err == nil
	}
	return 0, false
}
