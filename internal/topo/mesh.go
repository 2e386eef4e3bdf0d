package topo

import (
	"fmt"

	"github.com/paulmach/orb"
)

// 文档注释：共享边界网格
// 背景：州边界若按多边形逐个描边，相邻州的公共边会画两遍；网格按弧段去重，只输出一次。
// 约束：filter 接收引用该弧段的第一个与最后一个几何；仅被一个几何引用时两者相同。
// filter 为 nil 时输出全部被引用的弧段。
func (t *Topology) Mesh(name string, filter func(a, b *Geometry) bool) (orb.MultiLineString, error) {
	obj, ok := t.Objects[name]
	if !ok || obj == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownObject, name)
	}
	byArc := make(map[int][]*Geometry)
	var order []int
	var walk func(g *Geometry) error
	walk = func(g *Geometry) error {
		if g.Type == "GeometryCollection" {
			for _, c := range g.Geometries {
				if err := walk(c); err != nil {
					return err
				}
			}
			return nil
		}
		idx, err := flatArcs(g)
		if err != nil {
			return err
		}
		for _, i := range idx {
			j := i
			if i < 0 {
				j = ^i
			}
			if j >= len(t.abs) {
				return fmt.Errorf("%w: %d", ErrBadArc, i)
			}
			gs := byArc[j]
			if len(gs) == 0 {
				order = append(order, j)
			}
			if len(gs) > 0 && gs[len(gs)-1] == g {
				continue
			}
			byArc[j] = append(gs, g)
		}
		return nil
	}
	if err := walk(obj); err != nil {
		return nil, err
	}
	var out orb.MultiLineString
	for _, j := range order {
		gs := byArc[j]
		if filter != nil && !filter(gs[0], gs[len(gs)-1]) {
			continue
		}
		ls := make(orb.LineString, len(t.abs[j]))
		copy(ls, t.abs[j])
		out = append(out, ls)
	}
	return out, nil
}

// Interior：相邻不同几何之间的边界（a != b）
func Interior(a, b *Geometry) bool { return a != b }

func flatArcs(g *Geometry) ([]int, error) {
	var out []int
	switch g.Type {
	case "LineString":
		if err := unmarshalArcs(g.Arcs, &out); err != nil {
			return nil, err
		}
	case "MultiLineString", "Polygon":
		var idx [][]int
		if err := unmarshalArcs(g.Arcs, &idx); err != nil {
			return nil, err
		}
		for _, r := range idx {
			out = append(out, r...)
		}
	case "MultiPolygon":
		var idx [][][]int
		if err := unmarshalArcs(g.Arcs, &idx); err != nil {
			return nil, err
		}
		for _, p := range idx {
			for _, r := range p {
				out = append(out, r...)
			}
		}
	}
	return out, nil
}
