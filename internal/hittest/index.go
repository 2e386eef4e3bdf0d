// 包 hittest：画布坐标到县的命中查询，为无 DOM 环境提供 pointer-enter 的目标判定
package hittest

import (
	"math"
	"time"

	"edu-choropleth/internal/metrics"
	"edu-choropleth/internal/scene"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Options：缓存容量与有效期；Capacity 为 0 时关闭缓存
type Options struct {
	Capacity int
	TTL      time.Duration
}

// Index：基于场景构建的只读命中索引
type Index struct {
	counties []scene.County
	cache    *LRU
}

func New(s *scene.Scene, o Options) *Index {
	ix := &Index{counties: s.Counties}
	if o.Capacity > 0 {
		ix.cache = NewLRU(o.Capacity, o.TTL)
	}
	return ix
}

// At：返回坐标所在的县；坐标先量化到整像素作为缓存键
func (ix *Index) At(x, y float64) (scene.County, bool) {
	if ix.cache == nil {
		return ix.result(ix.find(orb.Point{x, y}))
	}
	at := cell{x: int(math.Round(x)), y: int(math.Round(y))}
	if i, ok := ix.cache.Get(at); ok {
		metrics.HitCacheHitsTotal.Inc()
		return ix.result(i)
	}
	i := ix.find(orb.Point{x, y})
	ix.cache.Set(at, i)
	return ix.result(i)
}

func (ix *Index) result(i int) (scene.County, bool) {
	if i < 0 {
		return scene.County{}, false
	}
	return ix.counties[i], true
}

// find：包围盒过滤后逐个多边形判定（含洞）；边界上的点归属索引顺序靠前的县
func (ix *Index) find(pt orb.Point) int {
	for i := range ix.counties {
		c := &ix.counties[i]
		if !c.Bound.Contains(pt) {
			continue
		}
		for _, p := range c.Shape {
			if contains(p, pt) {
				return i
			}
		}
	}
	return -1
}

func contains(p orb.Polygon, pt orb.Point) bool {
	return len(p) > 0 && planar.PolygonContains(p, pt)
}
