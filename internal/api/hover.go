package api

import (
	"edu-choropleth/internal/hittest"
	"edu-choropleth/internal/tooltip"
)

// 文档注释：悬停查询（供 HTTP 接口与命令行调用）
// 背景：在无 DOM 环境下复现一次 pointer 事件：命中县则 Enter，leave 为 true 时紧接着对同一县 Leave。
// 约束：每次调用新建 Controller 与 Recorder，不跨请求共享状态；未命中任何县时保持 hidden。
func HoverQuery(ix *hittest.Index, x, y float64, leave bool) HoverResult {
	rec := &tooltip.Recorder{}
	ctrl := tooltip.New(rec)
	c, ok := ix.At(x, y)
	if ok {
		ctrl.Enter(tooltip.Shape{ID: c.FIPS, Entry: c.Entry}, x, y)
		if leave {
			ctrl.Leave(c.FIPS)
		}
	}
	res := HoverResult{
		State:   ctrl.State().String(),
		Hit:     ok,
		Tooltip: rec.View(),
	}
	if ok {
		res.FIPS = c.FIPS
		res.Stroke = ctrl.StrokeFor(c.FIPS)
	} else {
		res.Stroke = tooltip.DefaultStroke
	}
	return res
}
