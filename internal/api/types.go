package api

import (
	"edu-choropleth/internal/colorscale"
	"edu-choropleth/internal/scene"
	"edu-choropleth/internal/tooltip"
)

// 文档注释：对外序列化模型
// 约束：字段稳定；新增字段需评估与前端脚本的兼容性。
type statusResult struct {
	State      string `json:"state"`
	Counties   int    `json:"counties"`
	Records    int    `json:"records"`
	Duplicates int    `json:"duplicates"`
	Version    string `json:"version,omitempty"`
	LoadedAt   string `json:"loaded_at,omitempty"`
	Commit     string `json:"commit"`
}

type legendResult struct {
	Scale      string              `json:"scale"`
	Continuous bool                `json:"continuous"`
	Domain     []float64           `json:"domain"`
	Swatches   []colorscale.Swatch `json:"swatches"`
	Ticks      []scene.Tick        `json:"ticks"`
}

// HoverResult：一次指针事件之后提示框与描边的状态
type HoverResult struct {
	State   string         `json:"state"`
	FIPS    int            `json:"fips,omitempty"`
	Hit     bool           `json:"hit"`
	Tooltip tooltip.View   `json:"tooltip"`
	Stroke  tooltip.Stroke `json:"stroke"`
}

type errorResult struct {
	Error string `json:"error"`
	State string `json:"state,omitempty"`
}
