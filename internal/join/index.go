// 包 join：按 FIPS 连接几何要素与教育数据
package join

import (
	"strconv"

	"edu-choropleth/internal/education"
	"edu-choropleth/internal/logger"
)

const (
	UnknownName    = "Unknown"
	UnknownPercent = "N/A"
)

// 文档注释：连接索引（fips → 记录）
// 背景：渲染与悬停都需要按几何 id 查记录；每个快照构建一次哈希表，替代逐要素线性扫描。
// 约束：构建后只读，可被多协程并发读取；fips 重复时保留首条并计数。
type Index struct {
	byFIPS map[int]education.Record
	dups   int
}

// Entry：面向展示的连接结果，未命中时填充占位值
type Entry struct {
	FIPS     int     `json:"fips"`
	AreaName string  `json:"area_name"`
	State    string  `json:"state"`
	Percent  string  `json:"percent"`
	Value    float64 `json:"value"`
	Known    bool    `json:"known"`
}

func New(records []education.Record) *Index {
	ix := &Index{byFIPS: make(map[int]education.Record, len(records))}
	for _, r := range records {
		if _, ok := ix.byFIPS[r.FIPS]; ok {
			ix.dups++
			logger.L().Warn("join_duplicate_fips", "fips", r.FIPS)
			continue
		}
		ix.byFIPS[r.FIPS] = r
	}
	return ix
}

func (ix *Index) Lookup(fips int) (education.Record, bool) {
	r, ok := ix.byFIPS[fips]
	return r, ok
}

// Describe：查询并格式化；未命中不是错误，返回 Unknown / N/A
func (ix *Index) Describe(fips int) Entry {
	r, ok := ix.Lookup(fips)
	if !ok {
		return Entry{FIPS: fips, AreaName: UnknownName, Percent: UnknownPercent}
	}
	return Entry{
		FIPS:     fips,
		AreaName: r.AreaName,
		State:    r.State,
		Percent:  strconv.FormatFloat(r.BachelorsOrHigher, 'f', -1, 64),
		Value:    r.BachelorsOrHigher,
		Known:    true,
	}
}

func (ix *Index) Len() int        { return len(ix.byFIPS) }
func (ix *Index) Duplicates() int { return ix.dups }
