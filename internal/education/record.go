// 包 education：县级教育程度数据集的结构与解码
package education

import (
	"encoding/json"
	"errors"
	"fmt"

	"edu-choropleth/internal/logger"
)

// 文档注释：单县教育程度记录
// 背景：字段名与上游 for_user_education.json 保持一致；加载后只读，不做增量更新。
// 约束：FIPS 为县级数值编码，作为与拓扑几何 id 的连接键；百分比取值 0~100。
type Record struct {
	FIPS              int     `json:"fips"`
	State             string  `json:"state"`
	AreaName          string  `json:"area_name"`
	BachelorsOrHigher float64 `json:"bachelorsOrHigher"`
}

var ErrEmpty = errors.New("education: empty dataset")

// Decode：解析教育数据数组
// 约束：空数组或无法解析的内容视为错误（上游缺失时不应静默渲染空图）；
// 单条记录校验失败时丢弃该条并记录 education_record_invalid，对应县按未知处理。
func Decode(b []byte) ([]Record, error) {
	var in []Record
	if err := json.Unmarshal(b, &in); err != nil {
		return nil, fmt.Errorf("education: decode: %w", err)
	}
	if len(in) == 0 {
		return nil, ErrEmpty
	}
	out := in[:0]
	for _, r := range in {
		if err := r.Validate(); err != nil {
			logger.L().Warn("education_record_invalid", "fips", r.FIPS, "err", err)
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// Validate：校验单条记录
func (r Record) Validate() error {
	if r.FIPS <= 0 {
		return fmt.Errorf("education: invalid fips %d", r.FIPS)
	}
	if r.BachelorsOrHigher < 0 || r.BachelorsOrHigher > 100 {
		return fmt.Errorf("education: fips %d: percentage %.2f out of range", r.FIPS, r.BachelorsOrHigher)
	}
	return nil
}
