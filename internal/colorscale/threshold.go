package colorscale

import (
	"image/color"
	"math"
)

// 文档注释：阈值分段比例尺
// 背景：百分比落入 (≤15, ≤30, ≤45, >45) 四段，每段固定颜色。
// 约束：阈值为闭区间上界；len(Colors) == len(Thresholds)+1；Max 为图例末端刻度。
type Threshold struct {
	Thresholds []float64
	Colors     []color.RGBA
	Min, Max   float64
}

func DefaultThreshold() *Threshold {
	return &Threshold{
		Thresholds: []float64{15, 30, 45},
		Colors:     []color.RGBA{rgb(0xe5f5e0), rgb(0xa1d99b), rgb(0x41ab5d), rgb(0x006d2c)},
		Min:        0,
		Max:        60,
	}
}

func (t *Threshold) Name() string     { return "threshold" }
func (t *Threshold) Continuous() bool { return false }

func (t *Threshold) Color(v float64) color.RGBA {
	if math.IsNaN(v) {
		return t.Colors[0]
	}
	for i, th := range t.Thresholds {
		if v <= th {
			return t.Colors[i]
		}
	}
	return t.Colors[len(t.Colors)-1]
}

// Domain：Min, 各阈值, Max，即 0,15,30,45,60
func (t *Threshold) Domain() []float64 {
	out := make([]float64, 0, len(t.Thresholds)+2)
	out = append(out, t.Min)
	out = append(out, t.Thresholds...)
	return append(out, t.Max)
}

// Swatches：每段 [d_i, d_i+1] 取上界颜色；上界闭区间保证各段颜色互不相同
func (t *Threshold) Swatches() []Swatch {
	d := t.Domain()
	out := make([]Swatch, 0, len(d)-1)
	for i := 0; i+1 < len(d); i++ {
		c := t.Color(d[i+1])
		out = append(out, Swatch{From: d[i], To: d[i+1], Value: d[i+1], Color: c, Hex: Hex(c)})
	}
	return out
}
