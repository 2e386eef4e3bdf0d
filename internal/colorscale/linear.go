package colorscale

import (
	"image/color"
	"math"

	"github.com/aclements/go-gg/palette"
	"github.com/aclements/go-moremath/scale"
)

// 文档注释：线性插值比例尺
// 背景：0~100 六个等距色标之间在线性 RGB 空间插值，值越大颜色越深。
// 约束：Stops 必须等距且升序（渐变按等距色标插值）；超出范围截断到两端。
type Linear struct {
	Stops  []float64
	Colors []color.RGBA

	norm scale.Linear
	grad palette.RGBGradient
}

func DefaultLinear() *Linear {
	return NewLinear(
		[]float64{0, 20, 40, 60, 80, 100},
		[]color.RGBA{rgb(0xf7fbff), rgb(0xc6dbef), rgb(0x6baed6), rgb(0x2171b5), rgb(0x08519c), rgb(0x08306b)},
	)
}

func NewLinear(stops []float64, colors []color.RGBA) *Linear {
	return &Linear{
		Stops:  stops,
		Colors: colors,
		norm:   scale.Linear{Min: stops[0], Max: stops[len(stops)-1], Clamp: true},
		// RGBGradient 对首段（整数位为 0）直接返回首色，前置一个占位色使首段也参与插值
		grad: palette.RGBGradient{Colors: append([]color.RGBA{colors[0]}, colors...)},
	}
}

func (l *Linear) Name() string     { return "linear" }
func (l *Linear) Continuous() bool { return true }

func (l *Linear) Color(v float64) color.RGBA {
	if math.IsNaN(v) {
		return l.Colors[0]
	}
	n := float64(len(l.Colors) - 1)
	c := l.grad.Map((1 + l.norm.Map(v)*n) / (n + 1))
	if rc, ok := c.(color.RGBA); ok {
		return rc
	}
	return color.RGBAModel.Convert(c).(color.RGBA)
}

func (l *Linear) Domain() []float64 { return append([]float64(nil), l.Stops...) }

// Swatches：每个色标一个渐变节点
func (l *Linear) Swatches() []Swatch {
	out := make([]Swatch, 0, len(l.Stops))
	for i, s := range l.Stops {
		to := s
		if i+1 < len(l.Stops) {
			to = l.Stops[i+1]
		}
		c := l.Color(s)
		out = append(out, Swatch{From: s, To: to, Value: s, Color: c, Hex: Hex(c)})
	}
	return out
}

// Offset：值在比例尺上的归一化位置（0~1），用于图例坐标与渐变偏移
func (l *Linear) Offset(v float64) float64 { return l.norm.Map(v) }
