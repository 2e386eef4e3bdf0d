// 包 colorscale：百分比到颜色的映射，以及与之对应的图例色块
package colorscale

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
)

var ErrUnknownScale = errors.New("colorscale: unknown scale")

// 文档注释：颜色比例尺契约
// 背景：地图填色与图例共用同一比例尺，保证两者视觉一致；图例色块只能由 Swatches 推导。
// 约束：Color 对 bachelorsOrHigher 单调（值越大颜色越深）；Domain 为图例刻度断点，升序。
type Scale interface {
	Name() string
	Color(v float64) color.RGBA
	Domain() []float64
	Swatches() []Swatch
	// Continuous 为 true 时图例按渐变绘制，Swatches 为渐变色标
	Continuous() bool
}

// Swatch：图例色块；Value 为取色所用断点，Color == Scale.Color(Value)
type Swatch struct {
	From  float64    `json:"from"`
	To    float64    `json:"to"`
	Value float64    `json:"value"`
	Color color.RGBA `json:"-"`
	Hex   string     `json:"color"`
}

// ByName：按名称返回默认比例尺（linear / threshold）
func ByName(name string) (Scale, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "linear":
		return DefaultLinear(), nil
	case "threshold":
		return DefaultThreshold(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownScale, name)
}

// Names：可选比例尺名称
func Names() []string { return []string{"linear", "threshold"} }

// Hex：#rrggbb
func Hex(c color.RGBA) string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

// Luminance：相对亮度（sRGB 系数），用于单调性校验与文字配色
func Luminance(c color.RGBA) float64 {
	return 0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)
}

func rgb(hex uint32) color.RGBA {
	return color.RGBA{R: uint8(hex >> 16), G: uint8(hex >> 8), B: uint8(hex), A: 255}
}
