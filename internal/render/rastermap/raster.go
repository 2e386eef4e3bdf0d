// 包 rastermap：把 Scene 光栅化为 PNG（无浏览器环境下的静态输出，不含悬停交互）
package rastermap

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"edu-choropleth/internal/scene"

	"github.com/paulmach/orb"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

const borderWidth = 1.0

var (
	background = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	ink        = color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
)

// Write：光栅化并编码为 PNG
func Write(w io.Writer, s *scene.Scene) error {
	return png.Encode(w, Render(s))
}

// 文档注释：光栅化场景
// 背景：绘制顺序与 SVG 一致：州底色、县、州边界、图例、标题；多边形使用抗锯齿扫描转换。
// 约束：画布尺寸取 Viewport（四舍五入到整像素）；坐标系与 Scene 相同，y 轴向下。
func Render(s *scene.Scene) *image.RGBA {
	w, h := int(math.Round(s.Viewport.Width)), int(math.Round(s.Viewport.Height))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	r := vector.NewRasterizer(w, h)
	for _, st := range s.States {
		fillShape(img, r, st.Shape, scene.StateFill)
	}
	for _, c := range s.Counties {
		fillShape(img, r, c.Shape, c.Fill)
	}
	if len(s.Borders) > 0 {
		r.Reset(w, h)
		for _, ls := range s.Borders {
			strokeLine(r, ls, borderWidth)
		}
		r.Draw(img, img.Bounds(), image.NewUniform(scene.BorderColor), image.Point{})
	}
	drawLegend(img, s.Legend)

	mid := w / 2
	drawText(img, s.Title, mid, 40, true)
	drawText(img, s.Description, mid, 70, true)
	return img
}

// fillShape：光栅器只覆盖多边形的整像素包围盒，坐标平移到包围盒原点后绘制到对应子区域
func fillShape(img *image.RGBA, r *vector.Rasterizer, mp orb.MultiPolygon, c color.RGBA) {
	if len(mp) == 0 {
		return
	}
	bb := mp.Bound()
	rect := image.Rect(
		int(math.Floor(bb.Min[0])), int(math.Floor(bb.Min[1])),
		int(math.Ceil(bb.Max[0])), int(math.Ceil(bb.Max[1])),
	).Intersect(img.Bounds())
	if rect.Empty() {
		return
	}
	ox, oy := float64(rect.Min.X), float64(rect.Min.Y)
	r.Reset(rect.Dx(), rect.Dy())
	for _, poly := range mp {
		for _, ring := range poly {
			if len(ring) < 3 {
				continue
			}
			r.MoveTo(float32(ring[0][0]-ox), float32(ring[0][1]-oy))
			for _, p := range ring[1:] {
				r.LineTo(float32(p[0]-ox), float32(p[1]-oy))
			}
			r.ClosePath()
		}
	}
	r.Draw(img, rect, image.NewUniform(c), image.Point{})
}

// strokeLine：每段折线展开为宽度 width 的四边形
func strokeLine(r *vector.Rasterizer, ls orb.LineString, width float64) {
	hw := width / 2
	for i := 1; i < len(ls); i++ {
		a, b := ls[i-1], ls[i]
		dx, dy := b[0]-a[0], b[1]-a[1]
		l := math.Hypot(dx, dy)
		if l == 0 {
			continue
		}
		nx, ny := -dy/l*hw, dx/l*hw
		r.MoveTo(float32(a[0]+nx), float32(a[1]+ny))
		r.LineTo(float32(b[0]+nx), float32(b[1]+ny))
		r.LineTo(float32(b[0]-nx), float32(b[1]-ny))
		r.LineTo(float32(a[0]-nx), float32(a[1]-ny))
		r.ClosePath()
	}
}

func drawLegend(img *image.RGBA, lg scene.Legend) {
	y0 := int(math.Round(lg.Y))
	y1 := y0 + int(math.Round(lg.Height))
	if lg.Continuous {
		x0 := int(math.Round(lg.X))
		x1 := int(math.Round(lg.X + lg.Width))
		for x := x0; x < x1; x++ {
			t := (float64(x-x0) + 0.5) / lg.Width
			c := gradientAt(lg.Swatches, t)
			draw.Draw(img, image.Rect(x, y0, x+1, y1), image.NewUniform(c), image.Point{}, draw.Src)
		}
	} else {
		for _, sw := range lg.Swatches {
			rect := image.Rect(int(math.Round(sw.X)), y0, int(math.Round(sw.X+sw.Width)), y1)
			draw.Draw(img, rect, image.NewUniform(sw.Color), image.Point{}, draw.Src)
		}
	}
	for _, t := range lg.Ticks {
		x := int(math.Round(t.X))
		draw.Draw(img, image.Rect(x, y0, x+1, y1+8), image.NewUniform(ink), image.Point{}, draw.Src)
		drawText(img, t.Label, x, y1+22, true)
	}
}

// gradientAt：按色标 Offset 在相邻两色之间做 RGB 线性插值
func gradientAt(stops []scene.LegendSwatch, t float64) color.RGBA {
	if len(stops) == 0 {
		return ink
	}
	if t <= stops[0].Offset {
		return stops[0].Color
	}
	for i := 1; i < len(stops); i++ {
		a, b := stops[i-1], stops[i]
		if t > b.Offset {
			continue
		}
		f := 0.0
		if span := b.Offset - a.Offset; span > 0 {
			f = (t - a.Offset) / span
		}
		return color.RGBA{
			R: mix(a.Color.R, b.Color.R, f),
			G: mix(a.Color.G, b.Color.G, f),
			B: mix(a.Color.B, b.Color.B, f),
			A: 0xff,
		}
	}
	return stops[len(stops)-1].Color
}

func mix(a, b uint8, f float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*f))
}

func drawText(img *image.RGBA, s string, x, y int, centered bool) {
	d := &font.Drawer{Dst: img, Src: image.NewUniform(ink), Face: basicfont.Face7x13}
	if centered {
		x -= d.MeasureString(s).Round() / 2
	}
	d.Dot = fixed.P(x, y)
	d.DrawString(s)
}
