// 包 svgmap：把 Scene 输出为 SVG 文档（含悬停钩子），文档变更只发生在此适配层
package svgmap

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"edu-choropleth/internal/colorscale"
	"edu-choropleth/internal/scene"
	"edu-choropleth/internal/tooltip"

	svg "github.com/ajstarks/svgo"
	"github.com/paulmach/orb"
)

// Options：Standalone 为 true 时文档自带提示框节点与悬停脚本；嵌入宿主页面时由页面提供
type Options struct {
	Standalone bool
}

const gradientID = "legend-gradient"

// 文档注释：输出 SVG
// 背景：每次写出完整的新文档，提示框节点至多一个，重复渲染不会累积旧节点。
// 约束：县多边形带 class="county"、data-fips、data-education 与 <title>；图例 id="legend"。
func Write(w io.Writer, s *scene.Scene, o Options) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(int(s.Viewport.Width), int(s.Viewport.Height),
		fmt.Sprintf(`viewBox="0 0 %d %d"`, int(s.Viewport.Width), int(s.Viewport.Height)),
		`id="choropleth"`,
		`font-family="Helvetica,Arial,sans-serif"`,
	)
	canvas.Title(s.Title)
	canvas.Desc(s.Description)
	canvas.Style("text/css", styleSheet())

	mid := int(s.Viewport.Width / 2)
	canvas.Text(mid, 40, s.Title, `id="title"`, `text-anchor="middle"`, `font-size="28"`)
	canvas.Text(mid, 70, s.Description, `id="description"`, `text-anchor="middle"`, `font-size="15"`)

	canvas.Gid("states")
	for _, st := range s.States {
		canvas.Path(PathData(st.Shape), `class="state"`, fmt.Sprintf(`data-id="%d"`, st.ID), `fill="`+colorscale.Hex(scene.StateFill)+`"`)
	}
	canvas.Gend()

	canvas.Gid("counties")
	for _, c := range s.Counties {
		fmt.Fprintf(canvas.Writer, `<path class="county" d="%s" fill="%s" data-fips="%d" data-education="%s" data-name="%s"><title>%s</title></path>`+"\n",
			PathData(c.Shape), colorscale.Hex(c.Fill), c.FIPS, escape(c.Tooltip.Education), escape(c.Tooltip.Text), escape(c.Tooltip.Text))
	}
	canvas.Gend()

	if len(s.Borders) > 0 {
		canvas.Path(LinePath(s.Borders), `id="state-borders"`, `fill="none"`, `stroke="`+colorscale.Hex(scene.BorderColor)+`"`, `stroke-linejoin="round"`)
	}

	writeLegend(canvas, s.Legend)

	if o.Standalone {
		canvas.Group(`id="tooltip"`, `visibility="hidden"`, `pointer-events="none"`, `data-education=""`)
		canvas.Rect(0, 0, 220, 28, `rx="4"`, `fill="#ffffe0"`, `stroke="#999999"`)
		canvas.Text(8, 19, "", `id="tooltip-text"`, `font-size="13"`)
		canvas.Gend()
		canvas.Script("application/ecmascript", HoverScript("tooltip", "tooltip-text", true))
	}
	canvas.End()
	return ew.err
}

func writeLegend(canvas *svg.SVG, lg scene.Legend) {
	canvas.Group(`id="legend"`, fmt.Sprintf(`data-scale="%s"`, lg.ScaleName))
	y := round(lg.Y)
	h := round(lg.Height)
	if lg.Continuous {
		stops := make([]svg.Offcolor, 0, len(lg.Swatches))
		for _, w := range lg.Swatches {
			stops = append(stops, svg.Offcolor{Offset: uint8(math.Round(w.Offset * 100)), Color: colorscale.Hex(w.Color), Opacity: 1})
		}
		canvas.Def()
		canvas.LinearGradient(gradientID, 0, 0, 100, 0, stops)
		canvas.DefEnd()
		canvas.Rect(round(lg.X), y, round(lg.Width), h, `class="legend-bar"`, `fill="url(#`+gradientID+`)"`)
		for _, w := range lg.Swatches {
			// 色标节点：渐变之外也保留每个断点的取色，供检查与测试
			cx := round(lg.X + w.Offset*lg.Width)
			canvas.Rect(cx-2, y+h+2, 4, 4, `class="legend-stop"`, `fill="`+colorscale.Hex(w.Color)+`"`, fmt.Sprintf(`data-value="%s"`, fmtNum(w.Value)))
		}
	} else {
		for _, w := range lg.Swatches {
			canvas.Rect(round(w.X), y, round(w.Width), h, `class="legend-swatch"`, `fill="`+colorscale.Hex(w.Color)+`"`, fmt.Sprintf(`data-value="%s"`, fmtNum(w.Value)))
		}
	}
	for _, t := range lg.Ticks {
		x := round(t.X)
		canvas.Line(x, y, x, y+h+8, `stroke="#333333"`)
		canvas.Text(x, y+h+22, t.Label, `class="tick"`, `text-anchor="middle"`, `font-size="11"`)
	}
	canvas.Gend()
}

func styleSheet() string {
	return fmt.Sprintf(`.county{stroke:%s;stroke-width:%g}
.county:hover,.county.hovered{stroke:%s;stroke-width:%g}
#tooltip{font-family:Helvetica,Arial,sans-serif}`,
		tooltip.DefaultStroke.Color, tooltip.DefaultStroke.Width,
		tooltip.HoverStroke.Color, tooltip.HoverStroke.Width)
}

// 文档注释：悬停脚本
// 背景：在浏览器中复现 tooltip.Controller 的两态转换：mouseover 显示并定位（偏移与 Controller 一致），mouseout 隐藏；
// 最后一次事件生效，离开的若不是当前县则忽略。svgTooltip 为 true 时定位 SVG 节点，否则定位 HTML 节点。
func HoverScript(tooltipID, textID string, svgTooltip bool) string {
	place := `tip.style.left=(ev.pageX+OX)+"px";tip.style.top=(ev.pageY+OY)+"px";tip.style.opacity=1;`
	hide := `tip.style.opacity=0;`
	if svgTooltip {
		place = `var r=tip.ownerSVGElement||document.documentElement;var p=r.createSVGPoint();p.x=ev.clientX;p.y=ev.clientY;p=p.matrixTransform(r.getScreenCTM().inverse());tip.setAttribute("transform","translate("+(p.x+OX)+","+(p.y+OY)+")");tip.setAttribute("visibility","visible");`
		hide = `tip.setAttribute("visibility","hidden");`
	}
	var b strings.Builder
	fmt.Fprintf(&b, `(function(){var OX=%d,OY=%d;var tip=document.getElementById(%q);var txt=document.getElementById(%q)||tip;var cur=null;`,
		tooltip.OffsetX, tooltip.OffsetY, tooltipID, textID)
	b.WriteString(`if(!tip){return;}`)
	b.WriteString(`document.addEventListener("mouseover",function(ev){var t=ev.target;if(!t.classList||!t.classList.contains("county")){return;}`)
	b.WriteString(`if(cur&&cur!==t){cur.classList.remove("hovered");}cur=t;t.classList.add("hovered");`)
	b.WriteString(`txt.textContent=t.getAttribute("data-name");tip.setAttribute("data-education",t.getAttribute("data-education"));`)
	b.WriteString(place)
	b.WriteString(`});`)
	b.WriteString(`document.addEventListener("mouseout",function(ev){var t=ev.target;if(t!==cur){return;}t.classList.remove("hovered");cur=null;`)
	b.WriteString(hide)
	b.WriteString(`});})();`)
	return b.String()
}

// PathData：多面转 SVG path 数据，每个环以 Z 闭合
func PathData(mp orb.MultiPolygon) string {
	var b strings.Builder
	for _, poly := range mp {
		for _, ring := range poly {
			writeLine(&b, orb.LineString(ring))
			if len(ring) > 0 {
				b.WriteByte('Z')
			}
		}
	}
	return b.String()
}

// LinePath：多线转 SVG path 数据
func LinePath(ml orb.MultiLineString) string {
	var b strings.Builder
	for _, ls := range ml {
		writeLine(&b, ls)
	}
	return b.String()
}

func writeLine(b *strings.Builder, ls orb.LineString) {
	for i, p := range ls {
		if i == 0 {
			b.WriteByte('M')
		} else {
			b.WriteByte('L')
		}
		b.WriteString(fmtNum(p[0]))
		b.WriteByte(',')
		b.WriteString(fmtNum(p[1]))
	}
}

func fmtNum(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func round(v float64) int { return int(math.Round(v)) }

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// errWriter：记录首个写错误，svgo 本身不返回错误
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return len(p), nil
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}
