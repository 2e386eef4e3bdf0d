// 包 page：HTML 宿主页面（挂载点、唯一的提示框节点、悬停脚本、加载视图）
package page

import (
	"bytes"
	"html/template"
	"io"
	"strings"

	"edu-choropleth/internal/render/svgmap"
	"edu-choropleth/internal/scene"
)

const (
	TooltipID   = "tooltip"
	LoadingText = "Loading..."
)

// View：页面数据；Scene 为 nil 时渲染加载视图
type View struct {
	Scene   *scene.Scene
	Scale   string
	Scales  []string
	Version string
}

type model struct {
	Title       string
	Description string
	Loading     bool
	LoadingText string
	Map         template.HTML
	Script      template.JS
	TooltipID   string
	Scale       string
	Scales      []string
	Version     string
}

var tpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body{font-family:Helvetica,Arial,sans-serif;margin:0;background:#fafafa;color:#333}
#main{display:flex;flex-direction:column;align-items:center;padding:16px}
#loading{font-size:20px;margin-top:120px}
#tooltip{position:absolute;pointer-events:none;opacity:0;background:#ffffe0;border:1px solid #999;border-radius:4px;padding:4px 8px;font-size:13px}
#scales a{margin:0 6px}
#scales a.active{font-weight:bold}
</style>
</head>
<body>
<div id="main">
{{- if .Loading}}
<div id="loading">{{.LoadingText}}</div>
{{- else}}
<div id="scales">{{range .Scales}}<a href="/?scale={{.}}"{{if eq . $.Scale}} class="active"{{end}}>{{.}}</a>{{end}}</div>
<div id="map" data-scale="{{.Scale}}" data-version="{{.Version}}">{{.Map}}</div>
{{- end}}
</div>
{{- if not .Loading}}
<div id="{{.TooltipID}}" data-education=""></div>
<script>{{.Script}}</script>
{{- end}}
</body>
</html>
`))

// 文档注释：输出宿主页面
// 背景：SVG 内联到挂载点；提示框为页面级 HTML 节点（整页只此一个），SVG 自身不再携带提示框。
// 约束：加载中只输出加载视图；失败时同样停留在加载视图。
func Write(w io.Writer, v View) error {
	m := model{
		Title:       scene.Title,
		Description: scene.Description,
		Loading:     v.Scene == nil,
		LoadingText: LoadingText,
		TooltipID:   TooltipID,
		Scale:       v.Scale,
		Scales:      v.Scales,
		Version:     v.Version,
	}
	if v.Scene != nil {
		var buf bytes.Buffer
		if err := svgmap.Write(&buf, v.Scene, svgmap.Options{}); err != nil {
			return err
		}
		m.Map = template.HTML(stripProlog(buf.String()))
		m.Script = template.JS(svgmap.HoverScript(TooltipID, TooltipID, false))
	}
	return tpl.Execute(w, m)
}

// stripProlog：内联到 HTML 时去掉 XML 声明
func stripProlog(s string) string {
	if i := strings.Index(s, "<svg"); i > 0 {
		return s[i:]
	}
	return s
}
