// 包 tooltip：县级悬停提示的状态机与可注入的浮层能力
package tooltip

import (
	"fmt"

	"edu-choropleth/internal/join"
)

// State：提示框状态
type State int

const (
	Hidden State = iota
	Visible
)

func (s State) String() string {
	if s == Visible {
		return "visible"
	}
	return "hidden"
}

// Stroke：县多边形描边样式
type Stroke struct {
	Color string  `json:"color"`
	Width float64 `json:"width"`
}

var (
	DefaultStroke = Stroke{Color: "none", Width: 0}
	HoverStroke   = Stroke{Color: "#222222", Width: 1.5}
)

// 提示框相对指针的偏移
const (
	OffsetX = 10
	OffsetY = -28
)

// Point：逻辑坐标
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Content：提示框内容，来自连接结果
type Content struct {
	FIPS      int    `json:"fips"`
	Text      string `json:"text"`
	Education string `json:"education"`
}

// 文档注释：浮层能力
// 背景：提示框节点属于宿主文档的全局可变状态；抽象为接口后渲染逻辑无需真实 DOM 即可测试。
// 约束：Show 会整体替换上一次的内容与位置；Remove 删除节点本身（重新渲染前调用）。
type Overlay interface {
	Show(c Content, at Point)
	Hide()
	Remove()
}

// Shape：可悬停的县多边形
type Shape struct {
	ID    int
	Entry join.Entry
}

// ContentFor：生成提示文本，未知县显示 Unknown / N/A
func ContentFor(e join.Entry) Content {
	text := e.AreaName
	if e.State != "" {
		text += ", " + e.State
	}
	if e.Known {
		text += fmt.Sprintf(": %s%%", e.Percent)
	} else {
		text += ": " + e.Percent
	}
	return Content{FIPS: e.FIPS, Text: text, Education: e.Percent}
}

// 文档注释：悬停状态机（hidden / visible）
// 背景：pointer-enter 显示并定位，pointer-leave 隐藏；无定时器、无排队，最后一次事件生效。
// 约束：非并发安全，每次渲染（或每个请求）各持有一个实例。
type Controller struct {
	overlay Overlay
	state   State
	hovered int
	active  bool
}

// New：挂载前先移除旧节点，避免重复渲染产生多个浮层
func New(o Overlay) *Controller {
	o.Remove()
	o.Hide()
	return &Controller{overlay: o}
}

// Enter：指针进入县多边形
func (c *Controller) Enter(s Shape, x, y float64) {
	c.state = Visible
	c.hovered = s.ID
	c.active = true
	c.overlay.Show(ContentFor(s.Entry), Point{X: x + OffsetX, Y: y + OffsetY})
}

// Leave：指针离开；离开的不是当前悬停的多边形时忽略（进入新多边形的事件已先到达）
func (c *Controller) Leave(id int) {
	if !c.active || id != c.hovered {
		return
	}
	c.state = Hidden
	c.active = false
	c.overlay.Hide()
}

// Reset：重新渲染前清理
func (c *Controller) Reset() {
	c.overlay.Remove()
	c.state = Hidden
	c.active = false
}

func (c *Controller) State() State { return c.state }

// Hovered：当前悬停的县 id
func (c *Controller) Hovered() (int, bool) { return c.hovered, c.active }

// StrokeFor：按悬停状态返回描边样式
func (c *Controller) StrokeFor(id int) Stroke {
	if c.active && id == c.hovered {
		return HoverStroke
	}
	return DefaultStroke
}
