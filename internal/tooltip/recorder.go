package tooltip

// View：浮层当前可见状态的快照（对外序列化）
type View struct {
	Visible bool    `json:"visible"`
	Content Content `json:"content"`
	At      Point   `json:"at"`
	Nodes   int     `json:"nodes"`
}

// 文档注释：记录型浮层
// 背景：无 DOM 环境（HTTP 悬停接口、命令行预览、测试）下承接 Controller 的输出。
// 约束：Nodes 统计当前存在的浮层节点数，Show 时按需创建，Remove 时清零。
type Recorder struct {
	view  View
	shows int
	hides int
}

func (r *Recorder) Show(c Content, at Point) {
	if r.view.Nodes == 0 {
		r.view.Nodes = 1
	}
	r.view.Visible = true
	r.view.Content = c
	r.view.At = at
	r.shows++
}

func (r *Recorder) Hide() {
	r.view.Visible = false
	r.hides++
}

func (r *Recorder) Remove() {
	r.view = View{}
}

func (r *Recorder) View() View { return r.view }

// Counts：Show / Hide 调用次数
func (r *Recorder) Counts() (shows, hides int) { return r.shows, r.hides }
