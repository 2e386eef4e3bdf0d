package dataset

import (
	"context"
	"sync/atomic"

	"edu-choropleth/internal/logger"
)

// 文档注释：快照持有者
// 背景：通过原子指针无锁切换快照，读路径不阻塞；未就绪时 Current 返回 nil，对外表现为"加载中"。
// 约束：首次加载失败后保持加载中状态，不重试、不渲染错误页；重载失败保留旧快照。
type Holder struct {
	p atomic.Pointer[Snapshot]
}

func (h *Holder) Current() *Snapshot { return h.p.Load() }

func (h *Holder) Set(s *Snapshot) { h.p.Store(s) }

// State：loading / ready
func (h *Holder) State() string {
	if h.p.Load() == nil {
		return "loading"
	}
	return "ready"
}

// Run：执行一次加载；失败仅记录一次错误日志并返回，不 panic
func (h *Holder) Run(ctx context.Context, l *Loader) error {
	s, err := l.Load(ctx)
	if err != nil {
		logger.L().Error("dataset_load_error", "err", err)
		return err
	}
	h.Set(s)
	logger.L().Info("dataset_ready",
		"counties", len(s.Counties.Features),
		"states", len(s.States.Features),
		"records", len(s.Education),
		"version", s.Version,
	)
	return nil
}

// 文档注释：首次加载并按需监听本地来源
// 背景：首次加载失败时保持加载中；watch 为 true 时仍然开始监听，本地文件修复后的下一次变更即可就绪。
// 返回：首次加载的错误（监听启动失败时返回监听错误）。
func (h *Holder) Serve(ctx context.Context, l *Loader, watch bool, onReload func(*Snapshot)) error {
	loadErr := h.Run(ctx, l)
	if !watch {
		return loadErr
	}
	if err := h.Watch(ctx, l, onReload); err != nil {
		logger.L().Error("watch_error", "err", err)
		return err
	}
	return loadErr
}
