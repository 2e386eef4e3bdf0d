package dataset

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"edu-choropleth/internal/logger"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 200 * time.Millisecond

// 文档注释：本地数据文件变更后重载快照
// 背景：编辑器保存常触发多次写入/重命名，按目录监听并去抖；重载成功整体替换快照，失败保留旧快照。
// 约束：仅监听本地来源；两份都是远程来源时直接返回 nil。ctx 取消后停止并释放监听器。
func (h *Holder) Watch(ctx context.Context, l *Loader, onReload func(*Snapshot)) error {
	files := map[string]bool{}
	for _, src := range []string{l.EducationSrc, l.TopologySrc} {
		if IsRemote(src) {
			continue
		}
		abs, err := filepath.Abs(LocalPath(src))
		if err != nil {
			return err
		}
		files[abs] = true
	}
	if len(files) == 0 {
		return nil
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	dirs := map[string]bool{}
	for f := range files {
		d := filepath.Dir(f)
		if dirs[d] {
			continue
		}
		if err := fw.Add(d); err != nil {
			fw.Close()
			return err
		}
		dirs[d] = true
	}
	log := logger.Component("dataset")
	log.Info("dataset_watch_begin", "files", len(files))

	// 去抖定时器只负责投递重载请求；单个 worker 顺序执行，较旧的 Load 不会覆盖较新的结果
	pending := make(chan struct{}, 1)
	request := func() {
		select {
		case pending <- struct{}{}:
		default:
		}
	}
	reload := func() {
		s, err := l.Load(ctx)
		if err != nil {
			if ctx.Err() == nil {
				log.Error("dataset_reload_error", "err", err)
			}
			return
		}
		h.Set(s)
		log.Info("dataset_reloaded", "version", s.Version, "counties", len(s.Counties.Features))
		if onReload != nil {
			onReload(s)
		}
	}
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-pending:
				reload()
			}
		}
	}()

	var mu sync.Mutex
	var timer *time.Timer
	go func() {
		defer fw.Close()
		for {
			select {
			case <-ctx.Done():
				mu.Lock()
				if timer != nil {
					timer.Stop()
				}
				mu.Unlock()
				return
			case ev, ok := <-fw.Events:
				if !ok {
					return
				}
				abs, _ := filepath.Abs(ev.Name)
				if !files[abs] || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				log.Debug("dataset_file_changed", "path", abs, "op", ev.Op.String())
				mu.Lock()
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(reloadDebounce, request)
				mu.Unlock()
			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				log.Warn("dataset_watch_error", "err", err)
			}
		}
	}()
	return nil
}
