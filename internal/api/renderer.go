package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"edu-choropleth/internal/colorscale"
	"edu-choropleth/internal/dataset"
	"edu-choropleth/internal/hittest"
	"edu-choropleth/internal/logger"
	"edu-choropleth/internal/metrics"
	"edu-choropleth/internal/page"
	"edu-choropleth/internal/render/rastermap"
	"edu-choropleth/internal/render/svgmap"
	"edu-choropleth/internal/scene"

	"github.com/redis/go-redis/v9"
)

// ErrLoading：快照尚未就绪（HTTP 503）
var ErrLoading = errors.New("api: dataset loading")

// 输出格式
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatHTML = "html"
)

var contentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatHTML: "text/html; charset=utf-8",
}

// Options：渲染参数
type Options struct {
	Viewport     scene.Viewport
	DefaultScale string
	CacheTTL     time.Duration
	Hit          hittest.Options
}

type built struct {
	scene *scene.Scene
	hits  *hittest.Index
}

// 文档注释：渲染器
// 背景：场景与命中索引按 (快照版本, 比例尺) 在进程内缓存；渲染结果可选写入 Redis，键含版本，快照切换后旧键自然失效。
// 约束：快照版本变化时整体丢弃进程内缓存；rc 为 nil 时每次渲染。
type Renderer struct {
	holder *dataset.Holder
	rc     *redis.Client
	opts   Options

	mu      sync.Mutex
	version string
	scenes  map[string]built
}

func NewRenderer(h *dataset.Holder, rc *redis.Client, o Options) *Renderer {
	if o.Viewport.Width <= 0 || o.Viewport.Height <= 0 {
		o.Viewport = scene.DefaultViewport()
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = 10 * time.Minute
	}
	return &Renderer{holder: h, rc: rc, opts: o, scenes: map[string]built{}}
}

// Scale：解析比例尺名称，空串取默认值
func (r *Renderer) Scale(name string) (colorscale.Scale, error) {
	if name == "" {
		name = r.opts.DefaultScale
	}
	return colorscale.ByName(name)
}

// Scene：返回当前快照在指定比例尺下的场景与命中索引
func (r *Renderer) Scene(scaleName string) (*scene.Scene, *hittest.Index, error) {
	snap := r.holder.Current()
	if snap == nil {
		return nil, nil, ErrLoading
	}
	sc, err := r.Scale(scaleName)
	if err != nil {
		return nil, nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.version != snap.Version {
		r.version = snap.Version
		r.scenes = map[string]built{}
	}
	if b, ok := r.scenes[sc.Name()]; ok {
		return b.scene, b.hits, nil
	}
	s, err := scene.Build(snap, sc, r.opts.Viewport)
	if err != nil {
		return nil, nil, err
	}
	b := built{scene: s, hits: hittest.New(s, r.opts.Hit)}
	r.scenes[sc.Name()] = b
	logger.L().Debug("scene_built", "scale", sc.Name(), "version", snap.Version, "counties", len(s.Counties), "unmatched", s.Unmatched)
	return b.scene, b.hits, nil
}

// 文档注释：渲染文档
// 背景：先查 Redis（键含格式、比例尺、快照版本与画布尺寸），未命中再构建场景并输出，写回时带 TTL。
// 返回：文档字节与 Content-Type；快照未就绪返回 ErrLoading，比例尺非法返回 colorscale.ErrUnknownScale。
func (r *Renderer) Document(ctx context.Context, format, scaleName string) ([]byte, string, error) {
	ct, ok := contentTypes[format]
	if !ok {
		return nil, "", fmt.Errorf("api: unknown format %q", format)
	}
	snap := r.holder.Current()
	if snap == nil {
		return nil, "", ErrLoading
	}
	sc, err := r.Scale(scaleName)
	if err != nil {
		return nil, "", err
	}
	key := r.cacheKey(format, sc.Name(), snap.Version)
	if r.rc != nil {
		if b, err := r.rc.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
			metrics.RenderCacheHitsTotal.Inc()
			return b, ct, nil
		} else if err != nil && !errors.Is(err, redis.Nil) {
			logger.L().Warn("render_cache_get_error", "key", key, "err", err)
		}
		metrics.RenderCacheMissesTotal.Inc()
	}

	begin := time.Now()
	s, _, err := r.Scene(sc.Name())
	if err != nil {
		return nil, "", err
	}
	var buf bytes.Buffer
	switch format {
	case FormatSVG:
		err = svgmap.Write(&buf, s, svgmap.Options{Standalone: true})
	case FormatPNG:
		err = rastermap.Write(&buf, s)
	case FormatHTML:
		err = page.Write(&buf, page.View{Scene: s, Scale: sc.Name(), Scales: colorscale.Names(), Version: s.Version})
	}
	if err != nil {
		return nil, "", err
	}
	metrics.RenderTotal.WithLabelValues(format, sc.Name()).Inc()
	metrics.RenderDurationMs.WithLabelValues(format).Observe(float64(time.Since(begin).Milliseconds()))

	out := buf.Bytes()
	if r.rc != nil {
		if err := r.rc.Set(ctx, key, out, r.opts.CacheTTL).Err(); err != nil {
			logger.L().Warn("render_cache_set_error", "key", key, "err", err)
		}
	}
	return out, ct, nil
}

func (r *Renderer) cacheKey(format, scale, version string) string {
	return fmt.Sprintf("choropleth:render:%s:%s:%s:%gx%g", format, scale, version, r.opts.Viewport.Width, r.opts.Viewport.Height)
}
