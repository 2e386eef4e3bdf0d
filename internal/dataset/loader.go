// 包 dataset：数据加载器，并发获取两份数据集并构建只读快照
package dataset

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"edu-choropleth/internal/education"
	"edu-choropleth/internal/join"
	"edu-choropleth/internal/logger"
	"edu-choropleth/internal/metrics"
	"edu-choropleth/internal/topo"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultEducationURL = "https://cdn.freecodecamp.org/testable-projects-fcc/data/choropleth_map/for_user_education.json"
	DefaultTopologyURL  = "https://cdn.freecodecamp.org/testable-projects-fcc/data/choropleth_map/counties.json"

	CountiesObject = "counties"
	StatesObject   = "states"
)

// ErrDataUnavailable：唯一的错误类别，任何获取或解析失败都归入此类
var ErrDataUnavailable = errors.New("dataset: data unavailable")

// 文档注释：数据快照
// 背景：一次成功加载产生一个快照，整体替换旧快照，不做增量更新；创建后只读，可并发共享。
// 约束：Index 与 Education 同源构建；Version 为两份原始数据的摘要，用于渲染缓存键。
type Snapshot struct {
	Education []education.Record
	Counties  *geojson.FeatureCollection
	States    *geojson.FeatureCollection
	StateMesh orb.MultiLineString
	Index     *join.Index
	Version   string
	LoadedAt  time.Time
}

// Loader：两份数据的来源与读取方式
type Loader struct {
	EducationSrc string
	TopologySrc  string
	Fetcher      Fetcher
	// Timeout 为 0 表示不设超时（与上游行为一致）
	Timeout time.Duration
}

// NewLoader：空来源回退到默认地址
func NewLoader(eduSrc, topoSrc string, timeout time.Duration) *Loader {
	if eduSrc == "" {
		eduSrc = DefaultEducationURL
	}
	if topoSrc == "" {
		topoSrc = DefaultTopologyURL
	}
	return &Loader{EducationSrc: eduSrc, TopologySrc: topoSrc, Fetcher: NewAutoFetcher(timeout), Timeout: timeout}
}

// 文档注释：加载快照
// 背景：两次获取并发发出、共同等待，任一失败则整体失败；无重试。
// 返回：失败时错误链包含 ErrDataUnavailable。
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	if l.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.Timeout)
		defer cancel()
	}
	var eduRaw, topoRaw []byte
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := l.fetch(gctx, "education", l.EducationSrc)
		eduRaw = b
		return err
	})
	g.Go(func() error {
		b, err := l.fetch(gctx, "topology", l.TopologySrc)
		topoRaw = b
		return err
	})
	if err := g.Wait(); err != nil {
		metrics.SnapshotLoadsTotal.WithLabelValues("fail").Inc()
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}
	snap, err := Build(eduRaw, topoRaw)
	if err != nil {
		metrics.SnapshotLoadsTotal.WithLabelValues("fail").Inc()
		return nil, err
	}
	metrics.SnapshotLoadsTotal.WithLabelValues("ok").Inc()
	metrics.SnapshotCounties.Set(float64(len(snap.Counties.Features)))
	return snap, nil
}

func (l *Loader) fetch(ctx context.Context, name, src string) ([]byte, error) {
	t0 := time.Now()
	metrics.FetchTotal.WithLabelValues(name).Inc()
	logger.L().Debug("dataset_fetch_begin", "dataset", name, "src", src)
	b, err := l.Fetcher.Fetch(ctx, src)
	metrics.FetchDurationMs.WithLabelValues(name).Observe(float64(time.Since(t0).Milliseconds()))
	if err != nil {
		metrics.FetchFailTotal.WithLabelValues(name).Inc()
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	logger.L().Debug("dataset_fetch_ok", "dataset", name, "bytes", len(b), "duration_ms", time.Since(t0).Milliseconds())
	return b, nil
}

// 文档注释：由原始字节构建快照
// 背景：解析教育数据与拓扑，展开县/州图层，生成州内部边界网格与连接索引。
func Build(eduRaw, topoRaw []byte) (*Snapshot, error) {
	recs, err := education.Decode(eduRaw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}
	tp, err := topo.Decode(topoRaw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}
	counties, err := tp.Feature(CountiesObject)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}
	states, err := tp.Feature(StatesObject)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}
	mesh, err := tp.Mesh(StatesObject, topo.Interior)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}
	h := sha256.New()
	h.Write(eduRaw)
	h.Write(topoRaw)
	return &Snapshot{
		Education: recs,
		Counties:  counties,
		States:    states,
		StateMesh: mesh,
		Index:     join.New(recs),
		Version:   hex.EncodeToString(h.Sum(nil))[:12],
		LoadedAt:  time.Now(),
	}, nil
}
