package dataset

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"edu-choropleth/internal/dataset/datasettest"
	"edu-choropleth/internal/logger"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveFixtures(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func fixtureHandler(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/education.json":
		_, _ = w.Write(datasettest.Education)
	case "/counties.json":
		_, _ = w.Write(datasettest.Topology)
	default:
		http.NotFound(w, r)
	}
}

func TestBuild(t *testing.T) {
	s, err := Build(datasettest.Education, datasettest.Topology)
	require.NoError(t, err)
	assert.Len(t, s.Education, 3)
	assert.Len(t, s.Counties.Features, 4)
	assert.Len(t, s.States.Features, 2)
	// 两州只共享 x=300 一条边
	require.Len(t, s.StateMesh, 1)
	assert.Equal(t, orb.LineString{{300, 100}, {300, 0}}, s.StateMesh[0])
	assert.Equal(t, orb.Ring{{100, 0}, {0, 0}, {0, 100}, {100, 100}, {100, 0}}, s.Counties.Features[0].Geometry.(orb.Polygon)[0])
	assert.Equal(t, 3, s.Index.Len())
	assert.Len(t, s.Version, 12)

	e := s.Index.Describe(datasettest.UnknownFIPS)
	assert.False(t, e.Known)
}

func TestBuild_InvalidRecordFallsBackToUnknown(t *testing.T) {
	edu := bytes.Replace(datasettest.Education, []byte(`"bachelorsOrHigher": 35`), []byte(`"bachelorsOrHigher": 100.4`), 1)
	require.NotEqual(t, datasettest.Education, edu)
	s, err := Build(edu, datasettest.Topology)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Index.Len())
	e := s.Index.Describe(1003)
	assert.False(t, e.Known)
	assert.Equal(t, "N/A", e.Percent)
}

func TestBuild_BadTopology(t *testing.T) {
	_, err := Build(datasettest.Education, []byte(`{"type":"Topology","arcs":[],"objects":{}}`))
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestLoad_HTTP(t *testing.T) {
	srv := serveFixtures(t, fixtureHandler)
	l := NewLoader(srv.URL+"/education.json", srv.URL+"/counties.json", 0)
	s, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, s.Index.Len())
}

func TestLoad_FetchesConcurrently(t *testing.T) {
	var arrived sync.WaitGroup
	arrived.Add(2)
	both := make(chan struct{})
	go func() { arrived.Wait(); close(both) }()

	srv := serveFixtures(t, func(w http.ResponseWriter, r *http.Request) {
		arrived.Done()
		select {
		case <-both:
		case <-time.After(2 * time.Second):
			http.Error(w, "sequential fetch", http.StatusGatewayTimeout)
			return
		}
		fixtureHandler(w, r)
	})
	l := NewLoader(srv.URL+"/education.json", srv.URL+"/counties.json", 0)
	_, err := l.Load(context.Background())
	require.NoError(t, err)
}

func TestLoad_HTTPError(t *testing.T) {
	srv := serveFixtures(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/counties.json" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fixtureHandler(w, r)
	})
	l := NewLoader(srv.URL+"/education.json", srv.URL+"/counties.json", 0)
	_, err := l.Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDataUnavailable))
	assert.Contains(t, err.Error(), "topology")
}

func TestLoad_Files(t *testing.T) {
	dir := t.TempDir()
	edu, tp, err := datasettest.WriteFiles(dir)
	require.NoError(t, err)
	l := NewLoader(edu, "file://"+tp, 0)
	s, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, s.Counties.Features, 4)
}

func TestHolder_FailedLoadStaysLoading(t *testing.T) {
	var buf bytes.Buffer
	logger.SetupWriter(&buf, "info", "text")
	t.Cleanup(func() { logger.SetupWriter(os.Stderr, "info", "text") })

	l := NewLoader("/nonexistent/education.json", "/nonexistent/counties.json", 0)
	var h Holder
	var err error
	assert.NotPanics(t, func() { err = h.Run(context.Background(), l) })
	assert.ErrorIs(t, err, ErrDataUnavailable)
	assert.Equal(t, "loading", h.State())
	assert.Nil(t, h.Current())
	assert.Equal(t, 1, strings.Count(buf.String(), "dataset_load_error"))
}

func TestHolder_Run(t *testing.T) {
	srv := serveFixtures(t, fixtureHandler)
	var h Holder
	require.NoError(t, h.Run(context.Background(), NewLoader(srv.URL+"/education.json", srv.URL+"/counties.json", 0)))
	assert.Equal(t, "ready", h.State())
	assert.NotNil(t, h.Current())
}

func TestHolder_WatchReloads(t *testing.T) {
	dir := t.TempDir()
	edu, tp, err := datasettest.WriteFiles(dir)
	require.NoError(t, err)
	l := NewLoader(edu, tp, 0)

	var h Holder
	require.NoError(t, h.Run(context.Background(), l))
	first := h.Current()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reloaded := make(chan *Snapshot, 4)
	require.NoError(t, h.Watch(ctx, l, func(s *Snapshot) { reloaded <- s }))
	time.Sleep(50 * time.Millisecond)

	updated := bytes.Replace(datasettest.Education, []byte(`"bachelorsOrHigher": 10`), []byte(`"bachelorsOrHigher": 12.5`), 1)
	require.NoError(t, os.WriteFile(edu, updated, 0o644))

	select {
	case s := <-reloaded:
		assert.NotSame(t, first, s)
		assert.Same(t, s, h.Current())
		r, ok := s.Index.Lookup(1001)
		require.True(t, ok)
		assert.Equal(t, 12.5, r.BachelorsOrHigher)
	case <-time.After(3 * time.Second):
		t.Fatal("expected reload after file change")
	}
}

func TestHolder_ServeWatchesAfterFailedLoad(t *testing.T) {
	dir := t.TempDir()
	edu := filepath.Join(dir, "education.json")
	tp := filepath.Join(dir, "counties.json")
	require.NoError(t, os.WriteFile(edu, datasettest.Education, 0o644))
	l := NewLoader(edu, tp, 0)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reloaded := make(chan *Snapshot, 4)
	var h Holder
	err := h.Serve(ctx, l, true, func(s *Snapshot) { reloaded <- s })
	assert.ErrorIs(t, err, ErrDataUnavailable)
	assert.Equal(t, "loading", h.State())
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(tp, datasettest.Topology, 0o644))
	select {
	case s := <-reloaded:
		assert.Same(t, s, h.Current())
		assert.Equal(t, "ready", h.State())
	case <-time.After(3 * time.Second):
		t.Fatal("expected recovery once the missing file appears")
	}
}

func TestHolder_ServeWithoutWatch(t *testing.T) {
	var h Holder
	err := h.Serve(context.Background(), NewLoader("/nonexistent/a.json", "/nonexistent/b.json", 0), false, nil)
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

// slowFetcher：读取本地文件前停顿，并记录同时进行中的教育数据读取数
type slowFetcher struct {
	delay    time.Duration
	mu       sync.Mutex
	inflight int
	peak     int
	calls    int
}

func (f *slowFetcher) Fetch(ctx context.Context, src string) ([]byte, error) {
	if strings.HasSuffix(src, "education.json") {
		f.mu.Lock()
		f.inflight++
		f.calls++
		if f.inflight > f.peak {
			f.peak = f.inflight
		}
		f.mu.Unlock()
		defer func() {
			f.mu.Lock()
			f.inflight--
			f.mu.Unlock()
		}()
	}
	time.Sleep(f.delay)
	return FileFetcher{}.Fetch(ctx, src)
}

func TestHolder_WatchReloadsOneAtATime(t *testing.T) {
	dir := t.TempDir()
	edu, tp, err := datasettest.WriteFiles(dir)
	require.NoError(t, err)
	fetcher := &slowFetcher{delay: 400 * time.Millisecond}
	l := &Loader{EducationSrc: edu, TopologySrc: tp, Fetcher: fetcher}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reloaded := make(chan *Snapshot, 8)
	var h Holder
	require.NoError(t, h.Watch(ctx, l, func(s *Snapshot) { reloaded <- s }))
	time.Sleep(50 * time.Millisecond)

	// 第二次写入的去抖在第一次重载进行中到期
	first := bytes.Replace(datasettest.Education, []byte(`"bachelorsOrHigher": 10`), []byte(`"bachelorsOrHigher": 11`), 1)
	require.NoError(t, os.WriteFile(edu, first, 0o644))
	time.Sleep(reloadDebounce + 150*time.Millisecond)
	last := bytes.Replace(datasettest.Education, []byte(`"bachelorsOrHigher": 10`), []byte(`"bachelorsOrHigher": 12`), 1)
	require.NoError(t, os.WriteFile(edu, last, 0o644))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case s := <-reloaded:
			r, ok := s.Index.Lookup(1001)
			require.True(t, ok)
			if r.BachelorsOrHigher != 12 {
				continue
			}
			fetcher.mu.Lock()
			peak := fetcher.peak
			fetcher.mu.Unlock()
			assert.Equal(t, 1, peak)
			cur, _ := h.Current().Index.Lookup(1001)
			assert.Equal(t, 12.0, cur.BachelorsOrHigher)
			return
		case <-deadline:
			t.Fatal("expected the latest file contents to be loaded")
		}
	}
}

func TestHolder_WatchRemoteOnly(t *testing.T) {
	var h Holder
	err := h.Watch(context.Background(), NewLoader("", "", 0), nil)
	assert.NoError(t, err)
}

func TestLocalPath(t *testing.T) {
	assert.Equal(t, "/data/a.json", LocalPath("file:///data/a.json"))
	assert.Equal(t, "data/a.json", LocalPath("data/a.json"))
	assert.True(t, IsRemote("HTTPS://example.com/a.json"))
	assert.False(t, IsRemote("/tmp/a.json"))
}
