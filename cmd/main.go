// 程序入口：仅负责读取配置、初始化依赖并启动服务；路由注册在 internal/api 以便扩展
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"edu-choropleth/internal/api"
	"edu-choropleth/internal/config"
	"edu-choropleth/internal/dataset"
	"edu-choropleth/internal/hittest"
	"edu-choropleth/internal/logger"
	"edu-choropleth/internal/metrics"
	"edu-choropleth/internal/middleware"
	"edu-choropleth/internal/scene"
	"edu-choropleth/internal/utils"
	"edu-choropleth/internal/version"
)

func main() {
	config.LoadDotenv()
	// 日志初始化
	l := logger.Setup()
	l.Debug("log_init_ok")
	cfg := config.FromEnv()
	l.Info("config_loaded",
		"addr", cfg.Addr,
		"education", cfg.EducationURL,
		"topology", cfg.TopologyURL,
		"scale", cfg.ColorScale,
		"watch", cfg.WatchSources,
		"commit", version.Commit,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 背景：两份数据并发拉取；失败时保持加载中视图，不重试
	holder := &dataset.Holder{}
	loader := dataset.NewLoader(cfg.EducationURL, cfg.TopologyURL, cfg.FetchTimeout)
	go func() {
		_ = holder.Serve(ctx, loader, cfg.WatchSources, func(s *dataset.Snapshot) {
			l.Info("dataset_swapped", "version", s.Version)
		})
	}()

	rc := utils.OpenRedisFromConfig(ctx, cfg.Redis)
	if rc != nil {
		defer rc.Close()
	}

	renderer := api.NewRenderer(holder, rc, api.Options{
		Viewport:     scene.Viewport{Width: cfg.MapWidth, Height: cfg.MapHeight},
		DefaultScale: cfg.ColorScale,
		CacheTTL:     cfg.Redis.TTL,
		Hit:          hittest.Options{Capacity: cfg.HitCacheSize, TTL: cfg.HitCacheTTL},
	})
	mux := api.BuildRoutes(holder, renderer)
	mux.Handle("/metrics", metrics.Handler())

	handler := logger.AccessMiddleware(l)(mux)
	handler = middleware.RateLimit(handler, cfg.RateLimitEnabled, cfg.RateLimitQPS)
	handler = middleware.Recover(handler)
	s := &http.Server{Addr: cfg.Addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Shutdown(sctx)
	}()

	var err error
	if cfg.TLS.Enabled {
		if e := utils.EnsureSelfSignedCert(cfg.TLS.CertPath, cfg.TLS.KeyPath, "choropleth.local"); e != nil {
			l.Error("tls_cert_error", "err", e)
			os.Exit(1)
		}
		l.Info("listening_tls", "addr", cfg.Addr, "cert", cfg.TLS.CertPath)
		err = s.ListenAndServeTLS(cfg.TLS.CertPath, cfg.TLS.KeyPath)
	} else {
		l.Info("listening", "addr", cfg.Addr)
		err = s.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		l.Error("server_error", "err", err)
		os.Exit(1)
	}
	l.Info("server_stopped")
}
