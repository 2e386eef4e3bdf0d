// 包 api：集中注册 HTTP 路由以解耦主入口；渲染、查询与悬停接口都只读取当前快照
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"edu-choropleth/internal/colorscale"
	"edu-choropleth/internal/dataset"
	"edu-choropleth/internal/logger"
	"edu-choropleth/internal/metrics"
	"edu-choropleth/internal/page"
	"edu-choropleth/internal/scene"
	"edu-choropleth/internal/version"
)

// 构建并返回路由：独立 ServeMux，由主入口包裹中间件后挂载
func BuildRoutes(h *dataset.Holder, r *Renderer) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/" {
			http.NotFound(w, req)
			return
		}
		if h.Current() == nil {
			w.Header().Set("content-type", "text/html; charset=utf-8")
			w.Header().Set("cache-control", "no-store")
			if err := page.Write(w, page.View{}); err != nil {
				logger.L().Error("page_write_error", "err", err)
			}
			return
		}
		serveDocument(w, req, r, FormatHTML)
	})
	mux.HandleFunc("/map.svg", func(w http.ResponseWriter, req *http.Request) {
		serveDocument(w, req, r, FormatSVG)
	})
	mux.HandleFunc("/map.png", func(w http.ResponseWriter, req *http.Request) {
		serveDocument(w, req, r, FormatPNG)
	})

	mux.HandleFunc("/api/county", func(w http.ResponseWriter, req *http.Request) {
		snap := h.Current()
		if snap == nil {
			writeError(w, http.StatusServiceUnavailable, ErrLoading)
			return
		}
		fips, err := strconv.Atoi(req.URL.Query().Get("fips"))
		if err != nil || fips <= 0 {
			writeError(w, http.StatusBadRequest, errors.New("fips must be a positive integer"))
			return
		}
		writeJSON(w, http.StatusOK, snap.Index.Describe(fips))
	})

	mux.HandleFunc("/api/legend", func(w http.ResponseWriter, req *http.Request) {
		sc, err := r.Scale(req.URL.Query().Get("scale"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		lg := scene.BuildLegend(sc, 0, 0, 1)
		writeJSON(w, http.StatusOK, legendResult{
			Scale:      sc.Name(),
			Continuous: sc.Continuous(),
			Domain:     sc.Domain(),
			Swatches:   sc.Swatches(),
			Ticks:      lg.Ticks,
		})
	})

	mux.HandleFunc("/api/hover", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		x, errX := strconv.ParseFloat(q.Get("x"), 64)
		y, errY := strconv.ParseFloat(q.Get("y"), 64)
		if errX != nil || errY != nil {
			metrics.HoverTotal.WithLabelValues("bad_request").Inc()
			writeError(w, http.StatusBadRequest, errors.New("x and y must be numbers"))
			return
		}
		_, ix, err := r.Scene(q.Get("scale"))
		if err != nil {
			metrics.HoverTotal.WithLabelValues("error").Inc()
			writeError(w, statusFor(err), err)
			return
		}
		res := HoverQuery(ix, x, y, q.Get("leave") == "true")
		outcome := "miss"
		if res.Hit {
			outcome = "hit"
		}
		metrics.HoverTotal.WithLabelValues(outcome).Inc()
		writeJSON(w, http.StatusOK, res)
	})

	mux.HandleFunc("/api/status", func(w http.ResponseWriter, req *http.Request) {
		res := statusResult{State: h.State(), Commit: version.Commit}
		if snap := h.Current(); snap != nil {
			res.Counties = len(snap.Counties.Features)
			res.Records = snap.Index.Len()
			res.Duplicates = snap.Index.Duplicates()
			res.Version = snap.Version
			res.LoadedAt = snap.LoadedAt.UTC().Format(time.RFC3339)
		}
		writeJSON(w, http.StatusOK, res)
	})

	return mux
}

func serveDocument(w http.ResponseWriter, req *http.Request, r *Renderer, format string) {
	b, ct, err := r.Document(req.Context(), format, req.URL.Query().Get("scale"))
	if err != nil {
		code := statusFor(err)
		if code == http.StatusInternalServerError {
			logger.L().Error("render_error", "format", format, "err", err)
		}
		writeError(w, code, err)
		return
	}
	w.Header().Set("content-type", ct)
	w.Header().Set("cache-control", "no-store")
	_, _ = w.Write(b)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrLoading):
		return http.StatusServiceUnavailable
	case errors.Is(err, colorscale.ErrUnknownScale):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	res := errorResult{Error: err.Error()}
	if errors.Is(err, ErrLoading) {
		res.State = "loading"
	}
	writeJSON(w, code, res)
}
