package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// Fetcher：按来源读取原始字节
type Fetcher interface {
	Fetch(ctx context.Context, src string) ([]byte, error)
}

// HTTPFetcher：HTTP(S) 来源；非 2xx 视为失败
type HTTPFetcher struct {
	Client *http.Client
}

func (f *HTTPFetcher) Fetch(ctx context.Context, src string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("accept", "application/json")
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s: status %d", src, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// FileFetcher：本地路径或 file:// 来源
type FileFetcher struct{}

func (FileFetcher) Fetch(ctx context.Context, src string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(LocalPath(src))
}

// AutoFetcher：按来源协议分派
type AutoFetcher struct {
	HTTP *HTTPFetcher
}

// NewAutoFetcher：timeout 为 0 时不设置客户端超时
func NewAutoFetcher(timeout time.Duration) *AutoFetcher {
	return &AutoFetcher{HTTP: &HTTPFetcher{Client: &http.Client{Timeout: timeout}}}
}

func (a *AutoFetcher) Fetch(ctx context.Context, src string) ([]byte, error) {
	if IsRemote(src) {
		return a.HTTP.Fetch(ctx, src)
	}
	return FileFetcher{}.Fetch(ctx, src)
}

// IsRemote：http/https 来源
func IsRemote(src string) bool {
	s := strings.ToLower(src)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// LocalPath：去掉 file:// 前缀
func LocalPath(src string) string {
	if strings.HasPrefix(strings.ToLower(src), "file://") {
		if u, err := url.Parse(src); err == nil && u.Path != "" {
			return u.Path
		}
		return src[len("file://"):]
	}
	return src
}
