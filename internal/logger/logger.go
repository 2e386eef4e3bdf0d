// 包 logger：统一初始化与获取日志器；通过环境变量控制日志级别、输出格式与输出目标
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	mu            sync.Mutex
	defaultLogger *slog.Logger
)

// Setup：按环境变量初始化默认日志器
// 背景：服务与命令行工具共用同一套配置；LOG_OUTPUT=stdout 时输出到标准输出，默认标准错误。
func Setup() *slog.Logger {
	var w io.Writer = os.Stderr
	if strings.EqualFold(os.Getenv("LOG_OUTPUT"), "stdout") {
		w = os.Stdout
	}
	return SetupWriter(w, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
}

// SetupWriter：指定输出目标初始化默认日志器（测试中用于捕获日志）
func SetupWriter(w io.Writer, level, format string) *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	var h slog.Handler
	if strings.ToLower(format) == "json" {
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	} else {
		h = slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})
	}
	l := slog.New(h)
	mu.Lock()
	defaultLogger = l
	mu.Unlock()
	return l
}

// L：获取默认日志器，未初始化时回退到 Setup
func L() *slog.Logger {
	mu.Lock()
	l := defaultLogger
	mu.Unlock()
	if l == nil {
		return Setup()
	}
	return l
}

// Component：带组件名的子日志器
func Component(name string) *slog.Logger { return L().With("component", name) }
