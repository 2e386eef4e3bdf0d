// 包 config：集中读取 .env 与环境变量，入口只依赖 Config 结构
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"edu-choropleth/internal/colorscale"
	"edu-choropleth/internal/dataset"

	"github.com/joho/godotenv"
)

type Redis struct {
	Enabled bool
	Addr    string
	Pass    string
	DB      int
	TTL     time.Duration
}

type TLS struct {
	Enabled  bool
	CertPath string
	KeyPath  string
}

type Config struct {
	Addr         string
	EducationURL string
	TopologyURL  string
	ColorScale   string
	MapWidth     float64
	MapHeight    float64
	FetchTimeout time.Duration
	WatchSources bool

	Redis Redis
	TLS   TLS

	RateLimitEnabled bool
	RateLimitQPS     int

	HitCacheSize int
	HitCacheTTL  time.Duration
}

// LoadDotenv：依次加载工作目录与 data/env 下的 .env（不覆盖已有变量），文件缺失时忽略
func LoadDotenv() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
}

// 文档注释：从环境变量构建配置
// 背景：调用方需先执行 LoadDotenv；数值解析失败时回退到默认值，不中断启动。
// 约束：COLOR_SCALE 不合法时回退到 linear（由 colorscale.ByName 校验）。
func FromEnv() Config {
	c := Config{
		Addr:         str("ADDR", ":8080"),
		EducationURL: str("EDUCATION_URL", dataset.DefaultEducationURL),
		TopologyURL:  str("TOPOLOGY_URL", dataset.DefaultTopologyURL),
		ColorScale:   strings.ToLower(str("COLOR_SCALE", "linear")),
		MapWidth:     float("MAP_WIDTH", 1200),
		MapHeight:    float("MAP_HEIGHT", 800),
		FetchTimeout: seconds("FETCH_TIMEOUT_S", 0),
		WatchSources: boolean("WATCH_SOURCES", false),
		Redis: Redis{
			Enabled: boolean("REDIS_ENABLED", false),
			Addr:    str("REDIS_HOST", "127.0.0.1") + ":" + str("REDIS_PORT", "6379"),
			Pass:    os.Getenv("REDIS_PASS"),
			DB:      integer("REDIS_DB", 0),
			TTL:     seconds("RENDER_CACHE_TTL_S", 600),
		},
		TLS: TLS{
			Enabled:  boolean("TLS_ENABLE", false),
			CertPath: str("TLS_CERT_PATH", filepath.Join("data", "certs", "server.crt")),
			KeyPath:  str("TLS_KEY_PATH", filepath.Join("data", "certs", "server.key")),
		},
		RateLimitEnabled: boolean("RATE_LIMIT_ENABLED", false),
		RateLimitQPS:     integer("RATE_LIMIT_QPS", 200),
		HitCacheSize:     integer("HITTEST_CACHE_SIZE", 4096),
		HitCacheTTL:      seconds("HITTEST_CACHE_TTL_S", 300),
	}
	if _, err := colorscale.ByName(c.ColorScale); err != nil {
		c.ColorScale = "linear"
	}
	return c
}

func str(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func integer(key string, def int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil && n >= 0 {
		return n
	}
	return def
}

func float(key string, def float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil && v > 0 {
		return v
	}
	return def
}

func seconds(key string, def int) time.Duration {
	return time.Duration(integer(key, def)) * time.Second
}

func boolean(key string, def bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return def
}
