// 包 utils：Redis 连接与自签证书工具
package utils

import (
	"context"
	"time"

	"edu-choropleth/internal/config"
	"edu-choropleth/internal/logger"

	"github.com/redis/go-redis/v9"
)

// OpenRedis：使用地址与密码打开 Redis 客户端
// 背景：保留直接传入参数的能力，用于测试与手工注入场景
func OpenRedis(addr, pass string, db int) *redis.Client {
	if addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})
}

// 文档注释：按配置打开 Redis 并探活
// 背景：Redis 仅作渲染缓存；未启用或探活失败时返回 nil，调用方退化为每次渲染。
func OpenRedisFromConfig(ctx context.Context, c config.Redis) *redis.Client {
	l := logger.L()
	if !c.Enabled {
		l.Info("redis_disabled")
		return nil
	}
	rc := OpenRedis(c.Addr, c.Pass, c.DB)
	if rc == nil {
		return nil
	}
	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rc.Ping(pctx).Err(); err != nil {
		l.Error("redis_ping_error", "addr", c.Addr, "err", err)
		_ = rc.Close()
		return nil
	}
	l.Info("redis_ping_ok", "addr", c.Addr, "db", c.DB)
	return rc
}
