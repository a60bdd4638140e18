package hertzapi

import (
	"context"
	"time"

	"github.com/RanFeng/ilog"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/rs/zerolog"

	"duet/internal/hertzws"
	"duet/internal/protocol"
	"duet/internal/transport"
)

// Hub takes the WebSocket traffic and reports live room counts.
type Hub interface {
	transport.Sink
	Stats(ctx context.Context) (protocol.Stats, error)
}

// NewRouter 初始化Hertz路由
func NewRouter(h *server.Hertz, hub Hub, staticDir string, log zerolog.Logger) *server.Hertz {
	wsHandler := hertzws.NewHandler(hub, log)

	h.Use(recoveryMiddleware(log))
	h.Use(loggerMiddleware(log))

	// 健康检查接口
	h.GET("/healthz", func(c context.Context, ctx *app.RequestContext) {
		ctx.String(consts.StatusOK, "ok")
	})
	h.GET("/stats", handleStats(hub))

	// WebSocket路由
	h.GET("/ws", wsHandler.HandleWebSocket)

	// 静态资源
	if staticDir != "" {
		h.Static("/", staticDir)
	}

	return h
}

// recoveryMiddleware 恢复中间件
func recoveryMiddleware(log zerolog.Logger) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("panic", err).Str("path", string(ctx.Path())).Msg("handler panicked")
				ctx.String(consts.StatusInternalServerError, "Internal Server Error")
			}
		}()
		ctx.Next(c)
	}
}

// loggerMiddleware 日志中间件
func loggerMiddleware(log zerolog.Logger) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		start := time.Now()
		ctx.Next(c)
		log.Debug().
			Str("method", string(ctx.Method())).
			Str("path", string(ctx.Path())).
			Int("status", ctx.Response.StatusCode()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

// handleStats 房间统计
func handleStats(hub Hub) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		stats, err := hub.Stats(c)
		if err != nil {
			respondError(ctx, consts.StatusServiceUnavailable, "unavailable", err.Error())
			return
		}
		ilog.EventInfo(c, "Stats", "stats", stats)
		ctx.JSON(consts.StatusOK, stats)
	}
}

// respondError 返回错误响应
func respondError(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, protocol.ErrorMessage{
		Type:    protocol.TypeError,
		Code:    code,
		Message: message,
	})
}
