package hertzws

import (
	"context"

	"github.com/RanFeng/ilog"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/google/uuid"
	"github.com/hertz-contrib/websocket"
	"github.com/rs/zerolog"

	"duet/internal/transport"
)

// Handler WebSocket处理器
type Handler struct {
	sink     transport.Sink
	upgrader websocket.HertzUpgrader
	log      zerolog.Logger
}

// NewHandler 创建新的WebSocket处理器
func NewHandler(sink transport.Sink, log zerolog.Logger) *Handler {
	return &Handler{
		sink: sink,
		upgrader: websocket.HertzUpgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(ctx *app.RequestContext) bool {
				return true
			},
		},
		log: log,
	}
}

// HandleWebSocket 升级连接并阻塞直到连接关闭
func (h *Handler) HandleWebSocket(c context.Context, ctx *app.RequestContext) {
	id := uuid.NewString()
	remote := ctx.RemoteAddr().String()

	err := h.upgrader.Upgrade(ctx, func(conn *websocket.Conn) {
		ilog.EventInfo(c, "websocket_connected", "conn", id, "remote", remote)
		transport.NewConn(id, conn, h.sink, websocket.IsUnexpectedCloseError, h.log).Serve()
		ilog.EventInfo(c, "websocket_closed", "conn", id)
	})
	if err != nil {
		h.log.Warn().Err(err).Str("remote", remote).Msg("websocket upgrade failed")
	}
}
