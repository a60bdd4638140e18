package ws

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"duet/internal/transport"
)

// Handler upgrades net/http requests and hands the socket to the hub.
type Handler struct {
	sink     transport.Sink
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

func NewHandler(sink transport.Sink, log zerolog.Logger) *Handler {
	return &Handler{
		sink: sink,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		log: log,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader already wrote the error response
		h.log.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("websocket upgrade failed")
		return
	}

	id := uuid.NewString()
	h.log.Info().Str("conn", id).Str("remote", r.RemoteAddr).Msg("websocket connected")
	transport.NewConn(id, conn, h.sink, websocket.IsUnexpectedCloseError, h.log).Serve()
	h.log.Info().Str("conn", id).Msg("websocket closed")
}
