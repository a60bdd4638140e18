package httpapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"duet/internal/protocol"
	"duet/internal/transport"
	"duet/internal/ws"
)

// Hub takes the WebSocket traffic and reports live room counts.
type Hub interface {
	transport.Sink
	Stats(ctx context.Context) (protocol.Stats, error)
}

type Server struct {
	hub    Hub
	ws     *ws.Handler
	router *echo.Echo
}

// NewServer wires the Echo front. An empty staticDir disables asset serving.
func NewServer(hub Hub, staticDir string, log zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	server := &Server{
		hub:    hub,
		ws:     ws.NewHandler(hub, log),
		router: e,
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/stats", server.handleStats)
	e.GET("/ws", server.handleWebSocket)
	if staticDir != "" {
		e.Static("/", staticDir)
	}

	return server
}

func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) Start(addr string) error {
	return s.router.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.router.Shutdown(ctx)
}

func (s *Server) handleStats(c echo.Context) error {
	stats, err := s.hub.Stats(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, protocol.ErrorMessage{
			Type:    protocol.TypeError,
			Code:    "unavailable",
			Message: err.Error(),
		})
	}
	return c.JSON(http.StatusOK, stats)
}

func (s *Server) handleWebSocket(c echo.Context) error {
	// the handler takes over the connection, Echo must not write a response
	s.ws.ServeHTTP(c.Response(), c.Request())
	return nil
}
