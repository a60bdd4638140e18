// Command server runs the duet relay: it pairs two browser clients per room,
// relays call negotiation, chat and playback sync between them, and hosts
// their shared word game.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"duet/internal/config"
	"duet/internal/game"
	"duet/internal/hertzapi"
	"duet/internal/httpapi"
	"duet/internal/logging"
	"duet/internal/relay"
	"duet/internal/rooms"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// a missing .env is normal outside development
	_ = godotenv.Load()

	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	def := config.Default()
	return &cli.Command{
		Name:  "duet",
		Usage: "two-party relay for calls, chat, watch parties and a word game",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Value: def.Host, Usage: "bind address", Sources: cli.EnvVars("HOST")},
			&cli.IntFlag{Name: "port", Value: def.Port, Usage: "listen port", Sources: cli.EnvVars("PORT")},
			&cli.StringFlag{Name: "engine", Value: def.Engine, Usage: "HTTP engine: hertz or echo", Sources: cli.EnvVars("ENGINE")},
			&cli.StringFlag{Name: "static-dir", Value: def.StaticDir, Usage: "client bundle directory, empty to disable", Sources: cli.EnvVars("STATIC_DIR")},
			&cli.StringFlag{Name: "log-level", Value: def.LogLevel, Usage: "debug, info, warn or error", Sources: cli.EnvVars("LOG_LEVEL")},
			&cli.StringFlag{Name: "log-format", Value: def.LogFormat, Usage: "console or json", Sources: cli.EnvVars("LOG_FORMAT")},
			&cli.StringFlag{Name: "hints", Value: def.Hints, Usage: "word game hints: none or tier", Sources: cli.EnvVars("HINTS")},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := config.Config{
				Host:      cmd.String("host"),
				Port:      cmd.Int("port"),
				Engine:    strings.ToLower(cmd.String("engine")),
				StaticDir: cmd.String("static-dir"),
				LogLevel:  cmd.String("log-level"),
				LogFormat: cmd.String("log-format"),
				Hints:     cmd.String("hints"),
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(ctx, cfg)
		},
	}
}

func run(ctx context.Context, cfg config.Config) error {
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	hints, err := game.HintSourceByName(cfg.Hints)
	if err != nil {
		return err
	}
	registry := rooms.NewRegistry(func() *game.Game {
		return game.New(game.DefaultDictionary, hints)
	})
	hub := relay.NewHub(registry, log)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	go hub.Run(ctx)

	switch cfg.Engine {
	case config.EngineEcho:
		return serveEcho(ctx, cfg, hub, log)
	default:
		return serveHertz(ctx, cfg, hub, log)
	}
}

func serveHertz(ctx context.Context, cfg config.Config, hub *relay.Hub, log zerolog.Logger) error {
	h := server.Default(server.WithHostPorts(cfg.Addr()))
	h = hertzapi.NewRouter(h, hub, cfg.StaticDir, log)

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("engine", cfg.Engine).Msg("server starting")
		errc <- h.Run()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down server")

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := h.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}

func serveEcho(ctx context.Context, cfg config.Config, hub *relay.Hub, log zerolog.Logger) error {
	srv := httpapi.NewServer(hub, cfg.StaticDir, log)

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("engine", cfg.Engine).Msg("server starting")
		errc <- srv.Start(cfg.Addr())
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down server")

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}
