package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"atobis/internal/config"
	"atobis/internal/game"
	"atobis/internal/ratelimit"
	"atobis/internal/store"
	"atobis/internal/transport/rest"
	"atobis/internal/transport/ws"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()

	cfg := config.Load()

	st := store.New(cfg.RoomCapacity, cfg.GraceWindow, cfg.IdleTimeout)
	limiter := ratelimit.New(cfg.RateLimitRPS, cfg.RateBurst)

	hub := ws.NewHub(log.With().Str("component", "hub").Logger())
	engine := game.NewEngine(st, limiter, hub,
		log.With().Str("component", "engine").Logger(),
		cfg.GuessTimeout, cfg.SweepInterval)
	hub.SetSink(engine)

	go engine.Run()
	log.Info().Msg("game engine started")

	container := &rest.Container{
		Engine:    engine,
		WSHandler: ws.NewHandler(hub, log.With().Str("component", "ws").Logger()),
	}
	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen and serve")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Tell every connected client before the sockets go away.
	if err := engine.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("engine shutdown")
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}
