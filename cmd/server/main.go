package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/adi-253/chathub/internal/archive"
	"github.com/adi-253/chathub/internal/auth"
	"github.com/adi-253/chathub/internal/config"
	"github.com/adi-253/chathub/internal/handlers"
	"github.com/adi-253/chathub/internal/hub"
	"github.com/adi-253/chathub/internal/moderation"
	"github.com/adi-253/chathub/internal/services"
	"github.com/adi-253/chathub/internal/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(slog.Default())
	if err != nil {
		return err
	}
	log := logs.GetLoggerFromString(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Core collections
	sessions := services.NewSessionRegistry()
	rooms := services.NewRoomDirectory(cfg.DefaultRoom)
	messages := services.NewMessageStore()

	opts := hub.Options{Identity: auth.NewNameProvider()}
	if cfg.AuthTokenSecret != "" {
		opts.Identity = auth.NewTokenProvider(cfg.AuthTokenSecret, cfg.RequireToken)
	}
	if len(cfg.CensoredWords) > 0 {
		moderator, err := moderation.New(cfg.CensoredWords, cfg.Mask())
		if err != nil {
			return fmt.Errorf("build moderator: %w", err)
		}
		opts.Censor = moderator
	}

	// Optional archive with background compaction, readable over REST
	var historyHandler *handlers.HistoryHandler
	if cfg.ArchivePath != "" {
		journal, err := archive.Open(cfg.ArchivePath, log)
		if err != nil {
			return err
		}
		defer journal.Close()
		opts.Archive = journal
		historyHandler = handlers.NewHistoryHandler(journal, cfg.DefaultRoom, log)

		cleanup := services.NewCleanupService(journal, cfg.ArchiveGCInterval, log)
		go cleanup.Start()
		defer cleanup.Stop()
	}

	gateway := websocket.NewGateway(log)
	chatHub := hub.New(log, sessions, rooms, messages, gateway, opts)

	wsHandler := websocket.NewHandler(log, chatHub, gateway, websocket.Options{
		AllowedOrigins: cfg.CorsOrigins,
		MaxMessageSize: cfg.MaxMessageSize,
		SendBufferSize: cfg.SendBufferSize,
	})
	roomHandler := handlers.NewRoomHandler(rooms, sessions)
	messageHandler := handlers.NewMessageHandler(messages, cfg.DefaultRoom)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	log.Info("CORS allowed origins", "origins", cfg.CorsOrigins)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", handlers.HealthCheck(sessions))
	r.Get("/ws", wsHandler.ServeWS)

	r.Route("/api", func(r chi.Router) {
		r.Get("/rooms", roomHandler.ListRooms)
		r.Get("/participants", roomHandler.ListParticipants)
		r.Route("/messages", func(r chi.Router) {
			r.Get("/", messageHandler.GetMessages)
			r.Get("/direct", messageHandler.GetDirectMessages)
			r.Get("/unread", messageHandler.GetUnread)
		})
		if historyHandler != nil {
			r.Get("/history", historyHandler.GetHistory)
		}
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: r,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("chathub starting", "addr", srv.Addr, "defaultRoom", cfg.DefaultRoom)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP shutdown incomplete", "error", err)
	}
	return gateway.Shutdown(shutdownCtx)
}
