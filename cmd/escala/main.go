package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"escala/internal/directory"
	"escala/internal/realtime"
	"escala/internal/server"
	"escala/internal/storage/sqlite"
	"escala/internal/util"
)

func main() {
	addrFlag := flag.String("addr", util.EnvOrDefault("ESCALA_ADDR", ":8080"), "HTTP listen address")
	dbFlag := flag.String("db", util.EnvOrDefault("ESCALA_DB_PATH", "data/escala.db"), "Path to sqlite database file")
	baseURLFlag := flag.String("base-url", util.EnvOrDefault("ESCALA_BASE_URL", "http://localhost:8080"), "Public base URL for confirmation links")
	staticFlag := flag.String("static", util.EnvOrDefault("ESCALA_STATIC_DIR", "web/dist"), "Directory with built frontend")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	store, err := sqlite.Open(*dbFlag, directory.NewStatic(), logger)
	if err != nil {
		logger.Error("unable to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	hub := realtime.NewHub(logger)
	srv := server.New(store, hub, logger, *baseURLFlag, *staticFlag)

	httpServer := &http.Server{
		Addr:    *addrFlag,
		Handler: cors.AllowAll().Handler(srv.Engine()),
	}

	go func() {
		logger.Info("starting server", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped unexpectedly", slog.String("error", err.Error()))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("failed to shutdown server", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}
