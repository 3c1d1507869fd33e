// Package main provides the docchat HTTP server.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/raphaelgruber/docchat/internal/chatbot"
	"github.com/raphaelgruber/docchat/internal/config"
	"github.com/raphaelgruber/docchat/internal/db"
	"github.com/raphaelgruber/docchat/internal/docs"
	"github.com/raphaelgruber/docchat/internal/history"
	"github.com/raphaelgruber/docchat/internal/index"
	"github.com/raphaelgruber/docchat/internal/llm"
	"github.com/raphaelgruber/docchat/internal/server"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer func() {
		_ = cleanup()
	}()
	slog.SetDefault(logger)

	logger.Info("starting docchat-server", "port", cfg.Port)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	dbClient, err := db.NewClient(ctx, db.Config{
		URL:       cfg.SurrealDBURL,
		Namespace: cfg.SurrealDBNamespace,
		Database:  cfg.SurrealDBDatabase,
		Username:  cfg.SurrealDBUser,
		Password:  cfg.SurrealDBPass,
		AuthLevel: cfg.SurrealDBAuthLevel,
	}, logger)
	if err != nil {
		cancel()
		logger.Error("failed to connect to history store", "error", err)
		os.Exit(1)
	}
	if err := dbClient.InitSchema(ctx); err != nil {
		cancel()
		logger.Error("failed to initialize schema", "error", err)
		os.Exit(1)
	}
	cancel()
	defer func() {
		if err := dbClient.Close(context.Background()); err != nil {
			logger.Error("failed to close history store", "error", err)
		}
	}()

	// The corpus is embedded once here and the index is shared by all
	// requests.
	loader := docs.NewLoader(cfg.DocumentsDir, cfg.ChunkSize, cfg.ChunkOverlap, logger)
	documents, err := loader.Load(context.Background())
	if err != nil {
		logger.Error("failed to load documents", "error", err)
		os.Exit(1)
	}

	embedder, err := index.NewEmbedder(cfg)
	if err != nil {
		logger.Error("failed to create embedder", "error", err)
		os.Exit(1)
	}
	idx := index.NewMemory(embedder, cfg.TopK)
	if err := idx.Index(context.Background(), documents); err != nil {
		logger.Error("failed to build vector index", "error", err)
		os.Exit(1)
	}
	logger.Info("vector index ready", "chunks", idx.Len(), "top_k", cfg.TopK)

	generator, err := llm.NewGenerator(cfg)
	if err != nil {
		logger.Error("failed to create generator", "error", err)
		os.Exit(1)
	}

	pipeline, err := chatbot.NewPipeline(history.NewStore(dbClient), idx, generator, logger)
	if err != nil {
		logger.Error("failed to create pipeline", "error", err)
		os.Exit(1)
	}

	handler := server.NewHandler(pipeline, logger)
	httpServer := server.New(cfg.Port, handler.Routes())

	go func() {
		logger.Info("listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
