package main

import (
	"log/slog"
	"net/http"
	"os"

	"docsimplifier/internal/cache"
	"docsimplifier/internal/config"
	"docsimplifier/internal/extract"
	"docsimplifier/internal/gemini"
	"docsimplifier/internal/pipeline"
	"docsimplifier/internal/server"
	"docsimplifier/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration.", "error", err)
		os.Exit(1)
	}

	// The artifact cache is constructed once here and injected everywhere.
	artifacts := cache.New(cfg.CacheTTL)
	gateway := gemini.NewClient(cfg.GeminiModel, cfg.GeminiTimeout)
	pipe := pipeline.New(extract.New(), gateway, artifacts, pipeline.Config{
		PageCeiling:     cfg.PageCeiling,
		TextByteCeiling: cfg.TextByteCeiling,
	})
	srv := server.New(pipe, session.NewManager(), cfg.GeminiAPIKey)

	slog.Info("docsimplifier listening.",
		"addr", cfg.ListenAddr,
		"pageCeiling", cfg.PageCeiling,
		"textByteCeiling", cfg.TextByteCeiling,
		"cacheTTL", cfg.CacheTTL.String(),
		"model", cfg.GeminiModel,
	)
	if err := http.ListenAndServe(cfg.ListenAddr, srv.Handler()); err != nil {
		slog.Error("Server exited.", "error", err)
		os.Exit(1)
	}
}
