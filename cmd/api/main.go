package main

import (
	"os"
	"os/signal"
	"syscall"

	"marquee/internal/api"
	"marquee/internal/config"
	"marquee/internal/logger"
)

func main() {
	cfg := config.Load()

	logger.Init(cfg.LogLevel, cfg.LogFormat)
	log := logger.Get()

	server, err := api.NewServer(cfg)
	if err != nil {
		logger.Fatal("Failed to create server", "error", err)
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		log.Info("Shutting down server...")
		server.Cleanup()
		os.Exit(0)
	}()

	if err := server.Run(); err != nil {
		server.Cleanup()
		logger.Fatal("Failed to start server", "error", err)
	}
}
