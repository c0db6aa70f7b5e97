package main

import (
	"os"
	"os/signal"
	"syscall"

	"marquee/internal/config"
	"marquee/internal/consumers"
	"marquee/internal/database"
	"marquee/internal/ledger"
	"marquee/internal/logger"
	"marquee/internal/messaging"
)

func main() {
	cfg := config.Load()

	logger.Init(cfg.LogLevel, cfg.LogFormat)
	log := logger.Get()

	if cfg.NATS.URL == "" {
		logger.Fatal("NATS_URL is required for the audit consumer")
	}

	natsCfg := cfg.NATS
	natsCfg.ClientID = natsCfg.ClientID + "-audit"
	natsClient, err := messaging.Connect(natsCfg)
	if err != nil {
		logger.Fatal("Failed to connect to NATS", "error", err)
	}
	defer natsClient.Close()

	var store ledger.Store
	if cfg.Database.Enabled {
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logger.Fatal("Failed to connect to database", "error", err)
		}
		defer db.Close()
		store = ledger.NewPostgresStore(db)
	} else {
		log.Info("Database disabled, audit runs without ledger verification")
	}

	service := consumers.NewService(natsClient, store)
	if err := service.Start(); err != nil {
		logger.Fatal("Failed to start audit consumer", "error", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down audit consumer...")
	service.Stop()
}
