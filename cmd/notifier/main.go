package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"staybook/internal/notifier/service"
	"staybook/pkg/config"
	"staybook/pkg/events"
)

const ServiceName = "notifier"

func main() {
	cfg := config.Load(ServiceName)

	cfg.Log.Info("Starting Notifier service")

	eventsCfg, err := events.LoadConfig()
	if err != nil {
		cfg.Log.Fatal("Invalid events configuration", "error", err)
	}

	notifier := service.NewNotifierService(cfg.Log)
	consumer, err := events.NewConsumer(eventsCfg, notifier.HandleEvent, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize event consumer", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumerErrors := make(chan error, 1)
	go func() {
		cfg.Log.Info("Consuming booking events",
			"topic", eventsCfg.Topic,
			"group_id", eventsCfg.GroupID,
		)
		consumerErrors <- consumer.Run(ctx)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-consumerErrors:
		if err != nil {
			cfg.Log.Fatal("Event consumer failed", "error", err)
		}
	case sig := <-shutdown:
		cfg.Log.Info("Shutdown signal received", "signal", sig)
	}

	cancel()
	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close event consumer", "error", err)
	}

	cfg.Log.Info("Notifier stopped gracefully")
}
