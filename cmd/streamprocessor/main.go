// Package main is the entry point for the Stream Processor, the MQTT
// consumer that turns raw helmet telemetry into HRV and drowsiness
// analysis, crash detection, and ride lifecycle calls into the Coordinator.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/wihwin/helmet-core/internal/broker"
	"github.com/wihwin/helmet-core/internal/config"
	"github.com/wihwin/helmet-core/internal/coordinatorclient"
	"github.com/wihwin/helmet-core/internal/streamprocessor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	brokerClient, err := broker.Connect(cfg.Broker)
	if err != nil {
		log.Fatalf("broker: %v", err)
	}
	defer brokerClient.Disconnect(250)

	if err := brokerClient.SubscribeDeviceTopics(); err != nil {
		log.Fatalf("broker: subscribe: %v", err)
	}

	coordinator := coordinatorclient.New(cfg.Coordinator)
	processor := streamprocessor.New(brokerClient, coordinator, cfg.Processor)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Println("Starting stream processor")
	processor.Run(ctx)
	log.Println("Stream processor stopped")
}
