// Command occupancy-logger consumes occupancy events from the broker and
// appends them to logs/occupancy.log.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/iliyamo/igloo-rooms/internal/config"
	"github.com/iliyamo/igloo-rooms/internal/queue"
)

func main() {
	_ = godotenv.Load()

	log, err := config.NewLogger(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"), "occupancy-logger")
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dir := os.Getenv("OCCUPANCY_LOG_DIR")
	if dir == "" {
		dir = "logs"
	}
	c := queue.NewConsumer(config.RabbitURL(), os.Getenv("OCCUPANCY_QUEUE"), dir, log)
	log.Info("consuming occupancy events", zap.String("dir", dir))
	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal("consumer stopped", zap.Error(err))
	}
}
