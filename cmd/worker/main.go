package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"alumnihub/internal/queue"
	"alumnihub/internal/wire"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	log.Println("Initializing worker application...")
	app, err := wire.InitializeWorker()
	if err != nil {
		log.Fatalf("Failed to initialize worker: %v", err)
	}

	ctx, stop := context.WithCancel(context.Background())

	app.Consumer.Run(ctx, queue.TopicEmailDelivery, queue.TopicNotificationDelivery)
	log.Println("Delivery consumer started")

	app.Scheduler.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down worker...")
	stop()
	app.Consumer.Wait()
	app.Scheduler.Stop()

	if err := app.Redis.Close(); err != nil {
		log.Printf("Error closing redis: %v", err)
	}
	log.Println("Worker stopped")
}
