package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"cinema-ticketing/cmd"
	"cinema-ticketing/internal/data/repository"
	"cinema-ticketing/internal/notification"
	"cinema-ticketing/internal/wire"
	"cinema-ticketing/internal/worker"
	"cinema-ticketing/pkg/cache"
	"cinema-ticketing/pkg/database"
	"cinema-ticketing/pkg/rabbitmq"
	"cinema-ticketing/pkg/utils"

	"go.uber.org/zap"
)

const consumerPrefetch = 16

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	logger.Info("Database connected successfully")

	// Redis untuk lockout login
	rdb, err := cache.InitRedis(config.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()
	logger.Info("Redis connected successfully")

	repos := repository.NewRepository(db, rdb, config, logger)

	// Notification pipeline: RabbitMQ kalau dikonfigurasi, kalau tidak in-process
	notifier := notification.NewHandler(
		repos.User,
		repos.Notification,
		notification.NewQRRenderer(config.QR.Dir, config.QR.Size, logger),
		notification.NewMailer(config.Email, logger),
		logger,
	)

	var broker notification.Broker
	var consumer *rabbitmq.Consumer
	if config.RabbitMQ.URL != "" {
		publisher, err := rabbitmq.NewPublisher(config.RabbitMQ.URL, config.RabbitMQ.Queue)
		if err != nil {
			logger.Fatal("Failed to connect rabbitmq publisher", zap.Error(err))
		}
		defer publisher.Close()

		consumer, err = rabbitmq.NewConsumer(config.RabbitMQ.URL, config.RabbitMQ.Queue, consumerPrefetch)
		if err != nil {
			logger.Fatal("Failed to connect rabbitmq consumer", zap.Error(err))
		}
		defer consumer.Close()

		broker = publisher
		logger.Info("RabbitMQ connected", zap.String("queue", config.RabbitMQ.Queue))
	} else {
		logger.Info("RABBITMQ_URL not set, using in-process notification queue")
	}

	dispatcher := notification.NewDispatcher(broker, notifier, 0, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, config, dispatcher, logger)

	// Background workers
	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		if consumer == nil {
			dispatcher.Run(ctx)
			return
		}
		deliveries, err := consumer.Consume()
		if err != nil {
			logger.Error("Failed to start rabbitmq consumer", zap.Error(err))
			return
		}
		dispatcher.Consume(ctx, deliveries)
	}()

	expiry := worker.NewExpiryWorker(app.Service.Reservation, config.Reservation.SweepInterval, logger)
	if err := expiry.Start(ctx); err != nil {
		logger.Fatal("Failed to start expiry worker", zap.Error(err))
	}

	// Start server
	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server error", zap.Error(err))
	}

	stop()
	expiry.Stop()
	<-consumerDone
	dispatcher.Wait()

	logger.Info("Application stopped", zap.Any("expiry_stats", expiry.GetStats()))
}
