package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"snackapp/internal/commons"
	"snackapp/internal/config"
	"snackapp/internal/customer"
	"snackapp/internal/infrastructure/logger"
	"snackapp/internal/infrastructure/mysql"
	"snackapp/internal/infrastructure/rabbitmq"
	"snackapp/internal/infrastructure/redis"
	"snackapp/internal/lock"
	"snackapp/internal/messaging"
	"snackapp/internal/order"
	"snackapp/internal/order/listener"
	"snackapp/internal/product"
	"snackapp/internal/server"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the config file")
	flag.Parse()

	cfg, err := commons.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	checks := map[string]server.HealthCheck{"mysql": db.PingContext}

	locker, redisClient := newLocker(cfg, zapLogger)
	if redisClient != nil {
		defer redisClient.Close()
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	conn, err := rabbitmq.NewConnection(cfg.RabbitMQ)
	if err != nil {
		zapLogger.Fatal("connecting to rabbitmq", zap.Error(err))
	}
	defer conn.Close()
	checks["rabbitmq"] = func(ctx context.Context) error {
		if conn.IsClosed() {
			return amqp.ErrClosed
		}
		return nil
	}

	pubCh, err := conn.Channel()
	if err != nil {
		zapLogger.Fatal("opening publisher channel", zap.Error(err))
	}
	if err := rabbitmq.DeclareTopology(pubCh, cfg.RabbitMQ); err != nil {
		zapLogger.Fatal("declaring rabbitmq topology", zap.Error(err))
	}
	publisher := rabbitmq.NewPublisher(pubCh, zapLogger)
	zapLogger.Info("rabbitmq connected")

	productModule := product.NewModule(db, zapLogger)
	customerCtrl := customer.NewModule(db, zapLogger)
	orderModule := order.NewModule(db, cfg, productModule.Service, locker, publisher, zapLogger)

	router := server.NewRouter(checks, zapLogger, productModule.Controller, customerCtrl, orderModule.Controller)
	srv := server.New(cfg.Server.Port, router, zapLogger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	consumers := map[string]messaging.HandlerFunc{
		cfg.RabbitMQ.PaymentCreatedQueue: orderModule.Listener.HandlePaymentCreated,
		cfg.RabbitMQ.PaymentStatusQueue:  orderModule.Listener.HandlePaymentStatus,
	}
	for queue, handler := range consumers {
		ch, err := conn.Channel()
		if err != nil {
			zapLogger.Fatal("opening consumer channel", zap.String("queue", queue), zap.Error(err))
		}
		consumer := rabbitmq.NewConsumer(queue, handler, listener.ShouldRequeue, cfg.RabbitMQ.Workers, zapLogger)
		g.Go(func() error {
			return consumer.Run(gctx, ch, cfg.RabbitMQ.Prefetch)
		})
	}

	g.Go(srv.Start)

	g.Go(func() error {
		<-gctx.Done()
		zapLogger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		zapLogger.Error("stopped with error", zap.Error(err))
		return
	}
	zapLogger.Info("stopped gracefully")
}

func newLocker(cfg *config.Config, zapLogger *zap.Logger) (lock.Locker, *goredis.Client) {
	if cfg.Order.LockBackend == "local" {
		zapLogger.Warn("using in-process order locks; run a single instance")
		return lock.NewLocalLocker(), nil
	}

	client, err := redis.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("connecting to redis", zap.Error(err))
	}
	zapLogger.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
	return lock.NewRedisLocker(client, cfg.Order.LockTTL, cfg.Order.LockWait, zapLogger), client
}
