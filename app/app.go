package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/lending-service/config"
	"github.com/Astemirdum/lending-service/internal/handler"
	"github.com/Astemirdum/lending-service/internal/repository"
	"github.com/Astemirdum/lending-service/internal/server"
	"github.com/Astemirdum/lending-service/internal/service"
	"github.com/Astemirdum/lending-service/migrations"
	"github.com/Astemirdum/lending-service/pkg/auth"
	"github.com/Astemirdum/lending-service/pkg/kafka"
	"github.com/Astemirdum/lending-service/pkg/logger"
	"github.com/Astemirdum/lending-service/pkg/postgres"
)

type publisher interface {
	service.EventPublisher
	Close() error
}

func Run(cfg *config.Config, seed bool) error {
	log := logger.NewLogger(cfg.Log, "lending")
	defer log.Sync() //nolint:errcheck

	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return errors.Wrap(err, "db init")
	}
	defer db.Close()

	repo, err := repository.NewRepository(db, log)
	if err != nil {
		return errors.Wrap(err, "repo init")
	}

	var pub publisher = kafka.NopPublisher{}
	if cfg.Kafka.Enabled() {
		producer, err := kafka.NewProducer(cfg.Kafka)
		if err != nil {
			return errors.Wrap(err, "kafka.NewProducer")
		}
		pub = kafka.NewPublisher(producer, kafka.LendingTopic, log)
	} else {
		log.Warn("KAFKA_ADDRS is empty, lending events are not published")
	}
	defer func() {
		if err := pub.Close(); err != nil {
			log.Error("publisher.Close", zap.Error(err))
		}
	}()

	tokens := auth.NewTokenManager(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	svc := service.NewService(repo, tokens, pub, log)

	if seed {
		if err := Seed(context.Background(), svc, log); err != nil {
			return errors.Wrap(err, "seed")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	gg, gctx := errgroup.WithContext(ctx)

	if cfg.Kafka.Enabled() {
		consumer, err := kafka.NewConsumer(cfg.Kafka, kafka.StatsConsumerGroup)
		if err != nil {
			return errors.Wrap(err, "kafka.NewConsumer")
		}
		gg.Go(func() error {
			kafka.Consume(gctx, consumer, handler.NewConsumer(svc.SaveEvent, log), log, kafka.LendingTopic)
			return nil
		})
		gg.Go(func() error {
			<-gctx.Done()
			return consumer.Close()
		})
	}

	h := handler.New(svc, log, cfg.IsDevelopment())
	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr", net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)),
		zap.String("env", cfg.Env))

	gg.Go(func() error {
		return srv.Run()
	})
	gg.Go(func() error {
		<-gctx.Done()
		log.Debug("Graceful shutdown")

		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Stop(closeCtx)
	})

	if err := gg.Wait(); err != nil {
		return errors.Wrap(err, "run")
	}
	log.Info("Graceful shutdown finished")
	return nil
}
