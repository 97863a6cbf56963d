package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/fabrile/go-order-lifecycle/internal/billing"
	"github.com/fabrile/go-order-lifecycle/internal/config"
	kafkax "github.com/fabrile/go-order-lifecycle/internal/kafka"
	"github.com/fabrile/go-order-lifecycle/internal/orders"
	"github.com/fabrile/go-order-lifecycle/internal/postgres"
	"github.com/fabrile/go-order-lifecycle/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.WithError(err).Fatal("db connect")
	}
	defer db.Close()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	worker := &billing.Worker{
		Service: &billing.Service{
			Invoices: &billing.InvoiceRepo{DB: db},
			Log:      log,
		},
		Redis: rdb,
		Log:   log,
	}

	group := getenv("BILLING_GROUP", "billing-svc")
	workers := mustAtoi(os.Getenv("BILLING_WORKERS"), "4")
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, orders.TopicOrderDelivered, workers, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithFields(logrus.Fields{
			"group":   group,
			"topic":   orders.TopicOrderDelivered,
			"workers": workers,
		}).Info("billing consumer started")
		return cons.Start(gctx, worker.HandleOrderDelivered)
	})
	g.Go(func() error {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-sig:
			log.Info("shutting down consumer...")
			cancel()
		case <-gctx.Done():
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Error("consumer exit")
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}
