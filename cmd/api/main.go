package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/fabrile/go-order-lifecycle/internal/billing"
	"github.com/fabrile/go-order-lifecycle/internal/config"
	"github.com/fabrile/go-order-lifecycle/internal/httpx"
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

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.WithError(err).Fatal("db connect")
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers
	pStatus := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicStatusChanged, 1024, log)
	pStatus.Start(ctx)
	pDelivered := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderDelivered, 1024, log)
	pDelivered.Start(ctx)

	// Lifecycle core
	repo := &orders.Repo{DB: db}
	eventLog := &orders.EventLogRepo{DB: db}
	invoicer := &billing.Service{
		Invoices: &billing.InvoiceRepo{DB: db},
		Log:      log,
	}
	svc := &orders.Service{
		Store:      repo,
		Log:        eventLog,
		Invoices:   invoicer,
		CASRetries: cfg.CASRetries,
	}

	router := httpx.NewRouter()
	oh := &httpx.OrdersHandler{
		Svc:               svc,
		Creator:           repo,
		Redis:             rdb,
		ProducerStatus:    pStatus,
		ProducerDelivered: pDelivered,
		Service:           cfg.ServiceName,
		Log:               log,
	}
	oh.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("HTTP listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("listen")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	pStatus.Close()
	pDelivered.Close()
	cancel() // stop producer loops
	pStatus.WaitClosed()
	pDelivered.WaitClosed()
}
