package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/ds124wfegd/cardforge/config"
	"github.com/ds124wfegd/cardforge/internal/appServer"
	"github.com/ds124wfegd/cardforge/internal/pkg/processor"
)

func main() {
	logrus.SetFormatter(new(logrus.JSONFormatter))

	v, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("error loading config: %s", err.Error())
	}
	cfg, err := config.ParseConfig(v)
	if err != nil {
		logrus.Fatalf("error parsing config: %s", err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	components, err := appServer.NewComponents(ctx, cfg)
	if err != nil {
		logrus.Fatalf("error initializing components: %s", err.Error())
	}
	defer components.Close()

	err = processor.StartRenderConsumer(ctx, processor.ConsumerConfig{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
		GroupID: cfg.Kafka.GroupID,
	}, components.Processor)
	if err != nil {
		logrus.WithError(err).Error("render consumer exited")
	}
}
