package appServer

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/ds124wfegd/bgremove/config"
	"github.com/ds124wfegd/bgremove/internal/database"
	"github.com/ds124wfegd/bgremove/internal/pkg/kafka"
	"github.com/ds124wfegd/bgremove/internal/pkg/processor"
	"github.com/ds124wfegd/bgremove/internal/pkg/storage"
	"github.com/sirupsen/logrus"
)

// NewProcessor consumes processing tasks until SIGINT or SIGTERM.
func NewProcessor(cfg *config.Config) {
	deps := openDependencies(cfg)
	defer deps.Close()

	fileStorage := storage.NewFileStorage(cfg.Storage.BasePath)
	imgRepo := database.NewImageRepository(fileStorage)
	imgProcessor := processor.NewImageProcessor(imgRepo, deps.cache, deps.history)

	reader := kafka.NewReader(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID)
	defer reader.Close()

	logrus.WithFields(logrus.Fields{
		"brokers": cfg.Kafka.Brokers,
		"topic":   cfg.Kafka.Topic,
		"group":   cfg.Kafka.GroupID,
	}).Info("Connected to Kafka")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := processor.Consume(ctx, reader, imgProcessor, cfg.Processor.Workers); err != nil {
		logrus.Errorf("consumer stopped with error: %s", err.Error())
	}
}
