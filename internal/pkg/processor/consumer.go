package processor

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/ds124wfegd/bgremove/internal/entity"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Consume reads processing tasks until ctx is cancelled and runs at most
// workers of them at once. It waits for running tasks before returning.
func Consume(ctx context.Context, reader MessageReader, processor ImageProcessor, workers int) error {
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	defer wg.Wait()

	sem := make(chan struct{}, workers)

	logrus.WithField("workers", workers).Info("Image processor consumer started")

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				logrus.Info("Image processor consumer stopped")
				return nil
			}
			logrus.Errorf("Error reading message from Kafka: %v", err)
			continue
		}

		logrus.WithFields(logrus.Fields{
			"topic":     msg.Topic,
			"partition": msg.Partition,
			"offset":    msg.Offset,
		}).Debug("Received message")

		var task entity.ProcessingTask
		if err := json.Unmarshal(msg.Value, &task); err != nil {
			logrus.Errorf("Failed to parse task: %v", err)
			continue
		}

		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			return nil
		}

		wg.Add(1)
		go func(t entity.ProcessingTask) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := processor.Process(ctx, t); err != nil {
				logrus.WithField("image_id", t.ImageID).Errorf("Processing failed: %v", err)
			}
		}(task)
	}
}
