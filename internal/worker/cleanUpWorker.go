package worker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Expirer deletes images created before a cutoff.
type Expirer interface {
	ExpireImages(ctx context.Context, before time.Time) (int, error)
}

type ImageCleanupWorker struct {
	expirer   Expirer
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
}

func NewImageCleanupWorker(expirer Expirer, interval, retention time.Duration) *ImageCleanupWorker {
	return &ImageCleanupWorker{
		expirer:   expirer,
		interval:  interval,
		retention: retention,
		now:       time.Now,
	}
}

// Start blocks until ctx is cancelled, removing expired images every interval.
func (w *ImageCleanupWorker) Start(ctx context.Context) {
	if w.interval <= 0 || w.retention <= 0 {
		logrus.Info("Image cleanup worker disabled")
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logrus.WithFields(logrus.Fields{
		"interval":  w.interval.String(),
		"retention": w.retention.String(),
	}).Info("Image cleanup worker started")

	for {
		select {
		case <-ctx.Done():
			logrus.Info("Image cleanup worker stopped")
			return
		case <-ticker.C:
			w.cleanupExpiredImages(ctx)
		}
	}
}

func (w *ImageCleanupWorker) cleanupExpiredImages(ctx context.Context) {
	cutoff := w.now().Add(-w.retention)

	removed, err := w.expirer.ExpireImages(ctx, cutoff)
	if err != nil {
		logrus.Errorf("Failed to expire images: %v", err)
	}

	if removed == 0 {
		logrus.Debug("No expired images found for cleanup")
		return
	}

	logrus.Infof("Expired images cleanup completed: %d removed", removed)
}
