package processor

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"time"

	"github.com/ds124wfegd/bgremove/internal/database"
	"github.com/ds124wfegd/bgremove/internal/entity"
	"github.com/ds124wfegd/bgremove/internal/pkg/background"
	"github.com/ds124wfegd/bgremove/internal/pkg/codec"
	"github.com/sirupsen/logrus"
)

type ImageProcessor interface {
	Process(ctx context.Context, task entity.ProcessingTask) error
}

type imageProcessor struct {
	repo    database.ImageRepository
	cache   database.ImageCache
	history database.HistoryRepository
	now     func() time.Time
}

func NewImageProcessor(repo database.ImageRepository, cache database.ImageCache, history database.HistoryRepository) ImageProcessor {
	return &imageProcessor{
		repo:    repo,
		cache:   cache,
		history: history,
		now:     time.Now,
	}
}

// Process erases the background of the stored original once per operation
// and marks the image completed. If no variant could be produced, or ctx is
// cancelled before the task finishes, the image is marked failed. An image
// deleted while its task runs has the variants written so far removed.
func (p *imageProcessor) Process(ctx context.Context, task entity.ProcessingTask) error {
	log := logrus.WithField("image_id", task.ImageID)
	log.Info("Processing image")

	// status updates must land even after ctx is cancelled
	statusCtx := context.WithoutCancel(ctx)

	img, err := p.loadOriginal(task.ImageID)
	if err != nil {
		p.markFailed(statusCtx, task.ImageID, err)
		return fmt.Errorf("failed to load image: %w", err)
	}

	formats := make(map[string]string)
	erasedCounts := make(map[string]int)
	for _, op := range task.Operations {
		if err := ctx.Err(); err != nil {
			p.markFailed(statusCtx, task.ImageID, err)
			return err
		}

		opLog := log.WithFields(logrus.Fields{"variant": op.Name, "mode": op.Mode, "threshold": op.Threshold})

		rule, err := background.NewRule(op.Mode, op.Threshold)
		if err != nil {
			opLog.Warnf("Skipping operation: %v", err)
			continue
		}

		processed, erased, err := background.Erase(ctx, img, rule)
		if err != nil {
			p.markFailed(statusCtx, task.ImageID, err)
			return err
		}

		var buf bytes.Buffer
		if err := codec.Encode(&buf, processed); err != nil {
			opLog.Errorf("Failed to encode: %v", err)
			continue
		}
		if err := p.repo.SaveFile(task.ImageID, op.Name, &buf); err != nil {
			opLog.Errorf("Failed to save: %v", err)
			continue
		}
		if !p.repo.Exists(task.ImageID) {
			opLog.Info("Image deleted during processing, discarding variants")
			if err := p.repo.Purge(task.ImageID); err != nil {
				opLog.Warnf("Failed to remove variants: %v", err)
			}
			return entity.ErrImageNotFound
		}

		path := p.repo.GetFilePath(task.ImageID, op.Name)
		formats[op.Name] = path
		erasedCounts[op.Name] = erased

		record := &entity.HistoryRecord{
			ImageID:   task.ImageID,
			Variant:   op.Name,
			Mode:      op.Mode,
			Threshold: op.Threshold,
			Erased:    erased,
			Path:      path,
			CreatedAt: p.now().UTC(),
		}
		if err := p.history.Record(ctx, record); err != nil {
			opLog.Warnf("Failed to record history: %v", err)
		}

		opLog.WithField("erased", erased).Info("Background removed")
	}

	if len(formats) == 0 {
		err := fmt.Errorf("no variant produced for %d operations", len(task.Operations))
		p.markFailed(statusCtx, task.ImageID, err)
		return err
	}

	if err := p.updateStatus(statusCtx, task.ImageID, func(image *entity.Image) {
		image.Status = entity.StatusCompleted
		image.Formats = formats
		image.Erased = erasedCounts
		image.Error = ""
	}); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	log.Info("Completed processing image")
	return nil
}

func (p *imageProcessor) loadOriginal(id string) (image.Image, error) {
	reader, err := p.repo.OpenFile(id, entity.FormatOriginal)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	return codec.Decode(reader)
}

func (p *imageProcessor) markFailed(ctx context.Context, id string, cause error) {
	err := p.updateStatus(ctx, id, func(image *entity.Image) {
		image.Status = entity.StatusFailed
		image.Error = cause.Error()
	})
	if err != nil {
		logrus.WithField("image_id", id).Errorf("Failed to mark image failed: %v", err)
	}
}

func (p *imageProcessor) updateStatus(ctx context.Context, id string, update func(*entity.Image)) error {
	image, err := p.repo.FindByID(id)
	if err != nil {
		return err
	}

	update(image)
	image.UpdatedAt = p.now().UTC()

	if err := p.repo.Save(image); err != nil {
		return err
	}

	if err := p.cache.DeleteImage(ctx, id); err != nil {
		logrus.WithField("image_id", id).Warnf("cache invalidation failed: %v", err)
	}
	return nil
}
