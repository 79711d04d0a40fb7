package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ds124wfegd/bgremove/internal/entity"
	"github.com/ds124wfegd/bgremove/internal/pkg/background"
	"github.com/sirupsen/logrus"
)

// ProcessImage stores the upload and queues one erase operation per variant
// of the preset.
func (s *imageService) ProcessImage(ctx context.Context, id string, preset string, src io.Reader) (string, error) {
	p, ok := s.findPreset(preset)
	if !ok {
		return "", fmt.Errorf("%w: %q", entity.ErrUnknownPreset, preset)
	}

	now := s.now().UTC()
	image := &entity.Image{
		ID:        id,
		Status:    entity.StatusProcessing,
		Preset:    p.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.SaveFile(id, entity.FormatOriginal, src); err != nil {
		return "", fmt.Errorf("save original: %w", err)
	}

	if err := s.repo.Save(image); err != nil {
		s.discardUpload(id, false)
		return "", fmt.Errorf("save metadata: %w", err)
	}

	task := entity.ProcessingTask{
		ImageID:    id,
		Operations: p.Variants,
	}

	if err := s.producer.SendMessage(ctx, id, task); err != nil {
		s.discardUpload(id, true)
		return "", fmt.Errorf("enqueue task: %w", err)
	}

	logrus.WithFields(logrus.Fields{"image_id": id, "preset": p.Name}).Info("image queued")
	return id, nil
}

// discardUpload rolls back an upload that never reached the queue so no
// image is left in processing without a task.
func (s *imageService) discardUpload(id string, withMetadata bool) {
	var err error
	if withMetadata {
		err = s.repo.Delete(id)
	} else {
		err = s.repo.Purge(id)
	}
	if err != nil {
		logrus.WithField("image_id", id).Errorf("Failed to discard upload: %v", err)
	}
}

// GetImage reads through the cache. Cache failures only cost a file read.
func (s *imageService) GetImage(ctx context.Context, id string) (*entity.Image, error) {
	image, err := s.cache.GetImage(ctx, id)
	if err == nil {
		return image, nil
	}
	if !errors.Is(err, entity.ErrImageNotFound) {
		logrus.WithField("image_id", id).Warnf("cache read failed: %v", err)
	}

	image, err = s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}

	// processing images change soon, keep them out of the cache
	if image.Status != entity.StatusProcessing {
		if err := s.cache.SetImage(ctx, image); err != nil {
			logrus.WithField("image_id", id).Warnf("cache write failed: %v", err)
		}
	}
	return image, nil
}

func (s *imageService) OpenVariant(ctx context.Context, id string, variant string) (io.ReadCloser, error) {
	image, err := s.GetImage(ctx, id)
	if err != nil {
		return nil, err
	}

	if variant != entity.FormatOriginal {
		if _, ok := image.Formats[variant]; !ok {
			return nil, entity.ErrVariantNotFound
		}
	}

	return s.repo.OpenFile(id, variant)
}

func (s *imageService) History(ctx context.Context, id string) ([]entity.HistoryRecord, error) {
	if _, err := s.GetImage(ctx, id); err != nil {
		return nil, err
	}
	return s.history.ListByImage(ctx, id)
}

func (s *imageService) DeleteImage(ctx context.Context, id string) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}

	if err := s.cache.DeleteImage(ctx, id); err != nil {
		logrus.WithField("image_id", id).Warnf("cache delete failed: %v", err)
	}
	if err := s.history.DeleteByImage(ctx, id); err != nil {
		logrus.WithField("image_id", id).Warnf("history delete failed: %v", err)
	}
	return nil
}

// ExpireImages deletes every image created before the cutoff and returns how
// many were removed.
func (s *imageService) ExpireImages(ctx context.Context, before time.Time) (int, error) {
	images, err := s.repo.List()
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, image := range images {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if !image.CreatedAt.Before(before) {
			continue
		}
		if err := s.DeleteImage(ctx, image.ID); err != nil {
			if errors.Is(err, entity.ErrImageNotFound) {
				continue
			}
			return removed, fmt.Errorf("expire %s: %w", image.ID, err)
		}
		removed++
	}
	return removed, nil
}

func (s *imageService) Presets() []entity.Preset {
	return s.presets
}

func (s *imageService) findPreset(name string) (entity.Preset, bool) {
	for _, p := range s.presets {
		if p.Name == name {
			return p, true
		}
	}
	return entity.Preset{}, false
}

// ValidatePresets checks every variant rule once at startup.
func ValidatePresets(presets []entity.Preset) error {
	for _, p := range presets {
		if len(p.Variants) == 0 {
			return fmt.Errorf("preset %s: %w: no variants", p.Name, entity.ErrInvalidInput)
		}
		seen := make(map[string]bool, len(p.Variants))
		for _, v := range p.Variants {
			if v.Name == "" || v.Name == entity.FormatOriginal || strings.ContainsAny(v.Name, `/\.`) || seen[v.Name] {
				return fmt.Errorf("preset %s: %w: bad variant name %q", p.Name, entity.ErrInvalidInput, v.Name)
			}
			seen[v.Name] = true
			if _, err := background.NewRule(v.Mode, v.Threshold); err != nil {
				return fmt.Errorf("preset %s variant %s: %w", p.Name, v.Name, err)
			}
		}
	}
	return nil
}
