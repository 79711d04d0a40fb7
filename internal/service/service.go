package service

import (
	"context"
	"io"
	"time"

	"github.com/ds124wfegd/bgremove/internal/database"
	"github.com/ds124wfegd/bgremove/internal/entity"
	"github.com/ds124wfegd/bgremove/internal/pkg/kafka"
)

type ImageService interface {
	ProcessImage(ctx context.Context, id string, preset string, src io.Reader) (string, error)
	GetImage(ctx context.Context, id string) (*entity.Image, error)
	OpenVariant(ctx context.Context, id string, variant string) (io.ReadCloser, error)
	History(ctx context.Context, id string) ([]entity.HistoryRecord, error)
	DeleteImage(ctx context.Context, id string) error
	ExpireImages(ctx context.Context, before time.Time) (int, error)
	Presets() []entity.Preset
}

type imageService struct {
	repo     database.ImageRepository
	cache    database.ImageCache
	history  database.HistoryRepository
	producer kafka.Producer
	presets  []entity.Preset
	now      func() time.Time
}

func NewImageService(
	repo database.ImageRepository,
	cache database.ImageCache,
	history database.HistoryRepository,
	producer kafka.Producer,
	presets []entity.Preset,
) ImageService {
	return &imageService{
		repo:     repo,
		cache:    cache,
		history:  history,
		producer: producer,
		presets:  presets,
		now:      time.Now,
	}
}
