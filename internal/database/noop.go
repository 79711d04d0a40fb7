package database

import (
	"context"

	"github.com/ds124wfegd/bgremove/internal/entity"
)

// NoopCache is used when redis is disabled or unreachable. Every lookup misses.
type NoopCache struct{}

func (NoopCache) SetImage(ctx context.Context, image *entity.Image) error { return nil }

func (NoopCache) GetImage(ctx context.Context, id string) (*entity.Image, error) {
	return nil, entity.ErrImageNotFound
}

func (NoopCache) DeleteImage(ctx context.Context, id string) error { return nil }

// NoopHistory is used when postgres is disabled or unreachable.
type NoopHistory struct{}

func (NoopHistory) Record(ctx context.Context, record *entity.HistoryRecord) error { return nil }

func (NoopHistory) ListByImage(ctx context.Context, imageID string) ([]entity.HistoryRecord, error) {
	return []entity.HistoryRecord{}, nil
}

func (NoopHistory) DeleteByImage(ctx context.Context, imageID string) error { return nil }
