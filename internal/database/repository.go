package database

import (
	"context"
	"io"

	"github.com/ds124wfegd/bgremove/internal/entity"
	"github.com/ds124wfegd/bgremove/internal/pkg/storage"
)

type ImageRepository interface {
	Save(image *entity.Image) error
	FindByID(id string) (*entity.Image, error)
	List() ([]*entity.Image, error)
	Delete(id string) error
	Exists(id string) bool
	Purge(id string) error
	SaveFile(id string, format string, file io.Reader) error
	OpenFile(id string, format string) (io.ReadCloser, error)
	GetFilePath(id string, format string) string
}

// ImageCache holds image metadata for fast status polling.
type ImageCache interface {
	SetImage(ctx context.Context, image *entity.Image) error
	GetImage(ctx context.Context, id string) (*entity.Image, error)
	DeleteImage(ctx context.Context, id string) error
}

// HistoryRepository keeps one record per produced variant.
type HistoryRepository interface {
	Record(ctx context.Context, record *entity.HistoryRecord) error
	ListByImage(ctx context.Context, imageID string) ([]entity.HistoryRecord, error)
	DeleteByImage(ctx context.Context, imageID string) error
}

type fileImageRepository struct {
	storage storage.FileStorage
}
