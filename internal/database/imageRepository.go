package database

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ds124wfegd/bgremove/internal/entity"
	"github.com/ds124wfegd/bgremove/internal/pkg/storage"
	"github.com/sirupsen/logrus"
)

func NewImageRepository(storage storage.FileStorage) ImageRepository {
	return &fileImageRepository{storage: storage}
}

func (r *fileImageRepository) Save(image *entity.Image) error {
	data, err := json.Marshal(image)
	if err != nil {
		return err
	}

	return r.storage.Save(r.getImageMetadataPath(image.ID), bytes.NewReader(data))
}

func (r *fileImageRepository) FindByID(id string) (*entity.Image, error) {
	reader, err := r.storage.Get(r.getImageMetadataPath(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, entity.ErrImageNotFound
		}
		return nil, err
	}
	defer reader.Close()

	var image entity.Image
	if err := json.NewDecoder(reader).Decode(&image); err != nil {
		return nil, err
	}

	return &image, nil
}

// List skips metadata files that cannot be read instead of failing the scan.
func (r *fileImageRepository) List() ([]*entity.Image, error) {
	names, err := r.storage.List("metadata")
	if err != nil {
		return nil, err
	}

	images := make([]*entity.Image, 0, len(names))
	for _, name := range names {
		if !strings.HasSuffix(name, ".json") {
			continue
		}
		image, err := r.FindByID(strings.TrimSuffix(name, ".json"))
		if err != nil {
			logrus.WithField("file", name).Warnf("skipping unreadable metadata: %v", err)
			continue
		}
		images = append(images, image)
	}
	return images, nil
}

func (r *fileImageRepository) Delete(id string) error {
	metadataPath := r.getImageMetadataPath(id)
	if err := r.storage.Delete(metadataPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return entity.ErrImageNotFound
		}
		return err
	}

	return r.Purge(id)
}

// Exists reports whether metadata is stored for id.
func (r *fileImageRepository) Exists(id string) bool {
	return r.storage.Exists(r.getImageMetadataPath(id))
}

// Purge removes the original and every processed variant of id but leaves
// the metadata alone. Missing files are not an error.
func (r *fileImageRepository) Purge(id string) error {
	processedDir := filepath.Join("processed", id)
	if err := r.storage.Delete(processedDir); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	originalPath := filepath.Join(entity.FormatOriginal, id)
	if err := r.storage.Delete(originalPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	return nil
}

func (r *fileImageRepository) SaveFile(id string, format string, file io.Reader) error {
	return r.storage.Save(r.GetFilePath(id, format), file)
}

func (r *fileImageRepository) OpenFile(id string, format string) (io.ReadCloser, error) {
	reader, err := r.storage.Get(r.GetFilePath(id, format))
	if errors.Is(err, os.ErrNotExist) {
		return nil, entity.ErrVariantNotFound
	}
	return reader, err
}

func (r *fileImageRepository) GetFilePath(id string, format string) string {
	if format == entity.FormatOriginal {
		return filepath.Join(entity.FormatOriginal, id)
	}
	return filepath.Join("processed", id, format+".png")
}

func (r *fileImageRepository) getImageMetadataPath(id string) string {
	return filepath.Join("metadata", id+".json")
}
