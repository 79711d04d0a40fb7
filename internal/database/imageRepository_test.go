package database

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/ds124wfegd/bgremove/internal/entity"
	"github.com/ds124wfegd/bgremove/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) (ImageRepository, storage.FileStorage) {
	t.Helper()
	s := storage.NewFileStorage(t.TempDir())
	return NewImageRepository(s), s
}

func TestSaveAndFind(t *testing.T) {
	repo, _ := newRepo(t)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	img := &entity.Image{ID: "a1", Status: entity.StatusProcessing, Preset: "white", CreatedAt: created}
	require.NoError(t, repo.Save(img))

	found, err := repo.FindByID("a1")
	require.NoError(t, err)
	assert.Equal(t, img.ID, found.ID)
	assert.Equal(t, entity.StatusProcessing, found.Status)
	assert.True(t, created.Equal(found.CreatedAt))
}

func TestFindMissing(t *testing.T) {
	repo, _ := newRepo(t)

	_, err := repo.FindByID("nope")
	assert.ErrorIs(t, err, entity.ErrImageNotFound)
}

func TestFilePaths(t *testing.T) {
	repo, _ := newRepo(t)

	assert.Equal(t, "original/a1", repo.GetFilePath("a1", entity.FormatOriginal))
	assert.Equal(t, "processed/a1/standard.png", repo.GetFilePath("a1", "standard"))
}

func TestSaveAndOpenFile(t *testing.T) {
	repo, _ := newRepo(t)

	require.NoError(t, repo.SaveFile("a1", "aggressive", strings.NewReader("png bytes")))

	r, err := repo.OpenFile("a1", "aggressive")
	require.NoError(t, err)
	defer r.Close()
	data, _ := io.ReadAll(r)
	assert.Equal(t, "png bytes", string(data))

	_, err = repo.OpenFile("a1", "standard")
	assert.ErrorIs(t, err, entity.ErrVariantNotFound)
}

// TestDeleteRemovesEverything checks metadata, original and variants
func TestDeleteRemovesEverything(t *testing.T) {
	repo, s := newRepo(t)

	require.NoError(t, repo.Save(&entity.Image{ID: "a1"}))
	require.NoError(t, repo.SaveFile("a1", entity.FormatOriginal, strings.NewReader("jpg")))
	require.NoError(t, repo.SaveFile("a1", "standard", strings.NewReader("png")))

	require.NoError(t, repo.Delete("a1"))

	assert.False(t, s.Exists("metadata/a1.json"))
	assert.False(t, s.Exists("original/a1"))
	assert.False(t, s.Exists("processed/a1"))

	assert.ErrorIs(t, repo.Delete("a1"), entity.ErrImageNotFound)
}

// TestPurgeKeepsMetadata removes files left behind for an image
func TestPurgeKeepsMetadata(t *testing.T) {
	repo, s := newRepo(t)

	require.NoError(t, repo.Save(&entity.Image{ID: "a1"}))
	require.NoError(t, repo.SaveFile("a1", entity.FormatOriginal, strings.NewReader("jpg")))
	require.NoError(t, repo.SaveFile("a1", "standard", strings.NewReader("png")))
	assert.True(t, repo.Exists("a1"))

	require.NoError(t, repo.Purge("a1"))

	assert.True(t, repo.Exists("a1"))
	assert.False(t, s.Exists("original/a1"))
	assert.False(t, s.Exists("processed/a1"))

	assert.NoError(t, repo.Purge("a1"))
	assert.False(t, repo.Exists("b2"))
}

func TestList(t *testing.T) {
	repo, s := newRepo(t)

	require.NoError(t, repo.Save(&entity.Image{ID: "a1"}))
	require.NoError(t, repo.Save(&entity.Image{ID: "b2"}))
	require.NoError(t, s.Save("metadata/broken.json", strings.NewReader("{")))
	require.NoError(t, s.Save("metadata/readme.txt", strings.NewReader("x")))

	images, err := repo.List()
	require.NoError(t, err)

	ids := make([]string, 0, len(images))
	for _, img := range images {
		ids = append(ids, img.ID)
	}
	assert.ElementsMatch(t, []string{"a1", "b2"}, ids)
}

func TestNoopCacheAlwaysMisses(t *testing.T) {
	var cache ImageCache = NoopCache{}
	ctx := context.Background()

	require.NoError(t, cache.SetImage(ctx, &entity.Image{ID: "a1"}))
	_, err := cache.GetImage(ctx, "a1")
	assert.ErrorIs(t, err, entity.ErrImageNotFound)
	assert.NoError(t, cache.DeleteImage(ctx, "a1"))
}

func TestNoopHistory(t *testing.T) {
	var history HistoryRepository = NoopHistory{}
	ctx := context.Background()

	require.NoError(t, history.Record(ctx, &entity.HistoryRecord{ImageID: "a1"}))
	records, err := history.ListByImage(ctx, "a1")
	require.NoError(t, err)
	assert.Empty(t, records)
}
