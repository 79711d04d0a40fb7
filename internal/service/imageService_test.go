package service

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ds124wfegd/bgremove/internal/database"
	"github.com/ds124wfegd/bgremove/internal/entity"
	"github.com/ds124wfegd/bgremove/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingProducer struct {
	mu       sync.Mutex
	messages []interface{}
	err      error
}

func (p *recordingProducer) SendMessage(ctx context.Context, key string, message interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, message)
	return nil
}

func (p *recordingProducer) Close() error { return nil }

type memoryCache struct {
	mu     sync.Mutex
	images map[string]entity.Image
}

func newMemoryCache() *memoryCache {
	return &memoryCache{images: map[string]entity.Image{}}
}

func (c *memoryCache) SetImage(ctx context.Context, image *entity.Image) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.images[image.ID] = *image
	return nil
}

func (c *memoryCache) GetImage(ctx context.Context, id string) (*entity.Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	img, ok := c.images[id]
	if !ok {
		return nil, entity.ErrImageNotFound
	}
	return &img, nil
}

func (c *memoryCache) DeleteImage(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.images, id)
	return nil
}

var testPresets = []entity.Preset{
	{
		Name: "white",
		Variants: []entity.Variant{
			{Name: "standard", Mode: entity.ModeWhite, Threshold: 30},
			{Name: "aggressive", Mode: entity.ModeWhite, Threshold: 50},
		},
	},
}

type fixture struct {
	svc      *imageService
	repo     database.ImageRepository
	cache    *memoryCache
	producer *recordingProducer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := database.NewImageRepository(storage.NewFileStorage(t.TempDir()))
	cache := newMemoryCache()
	producer := &recordingProducer{}
	svc := NewImageService(repo, cache, database.NoopHistory{}, producer, testPresets).(*imageService)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return &fixture{svc: svc, repo: repo, cache: cache, producer: producer}
}

func TestProcessImageQueuesPresetVariants(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.svc.ProcessImage(ctx, "img-1", "white", strings.NewReader("jpeg data"))
	require.NoError(t, err)
	assert.Equal(t, "img-1", id)

	stored, err := f.repo.FindByID("img-1")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusProcessing, stored.Status)
	assert.Equal(t, "white", stored.Preset)

	r, err := f.repo.OpenFile("img-1", entity.FormatOriginal)
	require.NoError(t, err)
	data, _ := io.ReadAll(r)
	r.Close()
	assert.Equal(t, "jpeg data", string(data))

	require.Len(t, f.producer.messages, 1)
	task, ok := f.producer.messages[0].(entity.ProcessingTask)
	require.True(t, ok)
	assert.Equal(t, "img-1", task.ImageID)
	assert.Equal(t, testPresets[0].Variants, task.Operations)
}

func TestProcessImageUnknownPreset(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ProcessImage(context.Background(), "img-1", "sepia", strings.NewReader("x"))
	assert.ErrorIs(t, err, entity.ErrUnknownPreset)
	assert.Empty(t, f.producer.messages)
}

func TestProcessImageProducerFailure(t *testing.T) {
	f := newFixture(t)
	f.producer.err = assert.AnError

	_, err := f.svc.ProcessImage(context.Background(), "img-1", "white", strings.NewReader("x"))
	assert.ErrorIs(t, err, assert.AnError)

	_, err = f.repo.FindByID("img-1")
	assert.ErrorIs(t, err, entity.ErrImageNotFound)
	_, err = f.repo.OpenFile("img-1", entity.FormatOriginal)
	assert.ErrorIs(t, err, entity.ErrVariantNotFound)

	_, err = f.svc.GetImage(context.Background(), "img-1")
	assert.ErrorIs(t, err, entity.ErrImageNotFound)
}

// TestGetImageCaching checks that only finished images are cached
func TestGetImageCaching(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.repo.Save(&entity.Image{ID: "busy", Status: entity.StatusProcessing}))
	require.NoError(t, f.repo.Save(&entity.Image{ID: "done", Status: entity.StatusCompleted}))

	_, err := f.svc.GetImage(ctx, "busy")
	require.NoError(t, err)
	_, err = f.svc.GetImage(ctx, "done")
	require.NoError(t, err)

	_, err = f.cache.GetImage(ctx, "busy")
	assert.ErrorIs(t, err, entity.ErrImageNotFound)
	cached, err := f.cache.GetImage(ctx, "done")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCompleted, cached.Status)

	_, err = f.svc.GetImage(ctx, "missing")
	assert.ErrorIs(t, err, entity.ErrImageNotFound)
}

func TestOpenVariant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.repo.Save(&entity.Image{
		ID:      "img-1",
		Status:  entity.StatusCompleted,
		Formats: map[string]string{"standard": "processed/img-1/standard.png"},
	}))
	require.NoError(t, f.repo.SaveFile("img-1", "standard", strings.NewReader("png")))
	require.NoError(t, f.repo.SaveFile("img-1", entity.FormatOriginal, strings.NewReader("jpg")))

	r, err := f.svc.OpenVariant(ctx, "img-1", "standard")
	require.NoError(t, err)
	data, _ := io.ReadAll(r)
	r.Close()
	assert.Equal(t, "png", string(data))

	r, err = f.svc.OpenVariant(ctx, "img-1", entity.FormatOriginal)
	require.NoError(t, err)
	r.Close()

	_, err = f.svc.OpenVariant(ctx, "img-1", "aggressive")
	assert.ErrorIs(t, err, entity.ErrVariantNotFound)
}

func TestDeleteImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.repo.Save(&entity.Image{ID: "img-1", Status: entity.StatusCompleted}))
	_, err := f.svc.GetImage(ctx, "img-1")
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteImage(ctx, "img-1"))

	_, err = f.svc.GetImage(ctx, "img-1")
	assert.ErrorIs(t, err, entity.ErrImageNotFound)
	assert.ErrorIs(t, f.svc.DeleteImage(ctx, "img-1"), entity.ErrImageNotFound)
}

func TestExpireImages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cutoff := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, f.repo.Save(&entity.Image{ID: "old", CreatedAt: cutoff.Add(-time.Hour)}))
	require.NoError(t, f.repo.Save(&entity.Image{ID: "new", CreatedAt: cutoff.Add(time.Hour)}))

	removed, err := f.svc.ExpireImages(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = f.repo.FindByID("old")
	assert.ErrorIs(t, err, entity.ErrImageNotFound)
	_, err = f.repo.FindByID("new")
	assert.NoError(t, err)
}

func TestHistoryRequiresImage(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.History(context.Background(), "missing")
	assert.ErrorIs(t, err, entity.ErrImageNotFound)
}

func TestValidatePresets(t *testing.T) {
	tests := []struct {
		name    string
		presets []entity.Preset
		wantErr error
	}{
		{name: "valid", presets: testPresets},
		{name: "empty preset", presets: []entity.Preset{{Name: "x"}}, wantErr: entity.ErrInvalidInput},
		{
			name:    "duplicate variant",
			presets: []entity.Preset{{Name: "x", Variants: []entity.Variant{{Name: "a", Mode: entity.ModeWhite}, {Name: "a", Mode: entity.ModeWhite}}}},
			wantErr: entity.ErrInvalidInput,
		},
		{
			name:    "variant named original",
			presets: []entity.Preset{{Name: "x", Variants: []entity.Variant{{Name: entity.FormatOriginal, Mode: entity.ModeWhite}}}},
			wantErr: entity.ErrInvalidInput,
		},
		{
			name:    "path in variant name",
			presets: []entity.Preset{{Name: "x", Variants: []entity.Variant{{Name: "../a", Mode: entity.ModeWhite}}}},
			wantErr: entity.ErrInvalidInput,
		},
		{
			name:    "bad threshold",
			presets: []entity.Preset{{Name: "x", Variants: []entity.Variant{{Name: "a", Mode: entity.ModeGrey, Threshold: 999}}}},
			wantErr: entity.ErrInvalidThreshold,
		},
		{
			name:    "bad mode",
			presets: []entity.Preset{{Name: "x", Variants: []entity.Variant{{Name: "a", Mode: "sepia"}}}},
			wantErr: entity.ErrUnknownMode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePresets(tt.presets)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
