package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/ds124wfegd/bgremove/internal/entity"

	"github.com/redis/go-redis/v9"
)

type CacheRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheRepository(client *redis.Client, ttl time.Duration) *CacheRepository {
	return &CacheRepository{
		client: client,
		ttl:    ttl,
	}
}

func imageKey(id string) string {
	return "image:" + id
}

func (r *CacheRepository) SetImage(ctx context.Context, image *entity.Image) error {
	data, err := json.Marshal(image)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, imageKey(image.ID), data, r.ttl).Err()
}

// GetImage maps a cache miss to entity.ErrImageNotFound.
func (r *CacheRepository) GetImage(ctx context.Context, id string) (*entity.Image, error) {
	data, err := r.client.Get(ctx, imageKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, entity.ErrImageNotFound
		}
		return nil, err
	}

	var image entity.Image
	if err := json.Unmarshal(data, &image); err != nil {
		return nil, err
	}

	return &image, nil
}

func (r *CacheRepository) DeleteImage(ctx context.Context, id string) error {
	return r.client.Del(ctx, imageKey(id)).Err()
}
