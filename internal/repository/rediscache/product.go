package rediscache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/TimohaSheff/uch-pract-parfum/internal/domain"
	"github.com/TimohaSheff/uch-pract-parfum/internal/repository"
)

const keyPrefix = "product:"

// ProductRepository is a read-through cache in front of another product
// repository. Cache failures degrade to the underlying store.
type ProductRepository struct {
	inner  repository.ProductRepository
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewProductRepository wraps the given repository with a Redis cache.
func NewProductRepository(inner repository.ProductRepository, client *redis.Client, ttl time.Duration, logger *slog.Logger) *ProductRepository {
	return &ProductRepository{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// GetByID returns the cached product when present, otherwise reads through to
// the underlying store and populates the cache.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	key := keyPrefix + id

	data, err := r.client.Get(ctx, key).Bytes()
	if err == nil {
		var p domain.Product
		if err := json.Unmarshal(data, &p); err == nil {
			return &p, nil
		}
		// Corrupt entry: drop it and read through.
		r.client.Del(ctx, key)
	} else if err != redis.Nil {
		r.logger.WarnContext(ctx, "product cache read failed", "product_id", id, "error", err)
	}

	p, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(p); err == nil {
		if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
			r.logger.WarnContext(ctx, "product cache write failed", "product_id", id, "error", err)
		}
	}

	return p, nil
}

// Create inserts the product through the underlying store.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	return r.inner.Create(ctx, p)
}

// Update writes the product through the underlying store and invalidates the
// cached entry.
func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	if err := r.inner.Update(ctx, p); err != nil {
		return err
	}

	if err := r.client.Del(ctx, keyPrefix+p.ID).Err(); err != nil {
		return fmt.Errorf("invalidate product cache: %w", err)
	}

	return nil
}

// List bypasses the cache; listings are filter-dependent and served from the
// underlying store.
func (r *ProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	return r.inner.List(ctx, filter)
}
