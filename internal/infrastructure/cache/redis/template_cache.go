package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kirillkom/tour-inquiry-service/internal/core/domain"
	"github.com/kirillkom/tour-inquiry-service/internal/core/ports"
)

const versionKey = "templates:version"

// TemplateCache is a read-through decorator over a TemplateRepository.
// Lookups hit Redis first, writes pass through and bump a namespace
// version so every cached entry is invalidated at once. Redis being
// down degrades to the wrapped repository, never to an error.
type TemplateCache struct {
	inner  ports.TemplateRepository
	client *redis.Client
	ttl    time.Duration
}

func NewTemplateCache(inner ports.TemplateRepository, client *redis.Client, ttl time.Duration) *TemplateCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &TemplateCache{inner: inner, client: client, ttl: ttl}
}

func (c *TemplateCache) FindActiveByCategory(ctx context.Context, category string) ([]domain.ResponseTemplate, error) {
	key := c.key(ctx, "category:"+category)
	if cached, ok := getCached[[]domain.ResponseTemplate](ctx, c.client, key); ok {
		return cached, nil
	}

	templates, err := c.inner.FindActiveByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, templates)
	return templates, nil
}

func (c *TemplateCache) FindActiveGeneral(ctx context.Context) (*domain.ResponseTemplate, error) {
	key := c.key(ctx, "general")
	if cached, ok := getCached[*domain.ResponseTemplate](ctx, c.client, key); ok && cached != nil {
		return cached, nil
	}

	tpl, err := c.inner.FindActiveGeneral(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, tpl)
	return tpl, nil
}

func (c *TemplateCache) Create(ctx context.Context, tpl *domain.ResponseTemplate) error {
	if err := c.inner.Create(ctx, tpl); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *TemplateCache) Update(ctx context.Context, tpl *domain.ResponseTemplate) error {
	if err := c.inner.Update(ctx, tpl); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *TemplateCache) List(ctx context.Context, includeInactive bool) ([]domain.ResponseTemplate, error) {
	// Admin listing, not on the triage path; skip the cache.
	return c.inner.List(ctx, includeInactive)
}

func (c *TemplateCache) SoftDelete(ctx context.Context, id string) error {
	if err := c.inner.SoftDelete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *TemplateCache) key(ctx context.Context, suffix string) string {
	version, err := c.client.Get(ctx, versionKey).Int64()
	if err != nil && err != redis.Nil {
		slog.Warn("template cache version lookup failed", "error", err)
	}
	return fmt.Sprintf("templates:v%d:%s", version, suffix)
}

func (c *TemplateCache) store(ctx context.Context, key string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		slog.Warn("template cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		slog.Warn("template cache set failed", "key", key, "error", err)
	}
}

func (c *TemplateCache) invalidate(ctx context.Context) {
	if err := c.client.Incr(ctx, versionKey).Err(); err != nil {
		slog.Warn("template cache invalidation failed", "error", err)
	}
}

func getCached[T any](ctx context.Context, client *redis.Client, key string) (T, bool) {
	var out T
	payload, err := client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("template cache get failed", "key", key, "error", err)
		}
		return out, false
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		slog.Warn("template cache unmarshal failed", "key", key, "error", err)
		return out, false
	}
	return out, true
}
