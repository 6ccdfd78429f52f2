package service

import (
	"context"
	"log"

	"github.com/classboard/gateway/internal/models"
)

// InvalidateChannel carries cross-instance cache invalidation messages.
const InvalidateChannel = "ratelimit:invalidate"

type ConfigStore interface {
	List(ctx context.Context) ([]models.RateLimitConfig, error)
	FindByKey(ctx context.Context, key string) (*models.RateLimitConfig, error)
	Create(ctx context.Context, config *models.RateLimitConfig) error
	Update(ctx context.Context, key string, updates map[string]interface{}) error
	Delete(ctx context.Context, key string) error
}

type CacheInvalidator interface {
	Invalidate()
}

type InvalidatePublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) error
}

// ConfigService is the administrative surface over rate_limit_config. Every
// successful mutation invalidates the local policy cache synchronously and
// notifies sibling instances over redis.
type ConfigService struct {
	repo      ConfigStore
	cache     CacheInvalidator
	publisher InvalidatePublisher // may be nil in single-instance setups
}

func NewConfigService(repo ConfigStore, cache CacheInvalidator, publisher InvalidatePublisher) *ConfigService {
	return &ConfigService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
	}
}

func (s *ConfigService) List(ctx context.Context) ([]models.RateLimitConfig, error) {
	return s.repo.List(ctx)
}

func (s *ConfigService) Get(ctx context.Context, key string) (*models.RateLimitConfig, error) {
	return s.repo.FindByKey(ctx, key)
}

func (s *ConfigService) Create(ctx context.Context, config *models.RateLimitConfig) error {
	if err := s.repo.Create(ctx, config); err != nil {
		return err
	}

	s.invalidate(ctx, config.Key)
	return nil
}

func (s *ConfigService) Update(ctx context.Context, key string, updates map[string]interface{}) error {
	if err := s.repo.Update(ctx, key, updates); err != nil {
		return err
	}

	s.invalidate(ctx, key)
	return nil
}

func (s *ConfigService) Delete(ctx context.Context, key string) error {
	if err := s.repo.Delete(ctx, key); err != nil {
		return err
	}

	s.invalidate(ctx, key)
	return nil
}

func (s *ConfigService) invalidate(ctx context.Context, key string) {
	s.cache.Invalidate()

	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, InvalidateChannel, key); err != nil {
		log.Printf("config: failed to publish invalidation for %q: %v", key, err)
	}
}
