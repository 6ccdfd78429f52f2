package service

import (
	"context"
	"errors"
	"testing"

	"github.com/classboard/gateway/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConfigStore struct {
	configs map[string]models.RateLimitConfig
	err     error
}

func newFakeConfigStore() *fakeConfigStore {
	return &fakeConfigStore{configs: make(map[string]models.RateLimitConfig)}
}

func (f *fakeConfigStore) List(ctx context.Context) ([]models.RateLimitConfig, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.RateLimitConfig, 0, len(f.configs))
	for _, c := range f.configs {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeConfigStore) FindByKey(ctx context.Context, key string) (*models.RateLimitConfig, error) {
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.configs[key]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (f *fakeConfigStore) Create(ctx context.Context, config *models.RateLimitConfig) error {
	if f.err != nil {
		return f.err
	}
	f.configs[config.Key] = *config
	return nil
}

func (f *fakeConfigStore) Update(ctx context.Context, key string, updates map[string]interface{}) error {
	if f.err != nil {
		return f.err
	}
	c := f.configs[key]
	if v, ok := updates["max_requests"]; ok {
		c.MaxRequests = v.(int)
	}
	f.configs[key] = c
	return nil
}

func (f *fakeConfigStore) Delete(ctx context.Context, key string) error {
	if f.err != nil {
		return f.err
	}
	delete(f.configs, key)
	return nil
}

type spyInvalidator struct {
	invalidations int
}

func (s *spyInvalidator) Invalidate() { s.invalidations++ }

type spyPublisher struct {
	messages []string
	err      error
}

func (s *spyPublisher) Publish(ctx context.Context, channel string, message interface{}) error {
	if s.err != nil {
		return s.err
	}
	s.messages = append(s.messages, message.(string))
	return nil
}

func TestConfigMutationsInvalidateCache(t *testing.T) {
	store := newFakeConfigStore()
	cache := &spyInvalidator{}
	pub := &spyPublisher{}
	svc := NewConfigService(store, cache, pub)

	ctx := context.Background()

	err := svc.Create(ctx, &models.RateLimitConfig{Key: "read", WindowMs: 1000, MaxRequests: 5, Enabled: true})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.invalidations)

	err = svc.Update(ctx, "read", map[string]interface{}{"max_requests": 10})
	require.NoError(t, err)
	assert.Equal(t, 2, cache.invalidations)

	err = svc.Delete(ctx, "read")
	require.NoError(t, err)
	assert.Equal(t, 3, cache.invalidations)

	assert.Equal(t, []string{"read", "read", "read"}, pub.messages)
}

func TestFailedMutationDoesNotInvalidate(t *testing.T) {
	store := newFakeConfigStore()
	store.err = errors.New("duplicate key")
	cache := &spyInvalidator{}
	svc := NewConfigService(store, cache, nil)

	err := svc.Create(context.Background(), &models.RateLimitConfig{Key: "read"})
	assert.Error(t, err)
	assert.Equal(t, 0, cache.invalidations)
}

func TestNilPublisherSkipsFanout(t *testing.T) {
	store := newFakeConfigStore()
	cache := &spyInvalidator{}
	svc := NewConfigService(store, cache, nil)

	err := svc.Create(context.Background(), &models.RateLimitConfig{Key: "read", WindowMs: 1000, MaxRequests: 5})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.invalidations)
}

func TestPublishFailureDoesNotFailMutation(t *testing.T) {
	store := newFakeConfigStore()
	cache := &spyInvalidator{}
	pub := &spyPublisher{err: errors.New("redis down")}
	svc := NewConfigService(store, cache, pub)

	err := svc.Create(context.Background(), &models.RateLimitConfig{Key: "read", WindowMs: 1000, MaxRequests: 5})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.invalidations, "local invalidation still happens")
}
