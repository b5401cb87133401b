// AngelaMos | 2026
// prefs.go

package role

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/condoview/api/internal/core"
)

// Prefs is a small per-user key-value store for client-side preferences that
// must survive across devices: the selected role, the marketplace cart, and
// whatever else the frontends used to keep in local storage.
type Prefs interface {
	Get(ctx context.Context, userID, key string) (string, error)
	Set(ctx context.Context, userID, key, value string) error
	Delete(ctx context.Context, userID, key string) error
}

const prefsKeyPrefix = "prefs:"

type redisPrefs struct {
	client *redis.Client
}

func NewRedisPrefs(client *redis.Client) Prefs {
	return &redisPrefs{client: client}
}

func (p *redisPrefs) Get(ctx context.Context, userID, key string) (string, error) {
	value, err := p.client.HGet(ctx, prefsKeyPrefix+userID, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("get preference %q: %w", key, core.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get preference %q: %w", key, err)
	}
	return value, nil
}

func (p *redisPrefs) Set(ctx context.Context, userID, key, value string) error {
	if err := p.client.HSet(ctx, prefsKeyPrefix+userID, key, value).Err(); err != nil {
		return fmt.Errorf("set preference %q: %w", key, err)
	}
	return nil
}

func (p *redisPrefs) Delete(ctx context.Context, userID, key string) error {
	if err := p.client.HDel(ctx, prefsKeyPrefix+userID, key).Err(); err != nil {
		return fmt.Errorf("delete preference %q: %w", key, err)
	}
	return nil
}

// memoryPrefs backs tests and single-process setups.
type memoryPrefs struct {
	mu    sync.RWMutex
	store map[string]map[string]string
}

func NewMemoryPrefs() Prefs {
	return &memoryPrefs{store: make(map[string]map[string]string)}
}

func (p *memoryPrefs) Get(_ context.Context, userID, key string) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if bucket, ok := p.store[userID]; ok {
		if value, ok := bucket[key]; ok {
			return value, nil
		}
	}
	return "", fmt.Errorf("get preference %q: %w", key, core.ErrNotFound)
}

func (p *memoryPrefs) Set(_ context.Context, userID, key, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.store[userID] == nil {
		p.store[userID] = make(map[string]string)
	}
	p.store[userID][key] = value
	return nil
}

func (p *memoryPrefs) Delete(_ context.Context, userID, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if bucket, ok := p.store[userID]; ok {
		delete(bucket, key)
	}
	return nil
}
