// File: internal/infra/redis/profile_cache.go
package redis

import (
	"context"
	"encoding/json"
	"time"

	"genomics-annotation-service/internal/domain/model"
	"genomics-annotation-service/internal/domain/ports/repository"
)

var _ repository.UserProfileRepository = (*profileCacheDecorator)(nil)

// profileCacheDecorator is a read-through TTL cache in front of the
// accounts repository. Every worker re-checks roles on every message, so
// this keeps the accounts DB out of the hot path. Role changes go through
// UpdateRole here, which invalidates the entry; the TTL bounds staleness
// for changes made by the web layer.
type profileCacheDecorator struct {
	inner repository.UserProfileRepository
	cache RedisClient
	ttl   time.Duration
}

func NewProfileCacheDecorator(inner repository.UserProfileRepository, cache RedisClient, ttl time.Duration) repository.UserProfileRepository {
	return &profileCacheDecorator{inner: inner, cache: cache, ttl: ttl}
}

func profileKey(userID string) string { return "profile:" + userID }

func (d *profileCacheDecorator) FindByID(ctx context.Context, userID string) (*model.UserProfile, error) {
	// Anything short of a valid cached profile (miss, broken cache, corrupt
	// entry) falls through to the accounts DB; the cache must never take the
	// pipeline down.
	val, err := d.cache.Get(ctx, profileKey(userID))
	if err == nil {
		var p model.UserProfile
		if json.Unmarshal([]byte(val), &p) == nil {
			return &p, nil
		}
	}

	p, err := d.inner.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(p); err == nil {
		_ = d.cache.Set(ctx, profileKey(userID), b, d.ttl)
	}
	return p, nil
}

func (d *profileCacheDecorator) UpdateRole(ctx context.Context, userID string, role model.Role) error {
	_ = d.cache.Del(ctx, profileKey(userID))
	return d.inner.UpdateRole(ctx, userID, role)
}
