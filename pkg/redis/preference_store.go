package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// PreferenceStore keeps one locale tag per user id.
type PreferenceStore struct {
	db     redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// StoreOption configures a PreferenceStore.
type StoreOption func(*PreferenceStore)

// WithKeyPrefix sets the prefix prepended to user ids. Default "locale:".
func WithKeyPrefix(prefix string) StoreOption {
	return func(s *PreferenceStore) { s.prefix = prefix }
}

// WithTTL sets how long a stored preference lives. Zero keeps it forever.
func WithTTL(ttl time.Duration) StoreOption {
	return func(s *PreferenceStore) { s.ttl = ttl }
}

func NewPreferenceStore(client redis.UniversalClient, opts ...StoreOption) *PreferenceStore {
	s := &PreferenceStore{db: client, prefix: "locale:"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewPreferenceStoreFromConfig applies the key prefix and TTL of cfg.
func NewPreferenceStoreFromConfig(client redis.UniversalClient, cfg Config) *PreferenceStore {
	return NewPreferenceStore(client, WithKeyPrefix(cfg.KeyPrefix), WithTTL(cfg.PreferenceTTL))
}

// Get returns "" for empty user ids and missing values.
func (s *PreferenceStore) Get(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", nil
	}
	val, err := s.db.Get(ctx, s.prefix+userID).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return val, err
}

// Set stores locale for userID. Empty user ids or values are ignored.
func (s *PreferenceStore) Set(ctx context.Context, userID, locale string) error {
	if userID == "" || locale == "" {
		return nil
	}
	return s.db.Set(ctx, s.prefix+userID, locale, s.ttl).Err()
}

// Delete removes the preference of userID. Empty user ids are ignored.
func (s *PreferenceStore) Delete(ctx context.Context, userID string) error {
	if userID == "" {
		return nil
	}
	return s.db.Del(ctx, s.prefix+userID).Err()
}
