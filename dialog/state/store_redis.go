package state

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists session attribute blobs in a Redis hash per user, for
// deployments with a directly reachable Redis instance.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

type RedisConfig struct {
	Addr      string        `envconfig:"ADDR" split_words:"true" required:"true"`
	Password  string        `envconfig:"PASSWORD" split_words:"true"`
	DB        int           `envconfig:"DB" split_words:"true" default:"0"`
	KeyPrefix string        `envconfig:"KEY_PREFIX" split_words:"true"`
	TTL       time.Duration `envconfig:"TTL" split_words:"true" default:"24h"`
}

func NewRedisStore(cfg RedisConfig) *RedisStore {
	prefix := strings.TrimSpace(cfg.KeyPrefix)
	if prefix == "" {
		prefix = defaultStoreKeyPrefix
	}
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		keyPrefix: prefix,
		ttl:       cfg.TTL,
	}
}

// NewRedisStoreWithClient wires an existing client, mainly for tests.
func NewRedisStoreWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisStore {
	if strings.TrimSpace(keyPrefix) == "" {
		keyPrefix = defaultStoreKeyPrefix
	}
	return &RedisStore{client: client, keyPrefix: keyPrefix, ttl: ttl}
}

func (s *RedisStore) Load(ctx context.Context, userID string) (map[string]string, error) {
	key, err := s.key(userID)
	if err != nil {
		return nil, err
	}

	attrs, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	if len(attrs) == 0 {
		return nil, ErrSessionNotFound
	}
	return attrs, nil
}

func (s *RedisStore) Save(ctx context.Context, userID string, attrs map[string]string) error {
	key, err := s.key(userID)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(attrs) > 0 {
		fields := make(map[string]any, len(attrs))
		for k, v := range attrs {
			fields[k] = v
		}
		pipe.HSet(ctx, key, fields)
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Delete(ctx context.Context, userID string) error {
	key, err := s.key(userID)
	if err != nil {
		return err
	}
	return s.client.Del(ctx, key).Err()
}

func (s *RedisStore) key(userID string) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", ErrInvalidUserID
	}
	return s.keyPrefix + userID, nil
}
