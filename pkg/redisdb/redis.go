package redisdb

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"stock-advisor/config"
	"stock-advisor/pkg/logger"
)

// Store abstracts the remote key-value store used for response caching and
// learning state. Every method degrades gracefully: when the store is
// disabled or the underlying call fails, writes become no-ops and reads
// report a miss. Caching is a cost optimization, never a correctness
// requirement.
type Store interface {
	Enabled() bool
	Set(ctx context.Context, key, value string, ttl time.Duration)
	Get(ctx context.Context, key string) (string, bool)
	PushCapped(ctx context.Context, listKey, value string, maxLen int64)
	Range(ctx context.Context, listKey string, start, stop int64) []string
	Expire(ctx context.Context, key string, ttl time.Duration)
	Ping(ctx context.Context) error
}

type redisStore struct {
	client  *redis.Client
	enabled bool
	log     *logger.Logger
}

// New builds the store from configured credentials. The store is enabled only
// when both URL and token are present, the URL uses the TLS scheme, and
// neither value looks like an unfilled placeholder. Anything else leaves the
// store disabled rather than failing startup.
func New(cfg config.Redis, log *logger.Logger) Store {
	s := &redisStore{log: log}

	url := strings.TrimSpace(cfg.URL)
	token := strings.TrimSpace(cfg.Token)

	if url == "" || token == "" ||
		!strings.HasPrefix(url, "rediss://") ||
		strings.Contains(url, "your_") || strings.Contains(token, "your_") {
		log.Warn("Redis cache not configured, caching disabled")
		return s
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Warn("Failed to parse Redis URL, caching disabled", logger.ErrorField(err))
		return s
	}
	opt.Password = token

	s.client = redis.NewClient(opt)
	s.enabled = true
	log.Info("Redis cache enabled")
	return s
}

func (s *redisStore) Enabled() bool {
	return s.enabled
}

func (s *redisStore) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if !s.enabled {
		return
	}
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		s.log.WarnContext(ctx, "Cache write failed",
			logger.StringField("key", key),
			logger.ErrorField(err),
		)
	}
}

func (s *redisStore) Get(ctx context.Context, key string) (string, bool) {
	if !s.enabled {
		return "", false
	}
	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.WarnContext(ctx, "Cache read failed",
				logger.StringField("key", key),
				logger.ErrorField(err),
			)
		}
		return "", false
	}
	return val, true
}

func (s *redisStore) PushCapped(ctx context.Context, listKey, value string, maxLen int64) {
	if !s.enabled {
		return
	}
	if err := s.client.LPush(ctx, listKey, value).Err(); err != nil {
		s.log.WarnContext(ctx, "List push failed",
			logger.StringField("key", listKey),
			logger.ErrorField(err),
		)
		return
	}
	if err := s.client.LTrim(ctx, listKey, 0, maxLen-1).Err(); err != nil {
		s.log.WarnContext(ctx, "List trim failed",
			logger.StringField("key", listKey),
			logger.ErrorField(err),
		)
	}
}

func (s *redisStore) Range(ctx context.Context, listKey string, start, stop int64) []string {
	if !s.enabled {
		return nil
	}
	vals, err := s.client.LRange(ctx, listKey, start, stop).Result()
	if err != nil {
		s.log.WarnContext(ctx, "List read failed",
			logger.StringField("key", listKey),
			logger.ErrorField(err),
		)
		return nil
	}
	return vals
}

func (s *redisStore) Expire(ctx context.Context, key string, ttl time.Duration) {
	if !s.enabled {
		return
	}
	if err := s.client.Expire(ctx, key, ttl).Err(); err != nil {
		s.log.WarnContext(ctx, "Expire failed",
			logger.StringField("key", key),
			logger.ErrorField(err),
		)
	}
}

func (s *redisStore) Ping(ctx context.Context) error {
	if !s.enabled {
		return errors.New("cache store disabled")
	}
	return s.client.Ping(ctx).Err()
}
