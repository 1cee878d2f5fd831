package redisdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"stock-advisor/config"
	"stock-advisor/pkg/logger"
)

func TestNew_EnablementGate(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.Redis
		wantEnabled bool
	}{
		{
			name:        "missing credentials",
			cfg:         config.Redis{},
			wantEnabled: false,
		},
		{
			name:        "missing token",
			cfg:         config.Redis{URL: "rediss://default@cache.example.com:6379"},
			wantEnabled: false,
		},
		{
			name:        "non-TLS scheme rejected",
			cfg:         config.Redis{URL: "redis://cache.example.com:6379", Token: "secret"},
			wantEnabled: false,
		},
		{
			name:        "placeholder URL rejected",
			cfg:         config.Redis{URL: "rediss://your_redis_url_here", Token: "secret"},
			wantEnabled: false,
		},
		{
			name:        "placeholder token rejected",
			cfg:         config.Redis{URL: "rediss://cache.example.com:6379", Token: "your_token_here"},
			wantEnabled: false,
		},
		{
			name:        "valid credentials",
			cfg:         config.Redis{URL: "rediss://default@cache.example.com:6379", Token: "secret"},
			wantEnabled: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := New(tt.cfg, logger.NewNop())
			assert.Equal(t, tt.wantEnabled, store.Enabled())
		})
	}
}

func TestDisabledStore_Degrades(t *testing.T) {
	store := New(config.Redis{}, logger.NewNop())
	ctx := context.Background()

	store.Set(ctx, "k", "v", 0)
	_, ok := store.Get(ctx, "k")
	assert.False(t, ok, "disabled store always misses")

	store.PushCapped(ctx, "list", "v", 10)
	assert.Nil(t, store.Range(ctx, "list", 0, 9))

	assert.Error(t, store.Ping(ctx))
}
