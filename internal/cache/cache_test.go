package cache

import (
	"context"
	"testing"
	"time"

	"github.com/flexprice/paymirror/internal/config"
	"github.com/flexprice/paymirror/internal/logger"
	"github.com/stretchr/testify/assert"
)

func TestGenerateKey(t *testing.T) {
	assert.Equal(t, "webhook_event:v1:WH-1", GenerateKey(PrefixSeenEvent, "WH-1"))
	assert.Equal(t, "a:1:b", GenerateKey("a", 1, "b"))
}

func TestInMemoryCache(t *testing.T) {
	ctx := context.Background()
	cfg := config.GetDefaultConfig()
	c := NewInMemoryCache(cfg, logger.NewNopLogger())

	c.Set(ctx, "k", true, 0)
	v, ok := c.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, true, v)

	c.Set(ctx, "short", 1, time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	_, ok = c.Get(ctx, "short")
	assert.False(t, ok)

	c.Delete(ctx, "k")
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestInMemoryCacheDisabled(t *testing.T) {
	ctx := context.Background()
	cfg := config.GetDefaultConfig()
	cfg.Cache.Enabled = false
	c := NewInMemoryCache(cfg, logger.NewNopLogger())

	c.Set(ctx, "k", true, time.Minute)
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}
