package redis_utils_test

import (
	"context"
	"os"
	"testing"
	"time"

	"portfolio/src/config"
	redis_utils "portfolio/src/utils/redis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type SampleData struct {
	Name  string
	Age   int
	Email string
}

func TestRedisHandler(t *testing.T) {
	host := os.Getenv("PORTFOLIO_DATABASES_REDIS_HOST")
	if host == "" {
		t.Skip("PORTFOLIO_DATABASES_REDIS_HOST not set")
	}
	port := os.Getenv("PORTFOLIO_DATABASES_REDIS_PORT")
	if port == "" {
		port = "6379"
	}

	ctx := context.Background()
	handler, err := redis_utils.NewRedisHandler(ctx, config.RedisConfig{Host: host, Port: port})
	require.NoError(t, err)
	defer handler.Close()

	key := "portfolio:test_key"
	expiration := 10 * time.Second

	t.Run("Set and Get with string", func(t *testing.T) {
		require.NoError(t, handler.Set(ctx, key, "test_value", expiration))

		var got string
		require.NoError(t, handler.Get(ctx, key, &got))
		assert.Equal(t, "test_value", got)
	})

	t.Run("Set and Get with struct", func(t *testing.T) {
		value := SampleData{Name: "John Doe", Age: 30, Email: "john.doe@example.com"}
		require.NoError(t, handler.Set(ctx, key, value, expiration))

		var got SampleData
		require.NoError(t, handler.Get(ctx, key, &got))
		assert.Equal(t, value, got)
	})

	t.Run("Get after Delete", func(t *testing.T) {
		require.NoError(t, handler.Delete(ctx, key))

		var got string
		err := handler.Get(ctx, key, &got)
		assert.ErrorIs(t, err, redis_utils.ErrKeyNotFound)
	})
}
