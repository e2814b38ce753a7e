package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"

	"github.com/mkiss03/utazasparizsbaoff-sub000/infras/otel/mocks"
	"github.com/mkiss03/utazasparizsbaoff-sub000/shared/cache"
)

func TestRedisCache_Save(t *testing.T) {
	t.Run("string value is stored as-is", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		redisCache := cache.NewRedisCache(client, mocks.NewOtel())

		mock.ExpectSet("tour:get:tour-1", []byte("hello"), time.Minute).SetVal("OK")

		err := redisCache.Save(context.Background(), "tour:get:tour-1", "hello", 60)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("struct value is stored as JSON", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		redisCache := cache.NewRedisCache(client, mocks.NewOtel())

		value := struct {
			ID string `json:"id"`
		}{ID: "tour-1"}

		mock.ExpectSet("tour:get:tour-1", []byte(`{"id":"tour-1"}`), time.Minute).SetVal("OK")

		err := redisCache.Save(context.Background(), "tour:get:tour-1", value, 60)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("set failure surfaces", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		redisCache := cache.NewRedisCache(client, mocks.NewOtel())

		mock.ExpectSet("tour:get:tour-1", []byte("hello"), time.Minute).SetErr(errors.New("connection refused"))

		err := redisCache.Save(context.Background(), "tour:get:tour-1", "hello", 60)

		assert.Error(t, err)
	})
}

func TestRedisCache_Get(t *testing.T) {
	t.Run("string destination", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		redisCache := cache.NewRedisCache(client, mocks.NewOtel())

		mock.ExpectGet("tour:get:tour-1").SetVal("hello")

		var value string

		err := redisCache.Get(context.Background(), "tour:get:tour-1", &value)

		assert.NoError(t, err)
		assert.Equal(t, "hello", value)
	})

	t.Run("struct destination is unmarshalled", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		redisCache := cache.NewRedisCache(client, mocks.NewOtel())

		mock.ExpectGet("tour:get:tour-1").SetVal(`{"id":"tour-1"}`)

		var value struct {
			ID string `json:"id"`
		}

		err := redisCache.Get(context.Background(), "tour:get:tour-1", &value)

		assert.NoError(t, err)
		assert.Equal(t, "tour-1", value.ID)
	})

	t.Run("missing key reports a cache miss", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		redisCache := cache.NewRedisCache(client, mocks.NewOtel())

		mock.ExpectGet("tour:get:missing").RedisNil()

		var value string

		err := redisCache.Get(context.Background(), "tour:get:missing", &value)

		assert.Error(t, err)
		assert.ErrorIs(t, err, cache.Nil)
	})

	t.Run("corrupt payload fails to unmarshal", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		redisCache := cache.NewRedisCache(client, mocks.NewOtel())

		mock.ExpectGet("tour:get:tour-1").SetVal("{not json")

		var value struct {
			ID string `json:"id"`
		}

		err := redisCache.Get(context.Background(), "tour:get:tour-1", &value)

		assert.Error(t, err)
	})
}

func TestRedisCache_Delete(t *testing.T) {
	client, mock := redismock.NewClientMock()
	redisCache := cache.NewRedisCache(client, mocks.NewOtel())

	mock.ExpectDel("tour:get:tour-1").SetVal(1)

	err := redisCache.Delete(context.Background(), "tour:get:tour-1")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_Clear(t *testing.T) {
	client, mock := redismock.NewClientMock()
	redisCache := cache.NewRedisCache(client, mocks.NewOtel())

	mock.ExpectScan(0, "tour:gets*", 0).SetVal([]string{"tour:gets:1", "tour:gets:2"}, 0)
	mock.ExpectDel("tour:gets:1").SetVal(1)
	mock.ExpectDel("tour:gets:2").SetVal(1)

	err := redisCache.Clear(context.Background(), "tour:gets*")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
