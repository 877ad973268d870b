package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	redispkg "realestate.backend/pkg/redis"
)

func useMiniRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	srv := miniredis.RunT(t)
	cli := redisv9.NewClient(&redisv9.Options{Addr: srv.Addr()})
	redispkg.SetClient(cli)
	t.Cleanup(func() { _ = cli.Close() })
	return srv
}

func TestIdempotencyMiddleware_NoHeaderPassthrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(IdempotencyMiddleware())
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	require.Equal(t, http.StatusNoContent, serve(r, httptest.NewRequest(http.MethodPost, "/x", nil)).Code)
}

func TestIdempotencyMiddleware_ReplaysSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	useMiniRedis(t)

	calls := 0
	r := gin.New()
	r.Use(IdempotencyMiddleware())
	r.POST("/register", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"call": calls})
	})

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/register", nil)
		req.Header.Set(IdempotencyHeader, "key-1")
		return serve(r, req)
	}

	first := send()
	require.Equal(t, http.StatusCreated, first.Code)
	second := send()
	require.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get("X-Idempotency-Hit"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, calls)
}

func TestIdempotencyMiddleware_ScopedPerAccount(t *testing.T) {
	gin.SetMode(gin.TestMode)
	useMiniRedis(t)

	calls := 0
	build := func(accountID uuid.UUID) *gin.Engine {
		r := gin.New()
		r.Use(func(c *gin.Context) { c.Set(UserIDKey, accountID); c.Next() })
		r.Use(IdempotencyMiddleware())
		r.POST("/x", func(c *gin.Context) {
			calls++
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})
		return r
	}

	for _, id := range []uuid.UUID{uuid.New(), uuid.New()} {
		req := httptest.NewRequest(http.MethodPost, "/x", nil)
		req.Header.Set(IdempotencyHeader, "shared")
		require.Equal(t, http.StatusOK, serve(build(id), req).Code)
	}
	assert.Equal(t, 2, calls)
}

func TestIdempotencyMiddleware_FailureReleasesKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := useMiniRedis(t)

	fail := true
	r := gin.New()
	r.Use(IdempotencyMiddleware())
	r.POST("/x", func(c *gin.Context) {
		if fail {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodPost, "/x", nil)
	req.Header.Set(IdempotencyHeader, "retry-me")
	require.Equal(t, http.StatusBadRequest, serve(r, req).Code)
	assert.Empty(t, srv.Keys())

	fail = false
	req = httptest.NewRequest(http.MethodPost, "/x", nil)
	req.Header.Set(IdempotencyHeader, "retry-me")
	require.Equal(t, http.StatusOK, serve(r, req).Code)
	assert.Len(t, srv.Keys(), 1)
}

func TestIdempotencyMiddleware_WithHookedRedis(t *testing.T) {
	origGet := redisGet
	origSet := redisSet
	origSetNX := redisSetNX
	origDel := redisDel
	t.Cleanup(func() {
		redisGet = origGet
		redisSet = origSet
		redisSetNX = origSetNX
		redisDel = origDel
	})
	redisSet = func(context.Context, string, interface{}, time.Duration) error { return nil }
	redisDel = func(context.Context, string) error { return nil }

	gin.SetMode(gin.TestMode)
	build := func() *gin.Engine {
		r := gin.New()
		r.Use(IdempotencyMiddleware())
		r.POST("/x", func(c *gin.Context) { c.String(http.StatusCreated, `{"id":1}`) })
		return r
	}
	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/x", nil)
		req.Header.Set(IdempotencyHeader, "key-1")
		return serve(build(), req)
	}

	t.Run("processing conflict", func(t *testing.T) {
		redisGet = func(context.Context, string) (string, error) { return processingMarker, nil }
		redisSetNX = func(context.Context, string, interface{}, time.Duration) (bool, error) { return false, nil }
		rec := send()
		require.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "IDEMPOTENCY_CONFLICT")
	})

	t.Run("lost lock race", func(t *testing.T) {
		redisGet = func(context.Context, string) (string, error) { return "", redispkg.ErrNil }
		redisSetNX = func(context.Context, string, interface{}, time.Duration) (bool, error) { return false, nil }
		require.Equal(t, http.StatusConflict, send().Code)
	})

	t.Run("store unavailable", func(t *testing.T) {
		redisGet = func(context.Context, string) (string, error) { return "", errors.New("dial tcp: refused") }
		require.Equal(t, http.StatusCreated, send().Code)
	})

	t.Run("corrupt stored response is discarded", func(t *testing.T) {
		deleted := false
		redisGet = func(context.Context, string) (string, error) { return "not json", nil }
		redisDel = func(context.Context, string) error { deleted = true; return nil }
		redisSetNX = func(context.Context, string, interface{}, time.Duration) (bool, error) { return true, nil }
		rec := send()
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.True(t, deleted)
		assert.True(t, strings.Contains(rec.Body.String(), `"id":1`))
	})
}
