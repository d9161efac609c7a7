package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func newIdempotentRouter(t *testing.T, client *redis.Client, calls *int32, status int) *gin.Engine {
	t.Helper()

	r := gin.New()
	r.Use(IdempotencyMiddleware(client, discardLogger()))
	r.POST("/v1/trips", func(c *gin.Context) {
		n := atomic.AddInt32(calls, 1)
		c.JSON(status, gin.H{"call": n})
	})
	r.GET("/v1/trips/export.csv", func(c *gin.Context) {
		atomic.AddInt32(calls, 1)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte("a,b"))
	})
	return r
}

func post(r http.Handler, key string) *httptest.ResponseRecorder {
	return postBody(r, key, "")
}

func postBody(r http.Handler, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/trips", strings.NewReader(body))
	if key != "" {
		req.Header.Set(idempotencyHeader, key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotency_ReplaysStoredResponse(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	var calls int32
	r := newIdempotentRouter(t, client, &calls, http.StatusCreated)

	first := post(r, "abc")
	require.Equal(t, http.StatusCreated, first.Code)
	assert.Empty(t, first.Header().Get("Idempotent-Replayed"))

	second := post(r, "abc")
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get("Idempotent-Replayed"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Contains(t, second.Header().Get("Content-Type"), "application/json")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	third := post(r, "other")
	assert.Equal(t, http.StatusCreated, third.Code)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestIdempotency_SkipsWithoutKeyOrForReads(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	var calls int32
	r := newIdempotentRouter(t, client, &calls, http.StatusCreated)

	post(r, "")
	post(r, "")
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/v1/trips/export.csv", nil)
		req.Header.Set(idempotencyHeader, "same")
		r.ServeHTTP(httptest.NewRecorder(), req)
	}
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
	assert.Empty(t, mr.Keys())
}

func TestIdempotency_ServerErrorsAreNotStored(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	var calls int32
	r := newIdempotentRouter(t, client, &calls, http.StatusBadGateway)

	post(r, "retry-me")
	post(r, "retry-me")
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestIdempotency_RejectedSubmissionsAreNotStored(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	for _, status := range []int{http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity} {
		var calls int32
		r := newIdempotentRouter(t, client, &calls, status)

		post(r, "form-1")
		w := post(r, "form-1")
		assert.Empty(t, w.Header().Get("Idempotent-Replayed"), "status %d replayed", status)
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "status %d", status)
	}
	assert.Empty(t, mr.Keys())
}

func TestIdempotency_DifferentBodyIsNotReplayed(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	var seen []string
	r := gin.New()
	r.Use(IdempotencyMiddleware(client, discardLogger()))
	r.POST("/v1/trips", func(c *gin.Context) {
		body, _ := c.GetRawData()
		seen = append(seen, string(body))
		c.JSON(http.StatusCreated, gin.H{"body": string(body)})
	})

	first := postBody(r, "form-1", `{"start_location":"Atlantis"}`)
	require.Equal(t, http.StatusCreated, first.Code)

	second := postBody(r, "form-1", `{"start_location":"Hamburg"}`)
	require.Equal(t, http.StatusCreated, second.Code)
	assert.Empty(t, second.Header().Get("Idempotent-Replayed"))
	assert.Contains(t, second.Body.String(), "Hamburg")

	third := postBody(r, "form-1", `{"start_location":"Hamburg"}`)
	assert.Equal(t, "true", third.Header().Get("Idempotent-Replayed"))
	assert.Equal(t, []string{`{"start_location":"Atlantis"}`, `{"start_location":"Hamburg"}`}, seen)
}

func TestIdempotency_RedisDownPassesThrough(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	mr.Close()

	var calls int32
	r := newIdempotentRouter(t, client, &calls, http.StatusCreated)

	w := post(r, "abc")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestIdempotency_NilClient(t *testing.T) {
	var calls int32
	r := newIdempotentRouter(t, nil, &calls, http.StatusCreated)

	post(r, "abc")
	post(r, "abc")
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "given-id")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "given-id", w.Body.String())
	assert.Equal(t, "given-id", w.Header().Get(requestIDHeader))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Body.String(), 36)
	assert.Equal(t, w.Body.String(), w.Header().Get(requestIDHeader))
}

func TestCORSMiddleware(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    string
	}{
		{"wildcard", []string{"*"}, "http://example.com", "*"},
		{"listed origin", []string{"http://app.local"}, "http://app.local", "http://app.local"},
		{"unlisted origin", []string{"http://app.local"}, "http://evil.local", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(CORSMiddleware(tt.allowed))
			r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestLogger_LevelFollowsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	r := gin.New()
	r.Use(RequestID(), Logger(logger))
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Contains(t, buf.String(), `"level":"INFO"`)

	buf.Reset()
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
	assert.Contains(t, buf.String(), `"path":"/boom"`)
}
