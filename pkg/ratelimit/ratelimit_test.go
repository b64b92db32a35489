package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestAllowHonoursBurstPerKey(t *testing.T) {
	l := New(0.001, 2)

	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))

	assert.True(t, l.Allow("b"), "keys have independent buckets")
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ping", Middleware(New(0.001, 1)), func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	send := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = remote
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := send("10.0.0.1:1234")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())

	w = send("10.0.0.1:1235")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"message":"too many requests, slow down"}`, w.Body.String())

	assert.Equal(t, http.StatusOK, send("10.0.0.2:1234").Code)
}

func TestIdleKeysAreSwept(t *testing.T) {
	current := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := New(1, 1, WithIdleTTL(time.Minute), WithClock(func() time.Time { return current }))

	for _, ip := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		l.Allow(ip)
	}
	assert.Equal(t, 3, l.Len())

	current = current.Add(30 * time.Second)
	l.Allow("10.0.0.1")
	assert.Equal(t, 3, l.Len())

	current = current.Add(40 * time.Second)
	l.Allow("10.0.0.4")
	assert.Equal(t, 2, l.Len(), "only keys idle past the TTL are dropped")

	current = current.Add(2 * time.Minute)
	l.Allow("10.0.0.5")
	assert.Equal(t, 1, l.Len())
}
