package circuitbreaker

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func newBreaker(clock *fakeClock) *Breaker {
	return New(Config{MaxFailures: 2, OpenTimeout: 10 * time.Second, Window: time.Minute}, WithClock(clock.Now))
}

func TestBreakerOpensAfterTooManyFailures(t *testing.T) {
	clock := newFakeClock()
	b := newBreaker(clock)

	for i := 0; i < 2; i++ {
		assert.True(t, b.Allow())
		b.Record(true)
	}
	assert.Equal(t, StateClosed, b.State())

	assert.True(t, b.Allow())
	b.Record(true)
	assert.Equal(t, StateOpen, b.State())
	assert.False(t, b.Allow())
}

func TestBreakerForgetsOldFailures(t *testing.T) {
	clock := newFakeClock()
	b := newBreaker(clock)

	b.Record(true)
	b.Record(true)
	clock.Advance(2 * time.Minute)
	b.Record(true)
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerHalfOpenTrial(t *testing.T) {
	clock := newFakeClock()
	b := newBreaker(clock)
	for i := 0; i < 3; i++ {
		b.Record(true)
	}
	assert.Equal(t, StateOpen, b.State())

	clock.Advance(10 * time.Second)
	assert.True(t, b.Allow())
	assert.Equal(t, StateHalfOpen, b.State())
	assert.False(t, b.Allow(), "only one trial request at a time")

	b.Record(true)
	assert.Equal(t, StateOpen, b.State())
	assert.False(t, b.Allow())

	clock.Advance(10 * time.Second)
	assert.True(t, b.Allow())
	b.Record(false)
	assert.Equal(t, StateClosed, b.State())
	assert.True(t, b.Allow())
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	clock := newFakeClock()
	b := newBreaker(clock)

	failing := true
	r := gin.New()
	r.Use(Middleware(b))
	r.GET("/books", func(c *gin.Context) {
		if failing {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusOK)
	})

	get := func() int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/books", nil))
		return w.Code
	}

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusInternalServerError, get())
	}
	assert.Equal(t, http.StatusServiceUnavailable, get())

	failing = false
	clock.Advance(10 * time.Second)
	assert.Equal(t, http.StatusOK, get())
	assert.Equal(t, StateClosed, b.State())
}

func TestMiddlewareCountsPanicAsFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	clock := newFakeClock()
	b := newBreaker(clock)
	for i := 0; i < 3; i++ {
		b.Record(true)
	}
	require.Equal(t, StateOpen, b.State())

	broken := true
	r := gin.New()
	r.Use(gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, _ any) {
		c.AbortWithStatus(http.StatusInternalServerError)
	}))
	r.Use(Middleware(b))
	r.GET("/books", func(c *gin.Context) {
		if broken {
			panic("nil map write")
		}
		c.Status(http.StatusOK)
	})

	get := func() int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/books", nil))
		return w.Code
	}

	clock.Advance(10 * time.Second)
	assert.Equal(t, http.StatusInternalServerError, get())
	assert.Equal(t, StateOpen, b.State(), "a panicking trial reopens the breaker")

	broken = false
	clock.Advance(10 * time.Second)
	assert.Equal(t, http.StatusOK, get())
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, http.StatusOK, get())
}
