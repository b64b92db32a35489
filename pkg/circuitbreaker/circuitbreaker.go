// Package circuitbreaker sheds API traffic while the store keeps failing.
// Server errors count as failures; once more than MaxFailures land inside
// Window the breaker opens and requests get 503 without reaching a handler.
// After OpenTimeout a single trial request is let through.
package circuitbreaker

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

type Config struct {
	MaxFailures int
	OpenTimeout time.Duration
	Window      time.Duration
}

type Breaker struct {
	cfg Config
	now func() time.Time

	mu       sync.Mutex
	state    State
	failures []time.Time
	openedAt time.Time
	trial    bool
}

type Option func(*Breaker)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(b *Breaker) { b.now = now }
}

func New(cfg Config, opts ...Option) *Breaker {
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	b := &Breaker{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Allow reports whether a request may proceed. In the half-open state only
// one request at a time is admitted.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateOpen:
		if b.now().Sub(b.openedAt) < b.cfg.OpenTimeout {
			return false
		}
		b.state = StateHalfOpen
		b.trial = true
		return true
	case StateHalfOpen:
		if b.trial {
			return false
		}
		b.trial = true
		return true
	default:
		return true
	}
}

// Record reports the outcome of a request admitted by Allow.
func (b *Breaker) Record(failed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	if !failed {
		if b.state == StateHalfOpen {
			b.state = StateClosed
			b.failures = b.failures[:0]
		}
		b.trial = false
		b.prune(now)
		return
	}

	b.failures = append(b.failures, now)
	b.prune(now)
	if b.state == StateHalfOpen || len(b.failures) > b.cfg.MaxFailures {
		b.state = StateOpen
		b.openedAt = now
	}
	b.trial = false
}

func (b *Breaker) prune(now time.Time) {
	cutoff := now.Add(-b.cfg.Window)
	i := 0
	for i < len(b.failures) && !b.failures[i].After(cutoff) {
		i++
	}
	b.failures = b.failures[i:]
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Middleware fails fast with 503 while the breaker is open and feeds every
// response status back into it. A handler that panics counts as a failure;
// the panic keeps propagating to the recovery middleware.
func Middleware(b *Breaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !b.Allow() {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"message": "service temporarily unavailable, try again shortly",
			})
			return
		}
		finished := false
		defer func() {
			if !finished {
				b.Record(true)
			}
		}()
		c.Next()
		finished = true
		b.Record(c.Writer.Status() >= http.StatusInternalServerError)
	}
}
