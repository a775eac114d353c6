package lookup

import (
	"context"
	"net/http"
	"sync"
	"time"
)

type circuitBreakerCallback func(context.Context) (*http.Response, error)

type breakerState uint8

const (
	breakerClosed breakerState = iota
	breakerHalfOpen
	breakerOpen
)

func (b breakerState) String() string {
	switch b {
	case breakerClosed:
		return "closed"
	case breakerHalfOpen:
		return "half-open"
	}

	return "open"
}

// circuitBreaker protects a broken upstream.
//
// While closed, it counts failures. Counter is dropped on any success
// or if the first failure is older than resetFailuresTimeout. If there
// are more than openThreshold failures, breaker opens and rejects all
// requests for halfOpenTimeout. After that a single probe request is
// let through: its success closes the breaker, failure opens it again.
//
// Transitions are evaluated lazily on each call so there are no
// background timers to stop.
type circuitBreaker struct {
	mutex sync.Mutex
	now   func() time.Time

	state         breakerState
	failures      uint32
	failuresSince time.Time
	openedAt      time.Time
	probing       bool

	openThreshold        uint32
	halfOpenTimeout      time.Duration
	resetFailuresTimeout time.Duration
}

func (c *circuitBreaker) Do(ctx context.Context, callback circuitBreakerCallback) (*http.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	probe, err := c.admit()
	if err != nil {
		return nil, err
	}

	resp, err := callback(ctx)

	if err != nil && ctx.Err() != nil {
		// cancelled by caller, upstream is not to blame
		c.release(probe)

		return nil, ctx.Err()
	}

	c.report(probe, err == nil)

	return resp, err
}

func (c *circuitBreaker) State() breakerState {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.refresh()

	return c.state
}

func (c *circuitBreaker) admit() (bool, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.refresh()

	switch c.state {
	case breakerClosed:
		return false, nil
	case breakerHalfOpen:
		if !c.probing {
			c.probing = true

			return true, nil
		}
	}

	return false, ErrCircuitBreakerOpened
}

func (c *circuitBreaker) release(probe bool) {
	if !probe {
		return
	}

	c.mutex.Lock()
	c.probing = false
	c.mutex.Unlock()
}

func (c *circuitBreaker) report(probe, ok bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.refresh()

	if probe {
		c.probing = false

		switch {
		case c.state != breakerHalfOpen:
		case ok:
			c.close()
		default:
			c.open()
		}

		return
	}

	// requests which were started before breaker has opened
	if c.state != breakerClosed {
		return
	}

	if ok {
		c.failures = 0

		return
	}

	if c.failures == 0 {
		c.failuresSince = c.now()
	}

	c.failures++

	if c.failures > c.openThreshold {
		c.open()
	}
}

func (c *circuitBreaker) refresh() {
	now := c.now()

	switch c.state {
	case breakerClosed:
		if c.failures > 0 && now.Sub(c.failuresSince) >= c.resetFailuresTimeout {
			c.failures = 0
		}
	case breakerOpen:
		if now.Sub(c.openedAt) >= c.halfOpenTimeout {
			c.state = breakerHalfOpen
			c.probing = false
		}
	}
}

func (c *circuitBreaker) open() {
	c.state = breakerOpen
	c.openedAt = c.now()
	c.failures = 0
}

func (c *circuitBreaker) close() {
	c.state = breakerClosed
	c.failures = 0
}

func newCircuitBreaker(openThreshold uint32,
	halfOpenTimeout, resetFailuresTimeout time.Duration) *circuitBreaker {
	return &circuitBreaker{
		now:                  time.Now,
		openThreshold:        openThreshold,
		halfOpenTimeout:      halfOpenTimeout,
		resetFailuresTimeout: resetFailuresTimeout,
	}
}
