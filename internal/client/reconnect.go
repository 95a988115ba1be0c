package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rebornclient/reborn-go/internal/event"
)

// ReconnectPolicy controls whether and how a Client re-establishes a
// dropped session automatically.
type ReconnectPolicy struct {
	Enabled bool
	// MaxRetries caps reconnect attempts per disconnect; 0 means unlimited.
	MaxRetries int
	Backoff    time.Duration
	MaxBackoff time.Duration
}

// DefaultReconnectPolicy backs off from 1s to 30s and retries indefinitely.
func DefaultReconnectPolicy() ReconnectPolicy {
	return ReconnectPolicy{
		Enabled:    true,
		Backoff:    time.Second,
		MaxBackoff: 30 * time.Second,
	}
}

// reconnector drives the re-login loop described for socket close while
// LoggedIn/RcMode: wait backoff, re-enter Connecting, re-login in the same
// account. Outbound actions enqueued during the outage are dropped
// (best-effort semantics); a Reconnected event fires on success.
type reconnector struct {
	c      *Client
	policy ReconnectPolicy

	mu       sync.Mutex
	inFlight bool
}

func newReconnector(c *Client, policy ReconnectPolicy) *reconnector {
	if policy.Backoff <= 0 {
		policy.Backoff = time.Second
	}
	if policy.MaxBackoff <= 0 {
		policy.MaxBackoff = 30 * time.Second
	}
	return &reconnector{c: c, policy: policy}
}

// notifyClosed is called by Client.Update once it observes a closed
// session. It starts at most one reconnect loop at a time.
func (r *reconnector) notifyClosed() {
	if !r.policy.Enabled {
		return
	}
	r.mu.Lock()
	if r.inFlight {
		r.mu.Unlock()
		return
	}
	r.inFlight = true
	r.mu.Unlock()

	go r.run()
}

func (r *reconnector) run() {
	defer func() {
		r.mu.Lock()
		r.inFlight = false
		r.mu.Unlock()
	}()

	c := r.c
	c.mu.Lock()
	account, password := c.account, c.password
	c.mu.Unlock()
	if account == "" {
		return // never successfully logged in; nothing to restore
	}

	backoff := r.policy.Backoff
	for attempt := 1; r.policy.MaxRetries <= 0 || attempt <= r.policy.MaxRetries; attempt++ {
		time.Sleep(backoff)

		c.mu.Lock()
		c.session = nil
		c.reducer = nil
		c.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		err := c.Connect(ctx)
		if err == nil {
			err = c.Login(ctx, account, password)
		}
		cancel()

		if err == nil {
			event.Emit(c.bus, event.Reconnected{})
			return
		}
		if errors.Is(err, ErrLoginRejected) {
			c.log.Warn("reconnect aborted: server rejected credentials")
			return
		}
		c.log.Debug("reconnect attempt failed", zap.Error(err))

		backoff *= 2
		if backoff > r.policy.MaxBackoff {
			backoff = r.policy.MaxBackoff
		}
	}
}
