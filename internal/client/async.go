package client

import "context"

// AsyncClient wraps Client, turning its two genuinely blocking operations
// (Connect, Login) into suspending-style calls that return a channel
// instead of blocking the caller's goroutine. Every other Client method is
// already non-blocking (actions enqueue onto the session's writer
// goroutine; queries read an immutable snapshot), so AsyncClient delegates
// those straight through.
type AsyncClient struct {
	*Client
}

// NewAsync wraps an existing Client for asynchronous use. The underlying
// Client is still safe to use directly and concurrently; AsyncClient only
// adds non-blocking variants of Connect/Login.
func NewAsync(c *Client) *AsyncClient {
	return &AsyncClient{Client: c}
}

// ConnectAsync runs Connect on its own goroutine and reports the result on
// the returned channel, which receives exactly one value.
func (a *AsyncClient) ConnectAsync(ctx context.Context) <-chan error {
	result := make(chan error, 1)
	go func() { result <- a.Connect(ctx) }()
	return result
}

// LoginAsync runs Login on its own goroutine and reports the result on the
// returned channel, which receives exactly one value.
func (a *AsyncClient) LoginAsync(ctx context.Context, account, password string) <-chan error {
	result := make(chan error, 1)
	go func() { result <- a.Login(ctx, account, password) }()
	return result
}

// DialAsync connects and logs in on its own goroutine, reporting either the
// ready Client or an error on the returned channel.
func DialAsync(ctx context.Context, cfg Config, account, password string) <-chan DialResult {
	result := make(chan DialResult, 1)
	go func() {
		c, err := Dial(ctx, cfg, account, password)
		result <- DialResult{Client: c, Err: err}
	}()
	return result
}

// DialResult is the outcome of a DialAsync call.
type DialResult struct {
	Client *Client
	Err    error
}
