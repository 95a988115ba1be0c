// Package client is the public facade wiring together the session,
// reducer, event bus, and action builders into the connect/login/update/
// action API a host application programs against.
package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rebornclient/reborn-go/internal/action"
	"github.com/rebornclient/reborn-go/internal/event"
	gonet "github.com/rebornclient/reborn-go/internal/net"
	"github.com/rebornclient/reborn-go/internal/net/packet"
	"github.com/rebornclient/reborn-go/internal/protocol"
	"github.com/rebornclient/reborn-go/internal/world"
)

// ErrNotConnected is returned by actions and queries issued before Connect
// and Login have both completed.
var ErrNotConnected = errors.New("client: not connected")

// ErrAlreadyConnected is returned by Connect when a session is already
// open.
var ErrAlreadyConnected = errors.New("client: already connected")

// ErrLoginRejected is returned by Login when the server closes the
// connection during the handshake instead of sending SIGNATURE.
var ErrLoginRejected = errors.New("client: login rejected")

// Config holds everything a Client needs to dial and authenticate, plus the
// ambient concerns (logging, generation, reconnect policy) it carries for
// the lifetime of the connection.
type Config struct {
	Addr           string
	Generation     gonet.Generation
	ClientType     protocol.ClientType
	PreferCompress bool
	Logger         *zap.Logger
	// Reconnect is the zero value (disabled) unless set, e.g. to
	// DefaultReconnectPolicy(). Auto-reconnect only runs once Update
	// observes a closed session after a successful Login.
	Reconnect ReconnectPolicy
}

func (c Config) withDefaults() Config {
	if c.Generation == 0 {
		c.Generation = gonet.Gen3
	}
	if c.ClientType == 0 {
		c.ClientType = protocol.ClientTypePlayer
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}

// Client is the connect/login/update/action facade for one server
// connection. All exported methods are safe to call concurrently; actions
// enqueue onto the session's writer goroutine, queries snapshot the reducer.
type Client struct {
	cfg Config
	log *zap.Logger
	bus *event.Bus

	mu       sync.Mutex
	session  *gonet.Session
	reducer  *world.Reducer
	account  string
	password string

	reconnect *reconnector
}

// New returns a Client configured to dial cfg.Addr. It does not connect.
func New(cfg Config) *Client {
	cfg = cfg.withDefaults()
	c := &Client{
		cfg: cfg,
		log: cfg.Logger,
		bus: event.NewBus(),
	}
	c.reconnect = newReconnector(c, cfg.Reconnect)
	return c
}

// Bus returns the event bus actions and reducer mutations publish to.
// Subscribe with event.Subscribe(client.Bus(), handler).
func (c *Client) Bus() *event.Bus { return c.bus }

// Connect opens the TCP connection and puts the session in the Handshaking
// state. It sends nothing: the version and login sub-packets are sent by
// Login.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil {
		return ErrAlreadyConnected
	}

	reg := packet.NewRegistry(c.log)
	reducer := world.NewReducer(c.log, c.bus, 0, "")
	reducer.RegisterHandlers(reg)

	sess, err := gonet.Dial(ctx, c.cfg.Addr, c.cfg.Generation, c.cfg.PreferCompress, reg, c.log)
	if err != nil {
		return err
	}
	sess.SetFileSink(reducer)
	sess.SetState(int(protocol.Handshaking))

	c.session = sess
	c.reducer = reducer
	event.Emit(c.bus, event.Connected{})
	return nil
}

// Login sends the version and login sub-packets and waits for the server's
// SIGNATURE response (or socket close, or ctx's deadline) before returning.
// The session's reader/writer goroutines are started before the wait. On
// success the session moves to LoggedIn (RcMode for an RC client type).
func (c *Client) Login(ctx context.Context, account, password string) error {
	c.mu.Lock()
	sess := c.session
	reducer := c.reducer
	c.mu.Unlock()
	if sess == nil {
		return ErrNotConnected
	}

	loggedIn := make(chan struct{}, 1)
	unsubscribe := event.Subscribe(c.bus, func(event.LoggedIn) {
		select {
		case loggedIn <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	reducer.SetAccount(account)
	if err := sess.Handshake(account, password, byte(c.cfg.ClientType)); err != nil {
		return fmt.Errorf("client: handshake: %w", err)
	}
	sess.Run(sess)

	timeout := time.After(15 * time.Second)
	poll := time.NewTicker(50 * time.Millisecond)
	defer poll.Stop()
wait:
	for {
		select {
		case <-loggedIn:
			break wait
		case <-ctx.Done():
			return ctx.Err()
		case <-poll.C:
			if sess.IsClosed() && len(loggedIn) == 0 {
				return ErrLoginRejected
			}
		case <-timeout:
			return fmt.Errorf("client: login timed out waiting for server signature")
		}
	}

	if c.cfg.ClientType == protocol.ClientTypeRC {
		sess.SetState(int(protocol.RcMode))
	} else {
		sess.SetState(int(protocol.LoggedIn))
	}
	c.mu.Lock()
	c.account = account
	c.password = password
	c.mu.Unlock()
	return nil
}

// Dial connects and logs in as one call, matching a session constructor
// that performs connect+login together.
func Dial(ctx context.Context, cfg Config, account, password string) (*Client, error) {
	c := New(cfg)
	if err := c.Connect(ctx); err != nil {
		return nil, err
	}
	if err := c.Login(ctx, account, password); err != nil {
		return nil, err
	}
	return c, nil
}

// Disconnect closes the socket. Idempotent.
func (c *Client) Disconnect() {
	c.mu.Lock()
	sess := c.session
	c.mu.Unlock()
	if sess == nil {
		return
	}
	sess.Close()
	event.Emit(c.bus, event.Disconnected{Reason: "client requested disconnect"})
}

// Update runs periodic housekeeping: expiring transient effects and
// checking the keepalive window. Callers driving the client from a
// synchronous poll loop should call this once per tick; it is a no-op for
// purely event-driven consumers since the reducer already mutates state as
// packets arrive on the reader goroutine.
func (c *Client) Update() {
	c.mu.Lock()
	reducer := c.reducer
	sess := c.session
	c.mu.Unlock()
	if reducer == nil {
		return
	}
	reducer.Effects.Expire(time.Now())
	const keepaliveWindow = 60 * time.Second
	if sess != nil && !sess.IsClosed() && sess.LastActivity() > keepaliveWindow {
		c.log.Warn("no inbound traffic within keepalive window, closing session")
		sess.Close()
	}
	if sess != nil && sess.IsClosed() {
		c.reconnect.notifyClosed()
	}
}

func (c *Client) send(payload []byte) error {
	c.mu.Lock()
	sess := c.session
	c.mu.Unlock()
	if sess == nil || sess.IsClosed() {
		return ErrNotConnected
	}
	sess.Send(payload)
	return nil
}

// Move applies a local position update by (dx, dy) tiles, runs GMAP
// boundary/adjacency checks, and sends the corresponding PLAYER_PROPS
// sub-packet, preceded by a LEVEL_WARP to the target segment when the move
// crosses into a segment that is not loaded yet.
func (c *Client) Move(dx, dy float64, dir world.Direction) error {
	c.mu.Lock()
	reducer := c.reducer
	c.mu.Unlock()
	if reducer == nil {
		return ErrNotConnected
	}
	crossing, crossed, x, y := reducer.MoveBy(dx, dy, dir)
	if crossed && !crossing.Blocked && !crossing.Loaded {
		if err := c.send(action.WarpToLevel(crossing.TargetLevel, x, y)); err != nil {
			return err
		}
	}
	return c.send(action.MoveTo(x, y, dir))
}

// Say sets the local player's chat bubble.
func (c *Client) Say(text string) error {
	return c.send(action.Say(text))
}

// DropBomb drops a bomb at the local player's current position.
func (c *Client) DropBomb(power, timer int) error {
	c.mu.Lock()
	reducer := c.reducer
	c.mu.Unlock()
	if reducer == nil {
		return ErrNotConnected
	}
	x, y, _ := reducer.LocalPosition()
	return c.send(action.DropBomb(x, y, power, timer))
}

// ShootArrow fires an arrow from the local player's current position and
// facing.
func (c *Client) ShootArrow() error {
	c.mu.Lock()
	reducer := c.reducer
	c.mu.Unlock()
	if reducer == nil {
		return ErrNotConnected
	}
	x, y, dir := reducer.LocalPosition()
	return c.send(action.ShootArrow(x, y, dir))
}

// Attack triggers a basic weapon swing.
func (c *Client) Attack() error {
	return c.send(action.Attack())
}

// TakeItem requests the ground item at (x, y).
func (c *Client) TakeItem(x, y float64) error {
	return c.send(action.TakeItem(x, y))
}

// WarpToLevel requests a warp to the named level at local tile coordinates.
func (c *Client) WarpToLevel(name string, x, y float64) error {
	return c.send(action.WarpToLevel(name, x, y))
}

// RequestFile asks the server to send the named file.
func (c *Client) RequestFile(name string) error {
	return c.send(action.RequestFile(name))
}

// SendPropBatch flushes a coalesced set of PLAYER_PROPS field writes. See
// action.NewPropBatch for batching multiple property changes made in the
// same tick into one sub-packet.
func (c *Client) SendPropBatch(b *action.PropBatch) error {
	if b.Empty() {
		return nil
	}
	return c.send(b.Bytes())
}

// GetPlayer returns a snapshot of the local player.
func (c *Client) GetPlayer() (world.Player, error) {
	c.mu.Lock()
	reducer := c.reducer
	c.mu.Unlock()
	if reducer == nil {
		return world.Player{}, ErrNotConnected
	}
	return *reducer.Snapshot().Local, nil
}

// GetPlayers returns a snapshot of every other player currently known.
func (c *Client) GetPlayers() ([]world.Player, error) {
	c.mu.Lock()
	reducer := c.reducer
	c.mu.Unlock()
	if reducer == nil {
		return nil, ErrNotConnected
	}
	snap := reducer.Snapshot()
	out := make([]world.Player, 0, len(snap.Others))
	for _, p := range snap.Others {
		out = append(out, *p)
	}
	return out, nil
}

// GetLevel returns a snapshot of the current level, or nil if none has
// been entered yet.
func (c *Client) GetLevel() (*world.Level, error) {
	c.mu.Lock()
	reducer := c.reducer
	c.mu.Unlock()
	if reducer == nil {
		return nil, ErrNotConnected
	}
	return reducer.Snapshot().Current, nil
}
