package net

import (
	"context"
	"fmt"
	"math/rand"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/rebornclient/reborn-go/internal/net/packet"
)

// Session is a single client-to-server connection. Network I/O runs on two
// dedicated goroutines (reader, writer); world-state mutation happens only
// on the reader goroutine, synchronously, via the dispatcher. Unlike an
// accept-side session, here the client dials out and drives the handshake
// itself instead of waiting for an unencrypted init packet.
type Session struct {
	conn net.Conn
	gen  Generation

	enc, dec *Cipher

	state atomic.Int32 // protocol.State, stored as int32 so this package does not import internal/protocol

	splitter *packet.Splitter
	registry *packet.Registry

	outQueue chan []byte

	closeCh   chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool

	preferCompress bool
	lastActivity   atomic.Int64 // unix nanos of the last inbound frame

	fileSink RawFileSink

	log *zap.Logger
}

// RawFileSink receives RAW_DATA-primed chunks while a large-file transfer
// (LARGE_FILE_START..LARGE_FILE_END) is in progress, bypassing the opcode
// dispatcher entirely since file bytes are not a sub-packet.
// internal/world.Reducer implements this.
type RawFileSink interface {
	ActiveFileTransfer() (name string, active bool)
	AppendFileChunk(name string, chunk []byte)
}

// SetFileSink installs the raw-chunk consumer for in-progress file
// transfers.
func (s *Session) SetFileSink(sink RawFileSink) { s.fileSink = sink }

// Dial opens a TCP connection to addr and returns a Session ready for
// Handshake. gen selects the framing/cipher/compression scheme.
func Dial(ctx context.Context, addr string, gen Generation, preferCompress bool, reg *packet.Registry, log *zap.Logger) (*Session, error) {
	if log == nil {
		log = zap.NewNop()
	}
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("net: dial %s: %w", addr, err)
	}

	s := &Session{
		conn:           conn,
		gen:            gen,
		splitter:       packet.NewSplitter(),
		registry:       reg,
		outQueue:       make(chan []byte, 64),
		closeCh:        make(chan struct{}),
		preferCompress: preferCompress,
		log:            log,
	}
	return s, nil
}

// Handshake sends the version packet, seeds the directional ciphers from
// the chosen session key byte, then sends the login packet.
// Generations below Gen2 run with no cipher at all.
func (s *Session) Handshake(account, password string, clientType byte) error {
	keyByte := byte(rand.Intn(223))

	versionFrame := buildVersionFrame(clientType, keyByte)
	if err := s.writeRaw(versionFrame); err != nil {
		return fmt.Errorf("net: version handshake: %w", err)
	}

	if s.gen >= Gen2 {
		s.enc = NewCipher(s.gen, keyByte)
		s.dec = NewCipher(s.gen, keyByte)
	}

	loginFrame := buildLoginFrame(account, password, s.gen)
	return s.writeFrame(loginFrame)
}

// versionBanner/clientVariant are the client version string and variant
// token sent in the version sub-packet. The frame-building logic lives in
// this file, where Session.Handshake calls it directly.
const (
	versionBanner = "GNW30123"
	clientVariant = "go-reborn"
)

func buildVersionFrame(clientType byte, keyByte byte) []byte {
	w := packet.NewWriterWithID(packet.OutboundID(0))
	w.GChar(int(clientType))
	w.GChar(int(keyByte))
	w.RawBytes([]byte(versionBanner))
	w.GString(clientVariant)
	return w.Bytes()
}

func buildLoginFrame(account, password string, gen Generation) []byte {
	w := packet.NewWriterWithID(packet.OUTLogin)
	w.GString(account)
	w.GString(password)
	w.GChar(int(gen))
	return w.Bytes()
}

func (s *Session) writeRaw(payload []byte) error {
	return WriteFrame(s.conn, payload, Gen1, nil, false)
}

func (s *Session) writeFrame(payload []byte) error {
	return WriteFrame(s.conn, payload, s.gen, s.enc, s.preferCompress)
}

// Run starts the reader and writer goroutines. ctx is the session handle
// passed through to the dispatcher (normally the world.Reducer).
func (s *Session) Run(ctx any) {
	go s.readLoop(ctx)
	go s.writeLoop()
}

// Send queues an already-built sub-packet frame payload for the writer
// goroutine. Non-blocking: a full queue disconnects the session rather
// than letting a slow peer apply backpressure to the reducer.
func (s *Session) Send(payload []byte) {
	if s.closed.Load() {
		return
	}
	select {
	case s.outQueue <- payload:
	default:
		s.log.Warn("outbound queue full, closing session")
		s.Close()
	}
}

// LastActivity reports how long ago the most recent inbound frame arrived,
// used by the keepalive check.
func (s *Session) LastActivity() time.Duration {
	last := s.lastActivity.Load()
	if last == 0 {
		return 0
	}
	return time.Since(time.Unix(0, last))
}

// Close shuts the connection down. Safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.closeCh)
		s.conn.Close()
	})
}

func (s *Session) IsClosed() bool { return s.closed.Load() }

func (s *Session) readLoop(ctx any) {
	defer s.Close()

	var subPackets []packet.SubPacket
	for {
		select {
		case <-s.closeCh:
			return
		default:
		}

		frame, err := ReadFrame(s.conn, s.gen, s.dec)
		if err != nil {
			if !s.closed.Load() {
				s.log.Debug("read error", zap.Error(err))
			}
			return
		}
		s.lastActivity.Store(time.Now().UnixNano())

		subPackets = s.splitter.Split(frame, subPackets[:0])
		for _, sub := range subPackets {
			if sub.Raw && s.fileSink != nil {
				if name, active := s.fileSink.ActiveFileTransfer(); active {
					s.fileSink.AppendFileChunk(name, sub.Body)
					continue
				}
			}
			// A RAW_DATA-primed chunk that is not mid-file-transfer still
			// carries its own opcode as its first byte — e.g. BOARD_PACKET's
			// 8192 raw tile bytes. Both kinds dispatch the same way.
			if err := s.registry.Dispatch(ctx, int(s.state.Load()), sub.Body); err != nil {
				s.log.Debug("dispatch error", zap.Error(err))
			}
		}
	}
}

func (s *Session) writeLoop() {
	defer s.Close()

	for {
		select {
		case payload := <-s.outQueue:
			s.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := s.writeFrame(payload); err != nil {
				if !s.closed.Load() {
					s.log.Debug("write error", zap.Error(err))
				}
				return
			}
		case <-s.closeCh:
			return
		}
	}
}

// State returns the session's current protocol state (an int so this
// package does not depend on internal/protocol).
func (s *Session) State() int { return int(s.state.Load()) }

// SetState transitions the session's protocol state.
func (s *Session) SetState(state int) { s.state.Store(int32(state)) }
